package handler

import (
	"context"  // provides context with cancellation for DB calls
	"errors"   // sentinel error matching
	"net/http" // HTTP status codes and primitives
	"strings"  // string manipulation utilities
	"time"     // timeouts for DB calls and token TTLs

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/iliyamo/todo-list-api/internal/config"     // app configuration
	"github.com/iliyamo/todo-list-api/internal/repository" // DB repositories
	"github.com/iliyamo/todo-list-api/internal/utils"      // helper functions (hashing, token issuing)
)

// AuthHandler bundles dependencies for the register and login endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// loginDummyHash is a valid bcrypt hash (cost 10) of a throwaway string.
// When a login names an unknown username the submitted password is still
// verified against this hash, so "unknown user" and "wrong password"
// cost the same bcrypt comparison before the uniform 401.
const loginDummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// ----- DTOs -----

type registerReq struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
}
type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// authResp is returned by both register and login: the freshly minted
// token plus the public identity fields. The password hash never appears
// in any response shape.
type authResp struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Register creates an account and returns a token immediately, so the
// client is logged in without a second round trip.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Name = strings.TrimSpace(req.Name)
	if req.Username == "" || req.Name == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing username or name or password"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Fast-path duplicate check for a friendly error. The authoritative
	// uniqueness check is the UNIQUE KEY inside Create: two concurrent
	// registrations both passing this lookup are resolved by the database
	// rejecting the second insert.
	if _, err := h.Users.GetByUsername(ctx, req.Username); err == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}

	uid, err := h.Users.Create(ctx, req.Username, req.Name, hash)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	tok, err := utils.NewToken(h.Cfg.JWTSecret, uid, req.Username, h.tokenTTL())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	return c.JSON(http.StatusCreated, authResp{
		Token:    tok.Token,
		Username: req.Username,
		Name:     req.Name,
	})
}

// Login verifies credentials and returns a fresh token. Unknown usernames
// and wrong passwords produce the same response body and status so the
// endpoint cannot be used to enumerate accounts.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing username or password"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Burn a comparison against the dummy hash so this branch is
			// not distinguishable from a wrong password by timing.
			utils.VerifyPassword(loginDummyHash, req.Password)
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "user or password invalid"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "user or password invalid"})
	}

	tok, err := utils.NewToken(h.Cfg.JWTSecret, u.ID, u.Username, h.tokenTTL())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		Token:    tok.Token,
		Username: u.Username,
		Name:     u.Name,
	})
}

func (h *AuthHandler) tokenTTL() time.Duration {
	return time.Duration(h.Cfg.TokenTTLHrs) * time.Hour
}
