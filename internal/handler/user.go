package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-list-api/internal/repository"
)

// UserHandler serves the public account listing.
type UserHandler struct {
	Users    *repository.UserRepo
	Comments *repository.CommentRepo
}

func NewUserHandler(users *repository.UserRepo, comments *repository.CommentRepo) *UserHandler {
	if users == nil || comments == nil {
		panic("nil repository passed to NewUserHandler")
	}
	return &UserHandler{Users: users, Comments: comments}
}

// commentRef is the populated comment reference embedded in a user
// response: just the id and message, not the full author chain.
type commentRef struct {
	ID      uint64 `json:"id"`
	Message string `json:"message"`
}

// userResp is the public shape of an account: identity fields plus
// resource references. There is deliberately no password field.
type userResp struct {
	ID       uint64       `json:"id"`
	Username string       `json:"username"`
	Name     string       `json:"name"`
	Todos    []uint64     `json:"todos"`
	Comments []commentRef `json:"comments"`
}

// List handles GET /api/users. Comment back-references are populated
// into {id, message} pairs; todo back-references stay as plain ids.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	comments, err := h.Comments.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	byID := make(map[uint64]commentRef, len(comments))
	for _, cm := range comments {
		byID[cm.ID] = commentRef{ID: cm.ID, Message: cm.Message}
	}

	out := make([]userResp, 0, len(users))
	for _, u := range users {
		resp := userResp{
			ID:       u.ID,
			Username: u.Username,
			Name:     u.Name,
			Todos:    u.TodoIDs,
			Comments: make([]commentRef, 0, len(u.CommentIDs)),
		}
		for _, id := range u.CommentIDs {
			if ref, ok := byID[id]; ok {
				resp.Comments = append(resp.Comments, ref)
			}
		}
		out = append(out, resp)
	}
	return c.JSON(http.StatusOK, out)
}
