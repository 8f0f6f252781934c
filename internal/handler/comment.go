package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-list-api/internal/model"
	"github.com/iliyamo/todo-list-api/internal/repository"
)

// CommentHandler bundles the repositories used by the comment endpoints.
// Creating a comment only requires authentication, not ownership of any
// pre-existing resource: every account may comment.
type CommentHandler struct {
	Comments *repository.CommentRepo
	Users    *repository.UserRepo
}

func NewCommentHandler(comments *repository.CommentRepo, users *repository.UserRepo) *CommentHandler {
	if comments == nil || users == nil {
		panic("nil repository passed to NewCommentHandler")
	}
	return &CommentHandler{Comments: comments, Users: users}
}

type createCommentReq struct {
	Message string `json:"message"`
}

// List handles GET /api/comments, a public listing with populated
// author references.
func (h *CommentHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	comments, err := h.Comments.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	owners := make(map[uint64]ownerPart, len(users))
	for _, u := range users {
		owners[u.ID] = ownerOf(u)
	}

	out := make([]commentResp, 0, len(comments))
	for _, cm := range comments {
		out = append(out, commentResp{ID: cm.ID, Message: cm.Message, User: owners[cm.UserID]})
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /api/comments. Requires authentication; the author
// reference is the authenticated account. The comment id is appended to
// the author's back-reference list after the insert.
func (h *CommentHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createCommentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "message cannot be empty"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	comment := model.Comment{
		Message:   req.Message,
		UserID:    user.ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Comments.Create(ctx, &comment); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create comment failed"})
	}
	if err := h.Users.AppendCommentRef(ctx, user.ID, comment.ID); err != nil {
		c.Logger().Errorf("append comment ref failed for user=%d comment=%d: %v", user.ID, comment.ID, err)
	}

	return c.JSON(http.StatusCreated, commentResp{
		ID:      comment.ID,
		Message: comment.Message,
		User:    ownerOf(*user),
	})
}
