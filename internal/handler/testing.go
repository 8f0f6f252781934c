package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-list-api/internal/repository"
)

// TestingHandler exposes the database reset used by end-to-end tests.
// The router only registers it when APP_ENV is "test"; it must never be
// reachable in any other environment.
type TestingHandler struct {
	Users    *repository.UserRepo
	Todos    *repository.TodoRepo
	Comments *repository.CommentRepo
}

func NewTestingHandler(users *repository.UserRepo, todos *repository.TodoRepo, comments *repository.CommentRepo) *TestingHandler {
	return &TestingHandler{Users: users, Todos: todos, Comments: comments}
}

// Reset handles POST /api/test and truncates all application tables.
func (h *TestingHandler) Reset(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Todos.DeleteAll(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset failed"})
	}
	if err := h.Comments.DeleteAll(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset failed"})
	}
	if err := h.Users.DeleteAll(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
