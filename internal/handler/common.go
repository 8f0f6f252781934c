package handler // handler defines http handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-list-api/internal/middleware"
	"github.com/iliyamo/todo-list-api/internal/model"
)

// currentUser pulls the account resolved by the auth middleware out of
// the echo context. Handlers behind RequireUser can assume it is set; a
// missing value means the route was wired without the middleware and is
// treated as unauthorized rather than panicking.
func currentUser(c echo.Context) (*model.User, error) {
	u, ok := c.Get(middleware.ContextUser).(*model.User)
	if !ok || u == nil {
		return nil, errors.New("no authenticated user in context")
	}
	return u, nil
}

// parseID parses a numeric path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// ----- response DTOs -----
//
// Model structs stay internal; these types define the exact JSON shape
// returned to clients. The password hash has no field here, so it can
// never be serialized by accident. Field names are camelCase to match
// the front end.

// ownerPart is the populated owner reference embedded in todo and
// comment responses.
type ownerPart struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type todoResp struct {
	ID          uint64     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"dueDate"`
	Priority    string     `json:"priority"`
	Category    string     `json:"category"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	User        ownerPart  `json:"user"`
}

type commentResp struct {
	ID      uint64    `json:"id"`
	Message string    `json:"message"`
	User    ownerPart `json:"user"`
}

func newTodoResp(t model.Todo, owner ownerPart) todoResp {
	return todoResp{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		Category:    t.Category,
		Tags:        t.Tags,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		User:        owner,
	}
}

func ownerOf(u model.User) ownerPart {
	return ownerPart{ID: u.ID, Username: u.Username, Name: u.Name}
}
