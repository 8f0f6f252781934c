package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-list-api/internal/model"
	"github.com/iliyamo/todo-list-api/internal/queue"
	"github.com/iliyamo/todo-list-api/internal/repository"
	queue_publisher "github.com/iliyamo/todo-list-api/internal/service"
)

// TodoHandler bundles the repositories and event publisher used by the
// todo endpoints. Publish is a field rather than a direct package call
// so tests can stub out the broker.
type TodoHandler struct {
	Todos   *repository.TodoRepo
	Users   *repository.UserRepo
	Publish func(ctx context.Context, ev queue.TodoActivityEvent) error
}

func NewTodoHandler(todos *repository.TodoRepo, users *repository.UserRepo) *TodoHandler {
	if todos == nil || users == nil {
		panic("nil repository passed to NewTodoHandler")
	}
	return &TodoHandler{Todos: todos, Users: users, Publish: queue_publisher.PublishTodoActivity}
}

type createTodoReq struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"dueDate"`
	Priority    string     `json:"priority"`
	Category    string     `json:"category"`
	Tags        []string   `json:"tags"`
}

// updateTodoReq uses pointers so absent fields can be told apart from
// zero values: a PUT carries only the fields the client wants changed.
type updateTodoReq struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Completed   *bool      `json:"completed"`
	DueDate     *time.Time `json:"dueDate"`
	Priority    *string    `json:"priority"`
	Category    *string    `json:"category"`
	Tags        *[]string  `json:"tags"`
}

// List handles GET /api/todos. The listing is public: any client,
// authenticated or not, may read every todo.
func (h *TodoHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	todos, err := h.Todos.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	owners, err := h.ownersByID(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	out := make([]todoResp, 0, len(todos))
	for _, t := range todos {
		out = append(out, newTodoResp(t, owners[t.UserID]))
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /api/todos. Requires authentication; the owner is
// the authenticated account and is immutable afterwards. After the
// insert the todo id is appended to the owner's back-reference list in a
// second, non-transactional write.
func (h *TodoHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createTodoReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || strings.TrimSpace(req.Description) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and description are required"})
	}

	now := time.Now().UTC()
	todo := model.Todo{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Category:    req.Category,
		Tags:        req.Tags,
		UserID:      user.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Todos.Create(ctx, &todo); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create todo failed"})
	}
	// Back-reference append. A failure here leaves a todo without an
	// entry in the owner's list; ownership itself is unaffected because
	// todos.user_id is canonical.
	if err := h.Users.AppendTodoRef(ctx, user.ID, todo.ID); err != nil {
		c.Logger().Errorf("append todo ref failed for user=%d todo=%d: %v", user.ID, todo.ID, err)
	}

	h.publishActivity("created", todo, user.Username)

	return c.JSON(http.StatusCreated, newTodoResp(todo, ownerOf(*user)))
}

// Update handles PUT /api/todos/:id. Only the owner may update; the
// ownership check short-circuits before any write is applied.
func (h *TodoHandler) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateTodoReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	todo, err := h.Todos.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "todo not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if todo.UserID != user.ID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "unauthorized: not your todo"})
	}

	if req.Title != nil {
		todo.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		todo.Description = *req.Description
	}
	if req.Completed != nil {
		todo.Completed = *req.Completed
	}
	if req.DueDate != nil {
		todo.DueDate = req.DueDate
	}
	if req.Priority != nil {
		todo.Priority = *req.Priority
	}
	if req.Category != nil {
		todo.Category = *req.Category
	}
	if req.Tags != nil {
		todo.Tags = *req.Tags
	}
	if todo.Title == "" || todo.Description == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and description are required"})
	}
	todo.UpdatedAt = time.Now().UTC()

	if err := h.Todos.Update(ctx, &todo); err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "todo not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	h.publishActivity("updated", todo, user.Username)

	return c.JSON(http.StatusOK, newTodoResp(todo, ownerOf(*user)))
}

// Delete handles DELETE /api/todos/:id. Only the owner may delete; on
// success the id is also pruned from the owner's back-reference list.
func (h *TodoHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	todo, err := h.Todos.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "todo not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if todo.UserID != user.ID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "unauthorized: not your todo"})
	}

	if err := h.Todos.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "todo not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	if err := h.Users.RemoveTodoRef(ctx, user.ID, id); err != nil {
		c.Logger().Errorf("remove todo ref failed for user=%d todo=%d: %v", user.ID, id, err)
	}

	h.publishActivity("deleted", todo, user.Username)

	return c.NoContent(http.StatusNoContent)
}

// ownersByID loads every user once and indexes the public owner fields,
// so list responses can populate owners without a query per todo.
func (h *TodoHandler) ownersByID(ctx context.Context) (map[uint64]ownerPart, error) {
	users, err := h.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[uint64]ownerPart, len(users))
	for _, u := range users {
		out[u.ID] = ownerOf(u)
	}
	return out, nil
}

// publishActivity fires the activity event off the request path. Broker
// failures are logged by the publisher and never affect the response.
func (h *TodoHandler) publishActivity(action string, t model.Todo, username string) {
	if h.Publish == nil {
		return
	}
	ev := queue.TodoActivityEvent{
		Action:     action,
		TodoID:     t.ID,
		Title:      t.Title,
		UserID:     t.UserID,
		Username:   username,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() { _ = h.Publish(context.Background(), ev) }()
}
