// This file defines the repository methods for todos. A todo belongs to
// exactly one user; the user_id column is the canonical owner reference
// and is set once at insert time. Ownership checks happen in the handler
// layer by comparing this column against the authenticated user's id.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/iliyamo/todo-list-api/internal/model"
)

// TodoRepo encapsulates all database queries related to todos.
type TodoRepo struct{ DB *sql.DB }

func NewTodoRepo(db *sql.DB) *TodoRepo { return &TodoRepo{DB: db} }

const todoColumns = "id,title,description,completed,due_date,priority,category,tags,user_id,created_at,updated_at"

// Create inserts a new todo. On success the ID field is populated with
// the auto-generated value. Timestamps are supplied by the caller so
// that created_at and updated_at line up exactly with the response body.
func (r *TodoRepo) Create(ctx context.Context, t *model.Todo) error {
	tags, err := encodeTags(t.Tags)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO todos (title, description, completed, due_date, priority, category, tags, user_id, created_at, updated_at) VALUES (?,?,?,?,?,?,?,?,?,?)",
		t.Title, t.Description, t.Completed, t.DueDate, t.Priority, t.Category, tags, t.UserID, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// GetByID fetches a todo by id regardless of owner. It returns
// ErrTodoNotFound when no row exists; callers decide between 404 and 403
// based on the UserID field.
func (r *TodoRepo) GetByID(ctx context.Context, id uint64) (model.Todo, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+todoColumns+" FROM todos WHERE id=? LIMIT 1", id)
	return scanTodo(row)
}

// List returns all todos ordered by id. The listing is public, so no
// owner filter is applied.
func (r *TodoRepo) List(ctx context.Context) ([]model.Todo, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+todoColumns+" FROM todos ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update rewrites every mutable column of a todo. The owner reference is
// deliberately absent from the SET list: ownership is immutable.
func (r *TodoRepo) Update(ctx context.Context, t *model.Todo) error {
	tags, err := encodeTags(t.Tags)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE todos SET title=?, description=?, completed=?, due_date=?, priority=?, category=?, tags=?, updated_at=? WHERE id=?",
		t.Title, t.Description, t.Completed, t.DueDate, t.Priority, t.Category, tags, t.UpdatedAt, t.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTodoNotFound
	}
	return nil
}

// Delete removes a todo by id.
func (r *TodoRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM todos WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTodoNotFound
	}
	return nil
}

// DeleteAll truncates the todos table for the test-reset endpoint.
func (r *TodoRepo) DeleteAll(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM todos")
	return err
}

func scanTodo(s scanner) (model.Todo, error) {
	var t model.Todo
	var due sql.NullTime
	var tagsRaw []byte
	err := s.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &due,
		&t.Priority, &t.Category, &tagsRaw, &t.UserID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Todo{}, ErrTodoNotFound
		}
		return model.Todo{}, err
	}
	if due.Valid {
		d := due.Time
		t.DueDate = &d
	}
	t.Tags = []string{}
	if len(tagsRaw) > 0 {
		if err := json.Unmarshal(tagsRaw, &t.Tags); err != nil {
			return model.Todo{}, err
		}
		if t.Tags == nil {
			t.Tags = []string{}
		}
	}
	return t, nil
}

func encodeTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(tags)
}
