package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/iliyamo/todo-list-api/internal/model"
)

// UserRepo encapsulates all database queries related to user accounts.
// It depends on a sql.DB connection pool which is configured at startup
// and injected here, allowing tests to substitute a mock.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,username,name,password_hash,todo_ids,comment_ids,created_at,updated_at"

// Create inserts a new account and returns its ID. The caller supplies an
// already-hashed password; raw secrets never reach this layer. Duplicate
// usernames surface as ErrUsernameExists via MySQL error 1062 — the UNIQUE
// KEY on users.username is the arbiter for concurrent registrations.
func (r *UserRepo) Create(ctx context.Context, username, name, passwordHash string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, name, password_hash, todo_ids, comment_ids) VALUES (?,?,?,'[]','[]')",
		username, name, passwordHash)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrUsernameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches a user by exact username. Usernames are
// case-sensitive, so no normalization is applied.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1", username)
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
	return scanUser(row)
}

// List returns all users ordered by id.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// AppendTodoRef appends a todo id to the owner's denormalized todo_ids
// list. This runs as a separate statement after the todo insert and is
// intentionally not part of a transaction; the canonical owner is always
// todos.user_id, so a failure between the two writes only loses the
// back-reference, never the ownership.
func (r *UserRepo) AppendTodoRef(ctx context.Context, userID, todoID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET todo_ids = JSON_ARRAY_APPEND(todo_ids, '$', CAST(? AS UNSIGNED)) WHERE id=?",
		todoID, userID)
	return err
}

// RemoveTodoRef prunes a todo id from the owner's todo_ids list after the
// todo row is deleted. Read-modify-write keeps the SQL simple; the list is
// small and the row is keyed by primary key.
func (r *UserRepo) RemoveTodoRef(ctx context.Context, userID, todoID uint64) error {
	var raw []byte
	err := r.DB.QueryRowContext(ctx,
		"SELECT todo_ids FROM users WHERE id=? LIMIT 1", userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	ids, err := decodeIDList(raw)
	if err != nil {
		return err
	}
	kept := ids[:0]
	for _, id := range ids {
		if id != todoID {
			kept = append(kept, id)
		}
	}
	enc, err := json.Marshal(kept)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, "UPDATE users SET todo_ids=? WHERE id=?", enc, userID)
	return err
}

// AppendCommentRef appends a comment id to the owner's comment_ids list.
func (r *UserRepo) AppendCommentRef(ctx context.Context, userID, commentID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET comment_ids = JSON_ARRAY_APPEND(comment_ids, '$', CAST(? AS UNSIGNED)) WHERE id=?",
		commentID, userID)
	return err
}

// DeleteAll truncates the users table. Only the test-reset endpoint uses
// this.
func (r *UserRepo) DeleteAll(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM users")
	return err
}

// scanner abstracts sql.Row and sql.Rows so scanUser can serve both the
// single-row getters and List.
type scanner interface{ Scan(dest ...any) error }

func scanUser(s scanner) (model.User, error) {
	var u model.User
	var todoRaw, commentRaw []byte
	err := s.Scan(&u.ID, &u.Username, &u.Name, &u.PasswordHash,
		&todoRaw, &commentRaw, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}
	if u.TodoIDs, err = decodeIDList(todoRaw); err != nil {
		return model.User{}, err
	}
	if u.CommentIDs, err = decodeIDList(commentRaw); err != nil {
		return model.User{}, err
	}
	return u, nil
}

func decodeIDList(raw []byte) ([]uint64, error) {
	if len(raw) == 0 {
		return []uint64{}, nil
	}
	var ids []uint64
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []uint64{}
	}
	return ids, nil
}
