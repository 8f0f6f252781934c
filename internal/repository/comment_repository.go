package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/todo-list-api/internal/model"
)

// CommentRepo encapsulates all database queries related to comments.
type CommentRepo struct{ DB *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{DB: db} }

// Create inserts a new comment and populates its ID.
func (r *CommentRepo) Create(ctx context.Context, c *model.Comment) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO comments (message, user_id, created_at) VALUES (?,?,?)",
		c.Message, c.UserID, c.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// GetByID fetches a comment by id.
func (r *CommentRepo) GetByID(ctx context.Context, id uint64) (model.Comment, error) {
	var c model.Comment
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,message,user_id,created_at FROM comments WHERE id=? LIMIT 1",
		id).Scan(&c.ID, &c.Message, &c.UserID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Comment{}, ErrCommentNotFound
		}
		return model.Comment{}, err
	}
	return c, nil
}

// List returns all comments ordered by id.
func (r *CommentRepo) List(ctx context.Context) ([]model.Comment, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,message,user_id,created_at FROM comments ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Comment
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.Message, &c.UserID, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteAll truncates the comments table for the test-reset endpoint.
func (r *CommentRepo) DeleteAll(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM comments")
	return err
}
