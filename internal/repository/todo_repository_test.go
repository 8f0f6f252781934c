package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/todo-list-api/internal/model"
)

func newTodoMock(t *testing.T) (*TodoRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTodoRepo(db), mock
}

func TestTodoRepo_Create(t *testing.T) {
	r, mock := newTodoMock(t)
	now := time.Now().UTC()

	mock.ExpectExec("INSERT INTO todos").
		WithArgs("t", "d", false, nil, "high", "", []byte("[]"), uint64(1), now, now).
		WillReturnResult(sqlmock.NewResult(11, 1))

	todo := model.Todo{
		Title: "t", Description: "d", Priority: "high",
		UserID: 1, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, r.Create(context.Background(), &todo))
	assert.Equal(t, uint64(11), todo.ID)
}

func TestTodoRepo_GetByID(t *testing.T) {
	r, mock := newTodoMock(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "title", "description", "completed", "due_date", "priority",
		"category", "tags", "user_id", "created_at", "updated_at",
	}).AddRow(11, "t", "d", true, nil, "high", "", []byte(`["work"]`), 1, now, now)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT "+todoColumns+" FROM todos WHERE id=? LIMIT 1")).
		WithArgs(uint64(11)).
		WillReturnRows(rows)

	todo, err := r.GetByID(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), todo.UserID)
	assert.True(t, todo.Completed)
	assert.Nil(t, todo.DueDate)
	assert.Equal(t, []string{"work"}, todo.Tags)
}

func TestTodoRepo_GetByID_NotFound(t *testing.T) {
	r, mock := newTodoMock(t)

	mock.ExpectQuery("SELECT .+ FROM todos WHERE id=").
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := r.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrTodoNotFound)
}

func TestTodoRepo_Update_NotFound(t *testing.T) {
	r, mock := newTodoMock(t)
	now := time.Now().UTC()

	mock.ExpectExec("UPDATE todos SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	todo := model.Todo{ID: 404, Title: "t", Description: "d", UpdatedAt: now}
	assert.ErrorIs(t, r.Update(context.Background(), &todo), ErrTodoNotFound)
}

func TestTodoRepo_Delete(t *testing.T) {
	r, mock := newTodoMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM todos WHERE id=?")).
		WithArgs(uint64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, r.Delete(context.Background(), 11))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM todos WHERE id=?")).
		WithArgs(uint64(11)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, r.Delete(context.Background(), 11), ErrTodoNotFound)
}
