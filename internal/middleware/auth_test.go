package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/todo-list-api/internal/model"
	"github.com/iliyamo/todo-list-api/internal/repository"
	"github.com/iliyamo/todo-list-api/internal/utils"
)

const testSecret = "middleware-test-secret"

func newContext(t *testing.T, authHeader string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/todos", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func okHandler(c echo.Context) error { return c.String(http.StatusOK, "reached") }

func mockUsers(t *testing.T) (*repository.UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repository.NewUserRepo(db), mock
}

func userRow(id uint64, username string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "username", "name", "password_hash", "todo_ids", "comment_ids", "created_at", "updated_at",
	}).AddRow(id, username, "jacob", "$2a$10$hash", []byte("[]"), []byte("[]"), now, now)
}

func TestTokenExtractor_BearerPresent(t *testing.T) {
	c, _ := newContext(t, "Bearer abc.def.ghi")
	require.NoError(t, TokenExtractor()(okHandler)(c))
	assert.Equal(t, "abc.def.ghi", c.Get(ContextToken))
}

func TestTokenExtractor_MissingOrMalformed(t *testing.T) {
	// No header and a non-Bearer scheme both leave the request anonymous;
	// rejection is RequireUser's job, not the extractor's.
	for _, header := range []string{"", "Basic dXNlcjpwYXNz", "bearer lowercase"} {
		c, rec := newContext(t, header)
		require.NoError(t, TokenExtractor()(okHandler)(c))
		assert.Nil(t, c.Get(ContextToken))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRequireUser_MissingToken(t *testing.T) {
	users, _ := mockUsers(t)
	c, rec := newContext(t, "")

	require.NoError(t, RequireUser(testSecret, users)(okHandler)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"token missing"}`, rec.Body.String())
}

func TestRequireUser_InvalidToken(t *testing.T) {
	users, _ := mockUsers(t)
	c, rec := newContext(t, "")
	c.Set(ContextToken, "garbage")

	require.NoError(t, RequireUser(testSecret, users)(okHandler)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"token invalid"}`, rec.Body.String())
}

func TestRequireUser_ExpiredToken(t *testing.T) {
	users, _ := mockUsers(t)
	tok, err := utils.NewToken(testSecret, 1, "loki", -time.Minute)
	require.NoError(t, err)

	c, rec := newContext(t, "")
	c.Set(ContextToken, tok.Token)

	require.NoError(t, RequireUser(testSecret, users)(okHandler)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"token invalid"}`, rec.Body.String())
}

func TestRequireUser_WrongSecret(t *testing.T) {
	users, _ := mockUsers(t)
	tok, err := utils.NewToken("attacker-secret", 1, "loki", time.Hour)
	require.NoError(t, err)

	c, rec := newContext(t, "")
	c.Set(ContextToken, tok.Token)

	require.NoError(t, RequireUser(testSecret, users)(okHandler)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireUser_StaleTokenDeletedAccount(t *testing.T) {
	users, mock := mockUsers(t)
	tok, err := utils.NewToken(testSecret, 9, "ghost", time.Hour)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT .+ FROM users WHERE id=").
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	c, rec := newContext(t, "")
	c.Set(ContextToken, tok.Token)

	require.NoError(t, RequireUser(testSecret, users)(okHandler)(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"user not found"}`, rec.Body.String())
}

func TestRequireUser_Success(t *testing.T) {
	users, mock := mockUsers(t)
	tok, err := utils.NewToken(testSecret, 1, "loki", time.Hour)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT .+ FROM users WHERE id=").
		WithArgs(uint64(1)).
		WillReturnRows(userRow(1, "loki"))

	c, rec := newContext(t, "")
	c.Set(ContextToken, tok.Token)

	require.NoError(t, RequireUser(testSecret, users)(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "reached", rec.Body.String())

	u, ok := c.Get(ContextUser).(*model.User)
	require.True(t, ok)
	assert.Equal(t, "loki", u.Username)
	assert.Equal(t, uint64(1), c.Get(ContextUserID))
}

func TestRequireUser_ExtractorChain(t *testing.T) {
	// Full chain the way the router wires it: extractor first, then the
	// resolver reading what it stored.
	users, mock := mockUsers(t)
	tok, err := utils.NewToken(testSecret, 1, "loki", time.Hour)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT .+ FROM users WHERE id=").
		WithArgs(uint64(1)).
		WillReturnRows(userRow(1, "loki"))

	c, rec := newContext(t, "Bearer "+tok.Token)
	chain := TokenExtractor()(RequireUser(testSecret, users)(okHandler))
	require.NoError(t, chain(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
