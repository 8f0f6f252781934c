package router // package router defines how HTTP routes are registered for the API

import (
	"net/http"

	"github.com/labstack/echo/v4" // Echo web framework used for routing

	"github.com/iliyamo/todo-list-api/internal/handler" // handlers implementing the endpoints
)

// RegisterRoutes registers routes that carry no application state: the
// health check used by load balancers and the catch-all for unknown
// endpoints, which answers with the same error shape as everything else.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown endpoint"})
	})
}

// RegisterAuth registers the two credential endpoints. They are the only
// routes behind the rate limiter: everything else is either public reads
// or already requires a valid token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limit echo.MiddlewareFunc) {
	g := e.Group("/api", limit)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
}

// RegisterAPI wires the resource endpoints. Read-only listings are public
// and sit behind the response cache; every mutation requires a resolved
// identity via RequireUser. Ownership checks for todo update/delete live
// in the handlers, where the loaded resource is at hand.
func RegisterAPI(e *echo.Echo, t *handler.TodoHandler, cm *handler.CommentHandler, u *handler.UserHandler, requireUser, cache echo.MiddlewareFunc) {
	api := e.Group("/api")

	api.GET("/todos", t.List, cache)
	api.POST("/todos", t.Create, requireUser)
	api.PUT("/todos/:id", t.Update, requireUser)
	api.DELETE("/todos/:id", t.Delete, requireUser)

	api.GET("/comments", cm.List, cache)
	api.POST("/comments", cm.Create, requireUser)

	api.GET("/users", u.List, cache)
}

// RegisterTesting mounts the destructive reset endpoint. The caller is
// responsible for only invoking this in the test environment.
func RegisterTesting(e *echo.Echo, th *handler.TestingHandler) {
	e.POST("/api/test", th.Reset)
}
