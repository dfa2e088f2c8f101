package router

import (
	"bytes"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/gotodos/backend/api/handler"
	"github.com/gotodos/backend/internal/middleware"
)

type Handlers struct {
	Auth   *apiHandler.AuthHandler
	Todo   *apiHandler.TodoHandler
	Health *apiHandler.HealthHandler
}

// Middleware chains applied per route group.
type Middleware struct {
	Auth      func(fasthttp.RequestHandler) fasthttp.RequestHandler
	RateLimit func(fasthttp.RequestHandler) fasthttp.RequestHandler
}

var todoPrefix = []byte("/api/todos")

func New(handlers Handlers, mw Middleware) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/auth/register", handlers.Auth.Register)
	r.POST("/api/auth/login", handlers.Auth.Login)
	r.POST("/api/auth/logout", mw.Auth(handlers.Auth.Logout))
	r.POST("/api/auth/refresh", mw.Auth(handlers.Auth.Refresh))
	r.POST("/api/auth/profile", mw.Auth(handlers.Auth.Profile))

	// Todo routes: the whole prefix is throttled, listing is public.
	r.GET("/api/todos", mw.RateLimit(handlers.Todo.List))
	r.POST("/api/todos", mw.RateLimit(mw.Auth(handlers.Todo.Create)))
	r.PATCH("/api/todos/{id}", mw.RateLimit(mw.Auth(handlers.Todo.Update)))
	r.DELETE("/api/todos/{id}", mw.RateLimit(mw.Auth(handlers.Todo.Delete)))

	// Anything else under the todo prefix answers 429, mirroring the
	// throttled fallback route of the original API.
	r.NotFound = todoFallback(nil)
	r.MethodNotAllowed = todoFallback(func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
	})

	return r
}

func todoFallback(otherwise fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if bytes.HasPrefix(ctx.Path(), todoPrefix) {
			middleware.TooManyRequests(ctx)
			return
		}
		if otherwise != nil {
			otherwise(ctx)
			return
		}
		ctx.SetStatusCode(fasthttp.StatusNotFound)
	}
}
