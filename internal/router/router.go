package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/notekeep/notekeep-server/internal/handler"
	"github.com/notekeep/notekeep-server/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication routes. Register and login
// live under /v1/auth and carry the rate limiter: they are the two
// endpoints where an attacker can grind at credentials. The protected
// profile endpoint lives under /v1 behind the JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", limiter)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterNotes registers the owner-scoped note CRUD endpoints. All of
// them require a valid session token; the resolved identity is
// threaded into every store call, so a handler can only ever touch the
// caller's own notes.
func RegisterNotes(e *echo.Echo, n *handler.NoteHandler, jwtSecret string) {
	g := e.Group("/v1/notes")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.GET("", n.List)
	g.POST("", n.Create)
	g.GET("/:id", n.Get)
	g.PUT("/:id", n.Update)
	g.DELETE("/:id", n.Delete)
}

// RegisterShare registers the sharing endpoints. Share and unshare are
// owner operations behind the JWT middleware. The public routes are
// reachable by anyone holding a share link; they get the rate limiter
// instead, which makes brute-forcing the 128-bit token space even less
// practical.
func RegisterShare(e *echo.Echo, s *handler.ShareHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	owner := e.Group("/v1/notes", middleware.JWTAuth(jwtSecret))
	owner.POST("/:id/share", s.Share)
	owner.DELETE("/:id/share", s.Unshare)

	public := e.Group("/v1/shared", limiter)
	public.GET("/:shareId", s.GetShared)
	public.POST("/:shareId/request-access", s.RequestAccess)
}
