package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires the public blog reader surface, the auth endpoints
// and the token-gated admin panel surface.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/api/ping", handlers.healthHandler.ping())
		r.Get("/api/blogs/ping", handlers.healthHandler.blogsPing())

		r.Post("/api/auth/register", handlers.authHandler.register())
		r.Post("/api/auth/login", handlers.authHandler.login())

		r.Get("/api/blogs", handlers.blogHandler.listBlogs())
		r.Get("/api/blogs/slug/{slug}", handlers.blogHandler.getBlogBySlug())
		r.Get("/api/blogs/{blogID}", handlers.blogHandler.getBlog())
	})

	// Authenticated routes (any role)
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(authMiddleware.authenticate)

		r.Get("/api/auth/validate-token", handlers.authHandler.validateToken())
		r.Post("/api/auth/logout", handlers.authHandler.logout())
		r.Get("/api/auth/profile", handlers.authHandler.getProfile())
		r.Put("/api/auth/profile", handlers.authHandler.updateProfile())

		// User management endpoints; role checks live in the handler's
		// authorization gate, which needs the target record.
		r.Get("/api/auth/users", handlers.userHandler.listUsers())
		r.Get("/api/auth/users/{userID}", handlers.userHandler.getUser())
		r.Put("/api/auth/users/{userID}", handlers.userHandler.updateUser())
		r.Delete("/api/auth/users/{userID}", handlers.userHandler.deleteUser())

		r.Get("/api/blogs/my-posts", handlers.blogHandler.myPosts())
		r.Post("/api/blogs", handlers.blogHandler.createBlog())
		r.Put("/api/blogs/{blogID}", handlers.blogHandler.updateBlog())
		r.Delete("/api/blogs/{blogID}", handlers.blogHandler.deleteBlog())
	})
}
