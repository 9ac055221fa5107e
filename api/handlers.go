package api

import (
	"time"

	"github.com/connectingdots/blog-backend/auth"
	"github.com/connectingdots/blog-backend/database"
	"github.com/connectingdots/blog-backend/media"
	"github.com/connectingdots/blog-backend/slug"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, tokens *auth.TokenService, passwords *auth.PasswordService, mediaStore media.Store, isProduction bool, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		healthHandler: newHealthHandler(startupTime, isProduction),
		authHandler:   newAuthHandler(db.UserRepo(), tokens, passwords, isProduction),
		userHandler:   newUserHandler(db.UserRepo(), isProduction),
		blogHandler:   newBlogHandler(db.BlogRepo(), slug.NewAllocator(db.BlogRepo()), mediaStore, isProduction),
	}
}
