package database

import (
	"gorm.io/gorm"

	"github.com/connectingdots/blog-backend/models"
)

type Database struct {
	blogRepo *BlogRepo
	userRepo *UserRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		blogRepo: NewBlogRepo(db),
		userRepo: NewUserRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) BlogRepo() *BlogRepo {
	return d.blogRepo
}

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

// Migrate creates/updates the schema, including the unique indexes on
// blogs.slug, users.username and users.email that arbitrate write races.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Blog{})
}
