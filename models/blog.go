package models

import (
	"time"

	"github.com/google/uuid"
)

// Subcategory is the closed set of post types the admin panel offers.
type Subcategory string

const (
	SubcategoryArticle            Subcategory = "Article"
	SubcategoryTutorial           Subcategory = "Tutorial"
	SubcategoryInterviewQuestions Subcategory = "Interview Questions"
)

// ValidSubcategory reports whether s is one of the allowed subcategories.
func ValidSubcategory(s string) bool {
	switch Subcategory(s) {
	case SubcategoryArticle, SubcategoryTutorial, SubcategoryInterviewQuestions:
		return true
	}
	return false
}

// Status is a display/promotion flag, unrelated to publication state.
type Status string

const (
	StatusNone        Status = "None"
	StatusTrending    Status = "Trending"
	StatusFeatured    Status = "Featured"
	StatusEditorsPick Status = "Editor's Pick"
	StatusRecommended Status = "Recommended"
)

// ValidStatus reports whether s is one of the allowed status flags.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusNone, StatusTrending, StatusFeatured, StatusEditorsPick, StatusRecommended:
		return true
	}
	return false
}

// Blog represents a published or draft blog post. The slug is globally
// unique; the database index is the final arbiter under concurrent writes.
type Blog struct {
	ID            uuid.UUID   `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Title         string      `json:"title" db:"title" gorm:"type:text;not null"`
	Slug          string      `json:"slug" db:"slug" gorm:"type:text;not null;uniqueIndex"`
	Content       string      `json:"content" db:"content" gorm:"type:text;not null"`
	Category      string      `json:"category" db:"category" gorm:"type:text;not null"`
	Subcategory   Subcategory `json:"subcategory" db:"subcategory" gorm:"type:text;not null"`
	Author        string      `json:"author" db:"author" gorm:"type:text;not null"`
	Status        Status      `json:"status" db:"status" gorm:"type:text;not null;default:'None'"`
	Image         *string     `json:"image,omitempty" db:"image" gorm:"type:text"`
	ImagePublicID *string     `json:"imagePublicId,omitempty" db:"image_public_id" gorm:"type:text"`
	CreatedAt     time.Time   `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time   `json:"updatedAt" db:"updated_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
}
