// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// PostStatus represents the moderation state of a post.
type PostStatus string

const (
	// PostStatusPending indicates a post awaiting admin review.
	PostStatusPending PostStatus = "pending"
	// PostStatusApproved indicates a post visible in feeds.
	PostStatusApproved PostStatus = "approved"
	// PostStatusRejected indicates a post an admin turned down.
	PostStatusRejected PostStatus = "rejected"
)

// Post represents a post in the DevConnect application. Posts enter the
// system as pending and only appear in feeds once approved.
type Post struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Description string `gorm:"type:text;not null" json:"description"`
	// Images holds a JSON-encoded array of image URLs.
	Images   string     `gorm:"type:text" json:"images"`
	VideoURL string     `json:"video_url,omitempty"`
	Status   PostStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	UserID   uint       `gorm:"not null;index" json:"user_id"`
	User     User       `gorm:"foreignKey:UserID" json:"user"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked     bool           `gorm:"->" json:"liked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
