// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Role values assignable to a user account.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a user account in the DevConnect application.
type User struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"not null" json:"name"`
	Email      string         `gorm:"unique;not null" json:"email"`
	Password   string         `gorm:"not null" json:"-"`
	Bio        string         `json:"bio"`
	Avatar     string         `json:"avatar"`
	Role       string         `gorm:"type:varchar(20);default:'user';index" json:"role"`
	IsVerified bool           `gorm:"default:false" json:"is_verified"`
	// GoogleID links an account created via Google sign-in; empty for
	// password accounts.
	GoogleID  string         `gorm:"index" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Posts     []Post         `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PublicProfile is the subset of user fields safe to return to other users.
type PublicProfile struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Bio    string `json:"bio,omitempty"`
}

// Public returns the user's public profile view.
func (u *User) Public() PublicProfile {
	return PublicProfile{ID: u.ID, Name: u.Name, Avatar: u.Avatar, Bio: u.Bio}
}

// UserSearchResult is the directory-search view of a user. Unlike
// PublicProfile it carries the email, because the email itself is searchable.
type UserSearchResult struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}
