// Package models contains data structures for the application's domain models.
package models

import "time"

// NotificationType classifies what a notification is about.
type NotificationType string

const (
	// NotificationTypeLike is emitted when someone likes a user's post.
	NotificationTypeLike NotificationType = "like"
	// NotificationTypeComment is emitted when someone comments on a user's post.
	NotificationTypeComment NotificationType = "comment"
	// NotificationTypeFollow is emitted when someone follows a user.
	NotificationTypeFollow NotificationType = "follow"
	// NotificationTypePostApproved is emitted when an admin approves a post.
	NotificationTypePostApproved NotificationType = "post_approved"
	// NotificationTypePostRejected is emitted when an admin rejects a post.
	NotificationTypePostRejected NotificationType = "post_rejected"
)

// Notification is a persistent message addressed to a single recipient.
// The only mutation after creation is IsRead flipping from false to true;
// recipients may delete their own notifications.
type Notification struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    uint             `gorm:"not null;index" json:"user_id"`
	Type      NotificationType `gorm:"type:varchar(30);not null" json:"type"`
	Message   string           `gorm:"not null" json:"message"`
	IsRead    bool             `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
