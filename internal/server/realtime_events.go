package server

import (
	"context"
	"encoding/json"
	"log"

	"devconnect/internal/models"
)

// Event type constants prevent typos in event names.
const (
	EventJoinAcknowledged = "joinAcknowledged"
	EventNotification     = "notification"
	EventNewNotification  = "newNotification"
	EventFollowUpdate     = "followUpdate"
)

// publishUserEvent delivers an event to every connection in one user's room,
// locally through the registry and across instances through Redis pub/sub.
func (s *Server) publishUserEvent(userID uint, eventType string, payload map[string]interface{}) {
	event := map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	}
	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return
	}
	message := string(eventJSON)
	if s.registry != nil {
		s.registry.Broadcast(userID, message)
	}
	if s.notifier != nil {
		if err := s.notifier.PublishUser(context.Background(), userID, message); err != nil {
			log.Printf("failed to publish %s event to user %d: %v", eventType, userID, err)
		}
	}
}

func (s *Server) publishBroadcastEvent(eventType string, payload map[string]interface{}) {
	event := map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	}
	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return
	}
	message := string(eventJSON)
	if s.registry != nil {
		s.registry.BroadcastAll(message)
	}
	if s.notifier != nil {
		if err := s.notifier.PublishBroadcast(context.Background(), message); err != nil {
			log.Printf("failed to publish %s broadcast event: %v", eventType, err)
		}
	}
}

// publishNotification pushes a refresh hint to the recipient's room after the
// row is already committed. The payload mirrors the stored notification so
// clients can render it immediately, but the database row stays the source of
// truth on the next fetch.
func (s *Server) publishNotification(n *models.Notification) {
	if n == nil {
		return
	}
	s.publishUserEvent(n.UserID, EventNotification, map[string]interface{}{
		"user_id": n.UserID,
		"type":    n.Type,
		"message": n.Message,
	})
}

// publishModerationOutcome tells the post author their submission was decided.
// Moderation outcomes additionally emit a lightweight newNotification hint,
// which clients treat as "re-fetch your notification list".
func (s *Server) publishModerationOutcome(n *models.Notification) {
	if n == nil {
		return
	}
	s.publishNotification(n)
	s.publishUserEvent(n.UserID, EventNewNotification, map[string]interface{}{
		"message": n.Message,
	})
}

// publishFollowUpdate announces a follow edge change to everyone connected so
// open profile pages can refresh follower counts.
func (s *Server) publishFollowUpdate(followerID, targetUserID uint, isFollowing bool) {
	s.publishBroadcastEvent(EventFollowUpdate, map[string]interface{}{
		"follower_id":    followerID,
		"target_user_id": targetUserID,
		"is_following":   isFollowing,
	})
}
