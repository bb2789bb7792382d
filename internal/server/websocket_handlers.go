// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"devconnect/internal/middleware"
	"devconnect/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// wsTicketTTL bounds how long an issued ticket can sit unused.
const wsTicketTTL = 30 * time.Second

// IssueWSTicket handles POST /api/ws/ticket. It stores a single-use ticket
// in Redis so browser clients can open the WebSocket without putting the
// JWT in a query string. The room the connection joins is derived from the
// user id the ticket resolves to, never from anything the client sends.
func (s *Server) IssueWSTicket(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if s.redis == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewInternalError(fmt.Errorf("realtime tickets unavailable without redis")))
	}

	ticket := uuid.New().String()
	key := fmt.Sprintf("ws_ticket:%s", ticket)
	if err := s.redis.SetEx(c.Context(), key,
		strconv.FormatUint(uint64(userID), 10), wsTicketTTL).Err(); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"ticket":     ticket,
		"expires_in": int(wsTicketTTL.Seconds()),
	})
}

// WebsocketHandler returns the notifications WebSocket handler. The route
// middleware has already authenticated the connection; the user id is read
// from connection locals, and that id alone decides which room the client
// joins.
func (s *Server) WebsocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		middleware.ActiveWebSockets.Inc()
		defer middleware.ActiveWebSockets.Dec()

		userIDVal := conn.Locals("userID")
		if userIDVal == nil {
			if cerr := conn.Close(); cerr != nil {
				log.Printf("websocket close error: %v", cerr)
			}
			return
		}
		uid, ok := userIDVal.(uint)
		if !ok {
			if cerr := conn.Close(); cerr != nil {
				log.Printf("websocket close error: %v", cerr)
			}
			return
		}

		if s.registry == nil {
			_ = conn.Close()
			return
		}

		// Register connection with scaling guardrails
		client, err := s.registry.Register(uid, conn)
		if err != nil {
			log.Printf("WebSocket Notification: Failed to register user %d: %v", uid, err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		defer s.registry.UnregisterClient(client)

		s.sendJoinAck(conn, uid)

		// Start pumps
		go client.WritePump()
		client.ReadPump()
	})
}

// sendJoinAck confirms room membership right after registration, before the
// write pump takes over the connection.
func (s *Server) sendJoinAck(conn *websocket.Conn, userID uint) {
	msg, err := json.Marshal(map[string]interface{}{
		"type": EventJoinAcknowledged,
		"payload": map[string]interface{}{
			"user_id": userID,
			"success": true,
			"message": "Joined notification room",
		},
	})
	if err != nil {
		log.Printf("failed to marshal join ack: %v", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		log.Printf("failed to write join ack: %v", err)
	}
}
