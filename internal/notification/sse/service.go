// Package sse provides Server-Sent Events support for real-time
// notifications.
package sse

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EventType represents different types of SSE events
type EventType string

const (
	EventInAppNotification EventType = "in_app_notification"

	// Admin dashboard events
	EventStudentAttendance EventType = "student_attendance"
	EventLecturerCheckIn   EventType = "lecturer_checkin"
)

// Broadcast channels. Per-user delivery uses "user.{id}"; the admin
// dashboard listens on the two attendance channels.
const (
	ChannelStudentAttendance = "admin.student-attendance"
	ChannelLecturerCheckIn   = "admin.lecturer-checkin"
)

// Event represents an SSE event payload
type Event struct {
	Type      EventType   `json:"type"`
	SeminarID uuid.UUID   `json:"seminarId,omitempty"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// client represents a connected SSE client
type client struct {
	userID   uuid.UUID
	channels map[string]bool
	events   chan Event
}

// Service manages SSE connections and event broadcasting
type Service struct {
	mu      sync.RWMutex
	clients map[uuid.UUID][]*client
}

// New creates a new SSE service
func New() *Service {
	return &Service{
		clients: make(map[uuid.UUID][]*client),
	}
}

func (s *Service) addClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clients[c.userID] = append(s.clients[c.userID], c)
}

func (s *Service) removeClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clients := s.clients[c.userID]
	for i, cl := range clients {
		if cl == c {
			s.clients[c.userID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
	if len(s.clients[c.userID]) == 0 {
		delete(s.clients, c.userID)
	}

	close(c.events)
}

// Publish sends an event to a specific user
func (s *Service) Publish(userID uuid.UUID, event Event) {
	s.mu.RLock()
	clients := s.clients[userID]
	s.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.events <- event:
		default:
			log.Printf("SSE: Event buffer full for user %s", userID)
		}
	}
}

// Broadcast sends an event to every client subscribed to a channel
func (s *Service) Broadcast(channel string, event Event) {
	s.mu.RLock()
	var targets []*client
	for _, clients := range s.clients {
		for _, c := range clients {
			if c.channels[channel] {
				targets = append(targets, c)
			}
		}
	}
	s.mu.RUnlock()

	for _, c := range targets {
		select {
		case c.events <- event:
		default:
			log.Printf("SSE: Event buffer full for user %s", c.userID)
		}
	}
}

// Handler returns a Gin handler for SSE connections. Admin clients are
// subscribed to the dashboard broadcast channels.
func (s *Service) Handler(getUserID func(*gin.Context) (uuid.UUID, bool), isAdmin func(*gin.Context) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("X-Accel-Buffering", "no")

		channels := make(map[string]bool)
		if isAdmin != nil && isAdmin(c) {
			channels[ChannelStudentAttendance] = true
			channels[ChannelLecturerCheckIn] = true
		}

		cl := &client{
			userID:   userID,
			channels: channels,
			events:   make(chan Event, 32),
		}
		s.addClient(cl)
		defer s.removeClient(cl)

		c.SSEvent("connected", gin.H{"userId": userID})
		c.Writer.Flush()

		clientGone := c.Request.Context().Done()
		for {
			select {
			case <-clientGone:
				return
			case event, ok := <-cl.events:
				if !ok {
					return
				}
				data, _ := json.Marshal(event)
				c.SSEvent(string(event.Type), string(data))
				c.Writer.Flush()
			}
		}
	}
}

// Close shuts down the SSE service
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, clients := range s.clients {
		for _, c := range clients {
			close(c.events)
		}
	}
	s.clients = make(map[uuid.UUID][]*client)
}
