package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	EventSource  = "questionnaire-service"
	EventVersion = "1.0"
)

// Event types published by the service.
const (
	EventInvitationCreated      = "invitation.created"
	EventInvitationRedeemed     = "invitation.redeemed"
	EventInvitationRevoked      = "invitation.revoked"
	EventQuestionnaireCompleted = "questionnaire.completed"
)

// Event is the envelope for all published domain events.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent builds an event envelope with identity and timing filled in.
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event *Event) error
	Close() error
}

// MockEventPublisher records events in memory for tests.
type MockEventPublisher struct {
	mu     sync.Mutex
	events []*Event
	logger *slog.Logger
}

func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{logger: logger}
}

func (m *MockEventPublisher) Publish(ctx context.Context, topic string, event *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, event)
	if m.logger != nil {
		m.logger.Debug("mock event published", "topic", topic, "type", event.Type)
	}
	return nil
}

func (m *MockEventPublisher) Close() error {
	return nil
}

// GetPublishedEvents returns a copy of everything published so far.
func (m *MockEventPublisher) GetPublishedEvents() []*Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*Event, len(m.events))
	copy(out, m.events)
	return out
}

// ClearEvents resets the recorded events.
func (m *MockEventPublisher) ClearEvents() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = nil
}

// LoggingEventPublisher writes events to the log only. Used when no broker
// is configured so event emission stays observable in development.
type LoggingEventPublisher struct {
	logger *slog.Logger
}

func NewLoggingEventPublisher(logger *slog.Logger) *LoggingEventPublisher {
	return &LoggingEventPublisher{logger: logger}
}

func (p *LoggingEventPublisher) Publish(ctx context.Context, topic string, event *Event) error {
	p.logger.InfoContext(ctx, "event published",
		"topic", topic,
		"event_id", event.ID,
		"event_type", event.Type)
	return nil
}

func (p *LoggingEventPublisher) Close() error {
	return nil
}
