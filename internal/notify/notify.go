// Package notify publishes domain events (registrations, questions, archives) to
// downstream consumers such as a mailer.
package notify

import (
	"context"
	"time"
)

const (
	TypeUserRegistered = "event.registered"
	TypeEventArchived  = "event.archived"
	TypeQuestionAsked  = "question.asked"
)

type Message struct {
	Type       string    `json:"type"`
	EventID    uint      `json:"event_id"`
	UserID     uint      `json:"user_id"`
	QuestionID uint      `json:"question_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Nop drops every message. Used when notifications are disabled.
type Nop struct{}

func (Nop) Publish(context.Context, Message) error { return nil }

func (Nop) Close() error { return nil }
