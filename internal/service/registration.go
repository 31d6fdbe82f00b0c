package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vietanh2810/event-api/internal/domain"
	"github.com/vietanh2810/event-api/internal/metrics"
	"github.com/vietanh2810/event-api/internal/notify"
	"github.com/vietanh2810/event-api/internal/repository"
)

var (
	ErrRegistrationClosed    = errors.New("registration is closed")
	ErrCreatorCannotRegister = errors.New("the event creator cannot register")
	ErrEventFull             = errors.New("event is full")
	ErrAlreadyRegistered     = repository.ErrAlreadyRegistered
)

// Register adds userID to the attendees of eventID. The checks run against the event row
// locked by the repository, in this order: archived, deadline passed, caller is the creator,
// no seat left, already registered.
func (s *EventService) Register(ctx context.Context, userID, eventID uint) error {
	now := s.now()

	err := s.repo.Register(ctx, eventID, userID, func(event domain.Event, alreadyRegistered bool) error {
		switch {
		case event.IsArchived():
			return ErrEventArchived
		case !now.Before(event.CloseRegistration):
			return ErrRegistrationClosed
		case event.CreatorID == userID:
			return ErrCreatorCannotRegister
		case event.IsFull():
			return ErrEventFull
		case alreadyRegistered:
			return ErrAlreadyRegistered
		}

		return nil
	})
	metrics.Registrations.WithLabelValues(registrationOutcome(err)).Inc()
	if err != nil {
		return fmt.Errorf("s.repo.Register -> %w", err)
	}

	publish(ctx, s.publisher, notify.Message{
		Type:    notify.TypeUserRegistered,
		EventID: eventID,
		UserID:  userID,
	})

	return nil
}

func registrationOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrEventFull):
		return "full"
	case errors.Is(err, ErrAlreadyRegistered):
		return "duplicate"
	case errors.Is(err, ErrEventArchived), errors.Is(err, ErrRegistrationClosed):
		return "closed"
	case errors.Is(err, ErrEventNotFound):
		return "not_found"
	case errors.Is(err, ErrCreatorCannotRegister):
		return "creator"
	default:
		return "error"
	}
}

func (s *EventService) IsRegistered(ctx context.Context, userID, eventID uint) (bool, error) {
	registered, err := s.repo.IsRegistered(ctx, eventID, userID)
	if err != nil {
		return false, fmt.Errorf("s.repo.IsRegistered -> %w", err)
	}

	return registered, nil
}
