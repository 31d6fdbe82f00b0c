package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vietanh2810/event-api/internal/domain"
	"github.com/vietanh2810/event-api/internal/metrics"
	"github.com/vietanh2810/event-api/internal/notify"
	"github.com/vietanh2810/event-api/internal/repository"
)

var (
	ErrEventNotFound    = repository.ErrEventNotFound
	ErrEventNameExists  = repository.ErrEventNameExists
	ErrCategoryNotFound = repository.ErrCategoryNotFound
	ErrInvalidEvent     = errors.New("invalid event")
	ErrNotEventCreator  = errors.New("only the event creator can do this")
	ErrEventArchived    = errors.New("event is archived")
)

type EventRepository interface {
	CreateBatch(ctx context.Context, events []domain.Event) ([]domain.Event, error)
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	Search(ctx context.Context, query, category string) ([]domain.Event, error)
	Update(ctx context.Context, id uint, patch domain.EventPatch, guard func(event domain.Event) error) error
	Archive(ctx context.Context, id uint) error
	Register(ctx context.Context, eventID, userID uint, guard func(event domain.Event, alreadyRegistered bool) error) error
	IsRegistered(ctx context.Context, eventID, userID uint) (bool, error)
	FindAttendees(ctx context.Context, eventID uint) ([]domain.UserSummary, error)
}

type EventQuestionRepository interface {
	FindByEventID(ctx context.Context, eventID uint) ([]domain.Question, error)
}

type CategoryRepository interface {
	FindAll(ctx context.Context) ([]domain.Category, error)
}

type ContentFilter interface {
	Clean(s string) string
}

type EventService struct {
	repo         EventRepository
	userRepo     UserRepository
	questionRepo EventQuestionRepository
	categoryRepo CategoryRepository
	filter       ContentFilter
	publisher    notify.Publisher
	now          func() time.Time
}

func NewEventService(
	repo EventRepository,
	userRepo UserRepository,
	questionRepo EventQuestionRepository,
	categoryRepo CategoryRepository,
	filter ContentFilter,
	publisher notify.Publisher,
) *EventService {
	return &EventService{
		repo:         repo,
		userRepo:     userRepo,
		questionRepo: questionRepo,
		categoryRepo: categoryRepo,
		filter:       filter,
		publisher:    publisher,
		now:          time.Now,
	}
}

// CreateEvents validates every event before storing any of them. The batch is then
// written in a single transaction.
func (s *EventService) CreateEvents(ctx context.Context, creatorID uint, events []domain.Event) ([]domain.Event, error) {
	now := s.now()

	toCreate := make([]domain.Event, 0, len(events))
	for i, e := range events {
		e.Name = s.filter.Clean(e.Name)
		e.Description = s.filter.Clean(e.Description)
		e.CreatorID = creatorID

		if err := validateNewEvent(e, now); err != nil {
			if len(events) > 1 {
				return nil, fmt.Errorf("events[%d]: %w", i, err)
			}

			return nil, err
		}

		toCreate = append(toCreate, e)
	}

	created, err := s.repo.CreateBatch(ctx, toCreate)
	if err != nil {
		return nil, fmt.Errorf("s.repo.CreateBatch -> %w", err)
	}

	metrics.EventsCreated.Add(float64(len(created)))

	return created, nil
}

func validateNewEvent(e domain.Event, now time.Time) error {
	if e.Name == "" {
		return invalidEvent("name must not be empty")
	}
	if e.MaxAttendees <= 0 {
		return invalidEvent("max_attendees must be greater than 0")
	}
	if !e.StartDate.After(now) {
		return invalidEvent("start_date must be in the future")
	}
	if err := validateCloseRegistration(e); err != nil {
		return err
	}

	return nil
}

// validateCloseRegistration keeps close_registration after the Unix epoch, so only ArchiveEvent
// can set the archive marker.
func validateCloseRegistration(e domain.Event) error {
	if !e.CloseRegistration.After(time.Unix(0, 0)) {
		return invalidEvent("close_registration must be after 1970-01-01T00:00:00Z")
	}
	if !e.CloseRegistration.Before(e.StartDate) {
		return invalidEvent("close_registration must be before start_date")
	}

	return nil
}

func invalidEvent(reason string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidEvent, fmt.Sprintf(reason, args...))
}

// GetEvent assembles the public view of an event. viewerID is 0 for anonymous callers;
// only the creator gets the attendee list.
func (s *EventService) GetEvent(ctx context.Context, eventID, viewerID uint) (domain.EventView, error) {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return domain.EventView{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	creator, err := s.userRepo.FindByID(ctx, event.CreatorID)
	if err != nil {
		return domain.EventView{}, fmt.Errorf("s.userRepo.FindByID -> %w", err)
	}

	questions, err := s.questionRepo.FindByEventID(ctx, eventID)
	if err != nil {
		return domain.EventView{}, fmt.Errorf("s.questionRepo.FindByEventID -> %w", err)
	}

	view := domain.EventView{
		Event:     event,
		Creator:   creator.Summary(),
		Questions: questions,
	}

	if viewerID == 0 {
		return view, nil
	}

	view.IsRegistered, err = s.repo.IsRegistered(ctx, eventID, viewerID)
	if err != nil {
		return domain.EventView{}, fmt.Errorf("s.repo.IsRegistered -> %w", err)
	}

	if viewerID == event.CreatorID {
		view.Attendees, err = s.repo.FindAttendees(ctx, eventID)
		if err != nil {
			return domain.EventView{}, fmt.Errorf("s.repo.FindAttendees -> %w", err)
		}
	}

	return view, nil
}

// UpdateEvent applies patch after re-running the creation rules on the merged event.
// start_date is only checked against the clock when the patch moves it.
func (s *EventService) UpdateEvent(ctx context.Context, eventID, callerID uint, patch domain.EventPatch) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if event.CreatorID != callerID {
		return domain.Event{}, ErrNotEventCreator
	}
	if event.IsArchived() {
		return domain.Event{}, ErrEventArchived
	}
	if patch.IsEmpty() {
		return domain.Event{}, invalidEvent("at least one field must be provided")
	}

	if patch.Name != nil {
		name := s.filter.Clean(*patch.Name)
		if name == "" {
			return domain.Event{}, invalidEvent("name must not be empty")
		}
		patch.Name = &name
	}
	if patch.Description != nil {
		description := s.filter.Clean(*patch.Description)
		patch.Description = &description
	}

	merged := patch.Apply(event)

	if patch.StartDate != nil && !merged.StartDate.After(s.now()) {
		return domain.Event{}, invalidEvent("start_date must be in the future")
	}
	if err = validateCloseRegistration(merged); err != nil {
		return domain.Event{}, err
	}
	if patch.MaxAttendees != nil && merged.MaxAttendees <= 0 {
		return domain.Event{}, invalidEvent("max_attendees must be greater than 0")
	}

	// Capacity is checked against the locked row so a registration landing in between is counted.
	guard := func(locked domain.Event) error {
		if locked.IsArchived() {
			return ErrEventArchived
		}
		if patch.MaxAttendees != nil && *patch.MaxAttendees < locked.AttendeesCount {
			return invalidEvent("max_attendees cannot be lower than the %d registered attendees",
				locked.AttendeesCount)
		}

		return nil
	}

	if err = s.repo.Update(ctx, eventID, patch, guard); err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	updated, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return updated, nil
}

// ArchiveEvent hides the event from search and closes registration. Archiving twice is a no-op.
func (s *EventService) ArchiveEvent(ctx context.Context, eventID, callerID uint) error {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if event.CreatorID != callerID {
		return ErrNotEventCreator
	}
	if event.IsArchived() {
		return nil
	}

	if err = s.repo.Archive(ctx, eventID); err != nil {
		return fmt.Errorf("s.repo.Archive -> %w", err)
	}

	metrics.EventsArchived.Inc()
	publish(ctx, s.publisher, notify.Message{
		Type:    notify.TypeEventArchived,
		EventID: eventID,
		UserID:  callerID,
	})

	return nil
}

func (s *EventService) SearchEvents(ctx context.Context, query, category string) ([]domain.Event, error) {
	events, err := s.repo.Search(ctx, strings.TrimSpace(query), strings.TrimSpace(category))
	if err != nil {
		return nil, fmt.Errorf("s.repo.Search -> %w", err)
	}

	return events, nil
}

func (s *EventService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.categoryRepo.FindAll -> %w", err)
	}

	return categories, nil
}
