package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/vietanh2810/event-api/internal/domain"
	"github.com/vietanh2810/event-api/internal/repository/dao"
)

var (
	ErrEventNotFound     = dao.ErrEventNotFound
	ErrEventNameExists   = dao.ErrEventNameExists
	ErrCategoryNotFound  = dao.ErrCategoryNotFound
	ErrAlreadyRegistered = dao.ErrAlreadyRegistered
)

type EventDAO interface {
	InsertBatch(ctx context.Context, events []dao.Event) ([]dao.Event, error)
	FindByID(ctx context.Context, id uint) (dao.Event, error)
	Search(ctx context.Context, query, category string, archived time.Time) ([]dao.Event, error)
	Update(ctx context.Context, id uint, fields map[string]any, guard dao.UpdateGuard) error
	InsertAttendee(ctx context.Context, eventID, userID uint, guard dao.RegistrationGuard) error
	IsAttendee(ctx context.Context, eventID, userID uint) (bool, error)
	FindAttendees(ctx context.Context, eventID uint) ([]dao.User, error)
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) CreateBatch(ctx context.Context, events []domain.Event) ([]domain.Event, error) {
	rows := make([]dao.Event, 0, len(events))
	for _, e := range events {
		rows = append(rows, r.domainToDao(e))
	}

	created, err := r.dao.InsertBatch(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("r.dao.InsertBatch -> %w", err)
	}

	result := make([]domain.Event, 0, len(created))
	for _, e := range created {
		result = append(result, r.daoToDomain(e))
	}

	return result, nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

// Search never returns archived events.
func (r *EventRepository) Search(ctx context.Context, query, category string) ([]domain.Event, error) {
	found, err := r.dao.Search(ctx, query, category, domain.ArchivedCloseRegistration)
	if err != nil {
		return nil, fmt.Errorf("r.dao.Search -> %w", err)
	}

	events := make([]domain.Event, 0, len(found))
	for _, e := range found {
		events = append(events, r.daoToDomain(e))
	}

	return events, nil
}

// Update writes patch while the event row is locked. guard sees the locked event with its
// current attendee count and may veto the write.
func (r *EventRepository) Update(ctx context.Context, id uint, patch domain.EventPatch, guard func(event domain.Event) error) error {
	fields := map[string]any{}
	if patch.Name != nil {
		fields["name"] = *patch.Name
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.Location != nil {
		fields["location"] = *patch.Location
	}
	if patch.StartDate != nil {
		fields["start_date"] = patch.StartDate.UTC()
	}
	if patch.CloseRegistration != nil {
		fields["close_registration"] = patch.CloseRegistration.UTC()
	}
	if patch.MaxAttendees != nil {
		fields["max_attendees"] = *patch.MaxAttendees
	}

	var daoGuard dao.UpdateGuard
	if guard != nil {
		daoGuard = func(e dao.Event) error {
			return guard(r.daoToDomain(e))
		}
	}

	if err := r.dao.Update(ctx, id, fields, daoGuard); err != nil {
		return fmt.Errorf("r.dao.Update -> %w", err)
	}

	return nil
}

func (r *EventRepository) Archive(ctx context.Context, id uint) error {
	err := r.dao.Update(ctx, id, map[string]any{"close_registration": domain.ArchivedCloseRegistration}, nil)
	if err != nil {
		return fmt.Errorf("r.dao.Update -> %w", err)
	}

	return nil
}

// Register runs guard against the locked event and inserts the attendance when guard allows it.
func (r *EventRepository) Register(ctx context.Context, eventID, userID uint, guard func(event domain.Event, alreadyRegistered bool) error) error {
	err := r.dao.InsertAttendee(ctx, eventID, userID, func(e dao.Event, registered bool) error {
		return guard(r.daoToDomain(e), registered)
	})
	if err != nil {
		return fmt.Errorf("r.dao.InsertAttendee -> %w", err)
	}

	return nil
}

func (r *EventRepository) IsRegistered(ctx context.Context, eventID, userID uint) (bool, error) {
	ok, err := r.dao.IsAttendee(ctx, eventID, userID)
	if err != nil {
		return false, fmt.Errorf("r.dao.IsAttendee -> %w", err)
	}

	return ok, nil
}

func (r *EventRepository) FindAttendees(ctx context.Context, eventID uint) ([]domain.UserSummary, error) {
	users, err := r.dao.FindAttendees(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAttendees -> %w", err)
	}

	attendees := make([]domain.UserSummary, 0, len(users))
	for _, u := range users {
		attendees = append(attendees, domain.UserSummary{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName})
	}

	return attendees, nil
}

func (r *EventRepository) domainToDao(e domain.Event) dao.Event {
	categories := make([]dao.Category, 0, len(e.CategoryIDs))
	for _, id := range e.CategoryIDs {
		categories = append(categories, dao.Category{ID: id})
	}

	return dao.Event{
		ID:                e.ID,
		Name:              e.Name,
		Description:       e.Description,
		Location:          e.Location,
		StartDate:         e.StartDate.UTC(),
		CloseRegistration: e.CloseRegistration.UTC(),
		MaxAttendees:      e.MaxAttendees,
		CreatorID:         e.CreatorID,
		Categories:        categories,
	}
}

func (r *EventRepository) daoToDomain(e dao.Event) domain.Event {
	categories := make([]domain.Category, 0, len(e.Categories))
	ids := make([]uint, 0, len(e.Categories))
	for _, c := range e.Categories {
		categories = append(categories, domain.Category{ID: c.ID, Name: c.Name})
		ids = append(ids, c.ID)
	}

	event := domain.Event{
		ID:                e.ID,
		Name:              e.Name,
		Description:       e.Description,
		Location:          e.Location,
		StartDate:         e.StartDate.UTC(),
		CloseRegistration: e.CloseRegistration.UTC(),
		MaxAttendees:      e.MaxAttendees,
		CreatorID:         e.CreatorID,
		AttendeesCount:    e.AttendeesCount,
		Categories:        categories,
		CategoryIDs:       ids,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
	event.Archived = event.IsArchived()

	return event
}
