package request

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/vietanh2810/event-api/internal/domain"
)

var errEmptyUpdate = errors.New("at least one field must be provided")

type CreateEventRequest struct {
	Name              string `json:"name" example:"GopherCon"`
	Description       string `json:"description" example:"Talks and workshops"`
	Location          string `json:"location" example:"Paris"`
	StartDate         string `json:"start_date" example:"2030-06-01T09:00:00Z"`
	CloseRegistration string `json:"close_registration" example:"2030-05-25T23:59:59Z"`
	MaxAttendees      *int   `json:"max_attendees" example:"100"`
	Categories        []uint `json:"categories,omitempty"`
}

func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.By(notBlank), validation.Length(1, 200)),
		validation.Field(&req.Description, validation.Required, validation.By(notBlank)),
		validation.Field(&req.Location, validation.Required, validation.By(notBlank), validation.Length(1, 200)),
		validation.Field(&req.StartDate, validation.Required, validation.By(isTimestamp)),
		validation.Field(&req.CloseRegistration, validation.Required, validation.By(isTimestamp)),
		validation.Field(&req.MaxAttendees, validation.NotNil, validation.By(isPositive)),
	)
}

// ToDomain must only be called after Validate.
func (req *CreateEventRequest) ToDomain() (domain.Event, error) {
	start, err := ParseTimestamp(req.StartDate)
	if err != nil {
		return domain.Event{}, err
	}

	closeRegistration, err := ParseTimestamp(req.CloseRegistration)
	if err != nil {
		return domain.Event{}, err
	}

	return domain.Event{
		Name:              req.Name,
		Description:       req.Description,
		Location:          req.Location,
		StartDate:         start,
		CloseRegistration: closeRegistration,
		MaxAttendees:      *req.MaxAttendees,
		CategoryIDs:       req.Categories,
	}, nil
}

type UpdateEventRequest struct {
	Name              *string `json:"name,omitempty"`
	Description       *string `json:"description,omitempty"`
	Location          *string `json:"location,omitempty"`
	StartDate         *string `json:"start_date,omitempty"`
	CloseRegistration *string `json:"close_registration,omitempty"`
	MaxAttendees      *int    `json:"max_attendees,omitempty"`
}

func (req *UpdateEventRequest) Validate() error {
	if req.Name == nil && req.Description == nil && req.Location == nil &&
		req.StartDate == nil && req.CloseRegistration == nil && req.MaxAttendees == nil {
		return errEmptyUpdate
	}

	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.By(notBlank), validation.Length(1, 200)),
		validation.Field(&req.Description, validation.By(notBlank)),
		validation.Field(&req.Location, validation.By(notBlank), validation.Length(1, 200)),
		validation.Field(&req.StartDate, validation.By(notBlank), validation.By(isTimestamp)),
		validation.Field(&req.CloseRegistration, validation.By(notBlank), validation.By(isTimestamp)),
		validation.Field(&req.MaxAttendees, validation.By(isPositive)),
	)
}

func (req *UpdateEventRequest) ToPatch() (domain.EventPatch, error) {
	patch := domain.EventPatch{
		Name:         req.Name,
		Description:  req.Description,
		Location:     req.Location,
		MaxAttendees: req.MaxAttendees,
	}

	if req.StartDate != nil {
		start, err := ParseTimestamp(*req.StartDate)
		if err != nil {
			return domain.EventPatch{}, err
		}
		patch.StartDate = &start
	}

	if req.CloseRegistration != nil {
		closeRegistration, err := ParseTimestamp(*req.CloseRegistration)
		if err != nil {
			return domain.EventPatch{}, err
		}
		patch.CloseRegistration = &closeRegistration
	}

	return patch, nil
}
