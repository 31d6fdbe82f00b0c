package domain

import "time"

// ArchivedCloseRegistration is stored in close_registration to mark an event as archived.
var ArchivedCloseRegistration = time.Unix(-1, 0).UTC()

type Event struct {
	ID                uint       `json:"event_id"`
	Name              string     `json:"name"`
	Description       string     `json:"description"`
	Location          string     `json:"location"`
	StartDate         time.Time  `json:"start_date"`
	CloseRegistration time.Time  `json:"close_registration"`
	MaxAttendees      int        `json:"max_attendees"`
	CreatorID         uint       `json:"creator_id"`
	AttendeesCount    int        `json:"attendees_count"`
	Archived          bool       `json:"archived"`
	Categories        []Category `json:"categories"`
	CategoryIDs       []uint     `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (e Event) IsArchived() bool {
	return e.CloseRegistration.Equal(ArchivedCloseRegistration)
}

func (e Event) IsFull() bool {
	return e.AttendeesCount >= e.MaxAttendees
}

// EventPatch carries the fields of a partial update. Nil means "leave as is".
type EventPatch struct {
	Name              *string
	Description       *string
	Location          *string
	StartDate         *time.Time
	CloseRegistration *time.Time
	MaxAttendees      *int
}

func (p EventPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Location == nil &&
		p.StartDate == nil && p.CloseRegistration == nil && p.MaxAttendees == nil
}

// Apply returns e with every non-nil field of p copied over.
func (p EventPatch) Apply(e Event) Event {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.StartDate != nil {
		e.StartDate = *p.StartDate
	}
	if p.CloseRegistration != nil {
		e.CloseRegistration = *p.CloseRegistration
	}
	if p.MaxAttendees != nil {
		e.MaxAttendees = *p.MaxAttendees
	}

	return e
}

type EventView struct {
	Event
	Creator      UserSummary   `json:"creator"`
	Questions    []Question    `json:"questions"`
	IsRegistered bool          `json:"is_registered"`
	Attendees    []UserSummary `json:"attendees,omitempty"`
}
