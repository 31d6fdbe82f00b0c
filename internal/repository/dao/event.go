package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const eventWithCountSelect = "events.*, " +
	"(SELECT COUNT(*) FROM attendees WHERE attendees.event_id = events.id) AS attendees_count"

type Event struct {
	ID uint `gorm:"primaryKey"`

	Name              string    `gorm:"not null;uniqueIndex:idx_events_creator_name,priority:2"`
	Description       string    `gorm:"not null"`
	Location          string    `gorm:"not null"`
	StartDate         time.Time `gorm:"not null"`
	CloseRegistration time.Time `gorm:"not null;index"`
	MaxAttendees      int       `gorm:"not null"`

	CreatorID  uint       `gorm:"not null;uniqueIndex:idx_events_creator_name,priority:1"`
	Creator    User       `gorm:"foreignKey:CreatorID"`
	Categories []Category `gorm:"many2many:event_categories;"`

	// Filled by eventWithCountSelect, never written.
	AttendeesCount int `gorm:"->;-:migration"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Attendee struct {
	EventID uint `gorm:"primaryKey;autoIncrement:false"`
	UserID  uint `gorm:"primaryKey;autoIncrement:false"`
	User    User `gorm:"foreignKey:UserID"`

	CreatedAt time.Time `gorm:"not null"`
}

// RegistrationGuard inspects the locked event inside the registration transaction.
// A non-nil error aborts the registration.
type RegistrationGuard func(event Event, alreadyRegistered bool) error

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

// InsertBatch creates all events in one transaction. A duplicate name for the same creator,
// including a duplicate inside the batch, rolls the whole batch back.
func (d *EventDAO) InsertBatch(ctx context.Context, events []Event) ([]Event, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range events {
			if err := checkCategoriesExist(tx, events[i].Categories); err != nil {
				return err
			}

			if err := tx.Omit("Creator", "Categories.*").Create(&events[i]).Error; err != nil {
				if isUniqueViolation(err) {
					return ErrEventNameExists
				}

				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return events, nil
}

func checkCategoriesExist(tx *gorm.DB, categories []Category) error {
	if len(categories) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(categories))
	seen := make(map[uint]struct{}, len(categories))
	for _, c := range categories {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		ids = append(ids, c.ID)
	}

	var found int64
	if err := tx.Model(&Category{}).Where("id IN ?", ids).Count(&found).Error; err != nil {
		return err
	}
	if int(found) != len(ids) {
		return ErrCategoryNotFound
	}

	return nil
}

func (d *EventDAO) FindByID(ctx context.Context, id uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).
		Select(eventWithCountSelect).
		Preload("Categories", orderCategories).
		First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

// Search matches query case-insensitively against name and description. Events whose
// close_registration equals archived are left out. Results are ordered by id.
// Both sides are folded by the database's LOWER, which on SQLite only folds ASCII letters.
func (d *EventDAO) Search(ctx context.Context, query, category string, archived time.Time) ([]Event, error) {
	events := []Event{}

	tx := d.db.WithContext(ctx).
		Model(&Event{}).
		Select(eventWithCountSelect).
		Preload("Categories", orderCategories).
		Where("events.close_registration <> ?", archived)

	if query != "" {
		pattern := "%" + escapeLike(query) + "%"
		tx = tx.Where(`(LOWER(events.name) LIKE LOWER(?) ESCAPE '\' OR LOWER(events.description) LIKE LOWER(?) ESCAPE '\')`,
			pattern, pattern)
	}

	if category != "" {
		tx = tx.
			Joins("JOIN event_categories ON event_categories.event_id = events.id").
			Joins("JOIN categories ON categories.id = event_categories.category_id").
			Where("LOWER(categories.name) = LOWER(?)", category)
	}

	if err := tx.Order("events.id").Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func orderCategories(db *gorm.DB) *gorm.DB {
	return db.Order("categories.id")
}

// UpdateGuard inspects the locked event, with its current attendee count, before an update
// is written. A non-nil error aborts the update.
type UpdateGuard func(event Event) error

// Update writes the given columns while the event row is locked, after guard (if any) accepts
// the current state. A rename that collides with another event of the same creator fails with
// ErrEventNameExists.
func (d *EventDAO) Update(ctx context.Context, id uint, fields map[string]any, guard UpdateGuard) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event, err := lockEvent(tx, id)
		if err != nil {
			return err
		}

		if guard != nil {
			if err = guard(event); err != nil {
				return err
			}
		}

		if err = tx.Model(&Event{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrEventNameExists
			}

			return err
		}

		return nil
	})
}

// lockEvent loads the event and its attendee count. On Postgres the row is held FOR UPDATE
// until tx ends; SQLite serialises writers.
func lockEvent(tx *gorm.DB, id uint) (Event, error) {
	lock := tx
	if tx.Dialector.Name() == "postgres" {
		lock = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var event Event
	if err := lock.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, err
	}

	var attendees int64
	if err := tx.Model(&Attendee{}).Where("event_id = ?", id).Count(&attendees).Error; err != nil {
		return Event{}, err
	}
	event.AttendeesCount = int(attendees)

	return event, nil
}

// InsertAttendee registers userID for eventID. The event row is locked while guard runs, so
// capacity checks made by guard hold until the insert commits. The (event_id, user_id) key
// rejects any duplicate that slips through.
func (d *EventDAO) InsertAttendee(ctx context.Context, eventID, userID uint, guard RegistrationGuard) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event, err := lockEvent(tx, eventID)
		if err != nil {
			return err
		}

		var registered int64
		err = tx.Model(&Attendee{}).
			Where("event_id = ? AND user_id = ?", eventID, userID).
			Count(&registered).Error
		if err != nil {
			return err
		}

		if err = guard(event, registered > 0); err != nil {
			return err
		}

		if err = tx.Omit("User").Create(&Attendee{EventID: eventID, UserID: userID}).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyRegistered
			}

			return err
		}

		return nil
	})
}

func (d *EventDAO) IsAttendee(ctx context.Context, eventID, userID uint) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&Attendee{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (d *EventDAO) FindAttendees(ctx context.Context, eventID uint) ([]User, error) {
	users := []User{}

	result := d.db.WithContext(ctx).
		Joins("JOIN attendees ON attendees.user_id = users.id").
		Where("attendees.event_id = ?", eventID).
		Order("users.id").
		Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}
