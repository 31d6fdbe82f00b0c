package dao

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vietanh2810/event-api/internal/db"
)

var testCategories = []string{"Meetup", "Workshop", "Concert"}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.OpenSQLite(filepath.Join(t.TempDir(), "dao.db"))
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, InitTables(gdb, testCategories))

	return gdb
}

func createUser(t *testing.T, gdb *gorm.DB, email string) User {
	t.Helper()

	users, err := NewUserDAO(gdb).InsertBatch(context.Background(), []User{{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        email,
		PasswordHash: "hash",
		Salt:         "salt",
	}})
	require.NoError(t, err)

	return users[0]
}

func newEvent(creatorID uint, name string, maxAttendees int) Event {
	start := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)

	return Event{
		Name:              name,
		Description:       fmt.Sprintf("all about %s", name),
		Location:          "Paris",
		StartDate:         start,
		CloseRegistration: start.Add(-24 * time.Hour),
		MaxAttendees:      maxAttendees,
		CreatorID:         creatorID,
	}
}

func createEvent(t *testing.T, gdb *gorm.DB, event Event) Event {
	t.Helper()

	created, err := NewEventDAO(gdb).InsertBatch(context.Background(), []Event{event})
	require.NoError(t, err)

	return created[0]
}
