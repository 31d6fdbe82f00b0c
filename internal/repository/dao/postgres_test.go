package dao

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vietanh2810/event-api/internal/db"
)

// newPostgresDB starts a throwaway Postgres container. Tests using it are skipped with
// -short or when no docker daemon is reachable.
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	if err = pool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=events",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=events",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })
	_ = resource.Expire(180)

	dsn := fmt.Sprintf("postgres://events:secret@%s/events?sslmode=disable", resource.GetHostPort("5432/tcp"))

	var gdb *gorm.DB
	pool.MaxWait = 90 * time.Second
	err = pool.Retry(func() error {
		var err error
		gdb, err = db.OpenPostgresWithURL(dsn)
		if err != nil {
			return err
		}

		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}

		return sqlDB.Ping()
	})
	require.NoError(t, err)

	require.NoError(t, InitTables(gdb, testCategories))

	return gdb
}

func TestPostgres_UserEmailUnique(t *testing.T) {
	gdb := newPostgresDB(t)
	createUser(t, gdb, "dup@example.com")

	_, err := NewUserDAO(gdb).InsertBatch(context.Background(), []User{{
		FirstName: "D", LastName: "D", Email: "dup@example.com", PasswordHash: "h", Salt: "s",
	}})
	assert.ErrorIs(t, err, ErrUserEmailExists)
}

func TestPostgres_LastSeatAndDuplicateRace(t *testing.T) {
	gdb := newPostgresDB(t)
	d := NewEventDAO(gdb)
	ctx := context.Background()
	creator := createUser(t, gdb, "creator@example.com")
	event := createEvent(t, gdb, newEvent(creator.ID, "Race", 1))

	errFull := errors.New("event full")
	errRegistered := errors.New("already registered")
	guard := func(e Event, registered bool) error {
		if e.AttendeesCount >= e.MaxAttendees {
			return errFull
		}
		if registered {
			return errRegistered
		}
		return nil
	}

	const contenders = 30
	userIDs := make([]uint, contenders)
	for i := range userIDs {
		userIDs[i] = createUser(t, gdb, fmt.Sprintf("pg%d@example.com", i)).ID
	}

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
	)
	for _, id := range userIDs {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()

			err := d.InsertAttendee(ctx, event.ID, userID, guard)
			if err == nil {
				succeeded.Add(1)
				return
			}
			if !errors.Is(err, errFull) {
				t.Errorf("unexpected error: %v", err)
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())

	found, err := d.FindByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, found.AttendeesCount)

	// The same user hammering a roomy event gets in exactly once.
	roomy := createEvent(t, gdb, newEvent(creator.ID, "Roomy", 100))
	guest := userIDs[0]
	succeeded.Store(0)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := d.InsertAttendee(ctx, roomy.ID, guest, guard)
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, errRegistered), errors.Is(err, ErrAlreadyRegistered):
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
}

func TestPostgres_SearchFoldsUnicode(t *testing.T) {
	gdb := newPostgresDB(t)
	d := NewEventDAO(gdb)
	creator := createUser(t, gdb, "creator@example.com")
	cafe := createEvent(t, gdb, newEvent(creator.ID, "Café Élysée", 10))

	events, err := d.Search(context.Background(), "élysée", "", time.Unix(-1, 0).UTC())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, cafe.ID, events[0].ID)
}
