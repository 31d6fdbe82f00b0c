package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/event-api/internal/domain"
)

func TestEventService_Register(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()
	event := f.seed(validEvent("Show"))

	require.NoError(t, f.service.Register(ctx, f.guest.ID, event.ID))

	registered, err := f.service.IsRegistered(ctx, f.guest.ID, event.ID)
	require.NoError(t, err)
	assert.True(t, registered)

	registered, err = f.service.IsRegistered(ctx, f.creator.ID, event.ID)
	require.NoError(t, err)
	assert.False(t, registered)

	assert.Equal(t, []string{"event.registered"}, f.publisher.types())
}

func TestEventService_Register_Rules(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(f *eventFixture) (userID, eventID uint)
		wantErr error
	}{
		{
			name: "unknown event",
			setup: func(f *eventFixture) (uint, uint) {
				return f.guest.ID, 404
			},
			wantErr: ErrEventNotFound,
		},
		{
			name: "archived",
			setup: func(f *eventFixture) (uint, uint) {
				e := validEvent("Show")
				e.CloseRegistration = domain.ArchivedCloseRegistration
				return f.guest.ID, f.seed(e).ID
			},
			wantErr: ErrEventArchived,
		},
		{
			name: "deadline passed",
			setup: func(f *eventFixture) (uint, uint) {
				e := validEvent("Show")
				e.CloseRegistration = testNow.Add(-time.Minute)
				return f.guest.ID, f.seed(e).ID
			},
			wantErr: ErrRegistrationClosed,
		},
		{
			name: "deadline is now",
			setup: func(f *eventFixture) (uint, uint) {
				e := validEvent("Show")
				e.CloseRegistration = testNow
				return f.guest.ID, f.seed(e).ID
			},
			wantErr: ErrRegistrationClosed,
		},
		{
			name: "creator",
			setup: func(f *eventFixture) (uint, uint) {
				return f.creator.ID, f.seed(validEvent("Show")).ID
			},
			wantErr: ErrCreatorCannotRegister,
		},
		{
			name: "full",
			setup: func(f *eventFixture) (uint, uint) {
				e := validEvent("Show")
				e.MaxAttendees = 1
				e = f.seed(e)
				require.NoError(t, f.service.Register(context.Background(), f.guest.ID, e.ID))
				late := f.users.add("Late", "Comer", "late@example.com")
				return late.ID, e.ID
			},
			wantErr: ErrEventFull,
		},
		{
			name: "full wins over already registered",
			setup: func(f *eventFixture) (uint, uint) {
				e := validEvent("Show")
				e.MaxAttendees = 1
				e = f.seed(e)
				require.NoError(t, f.service.Register(context.Background(), f.guest.ID, e.ID))
				return f.guest.ID, e.ID
			},
			wantErr: ErrEventFull,
		},
		{
			name: "already registered",
			setup: func(f *eventFixture) (uint, uint) {
				e := f.seed(validEvent("Show"))
				require.NoError(t, f.service.Register(context.Background(), f.guest.ID, e.ID))
				return f.guest.ID, e.ID
			},
			wantErr: ErrAlreadyRegistered,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEventFixture(t)
			userID, eventID := tt.setup(f)

			err := f.service.Register(context.Background(), userID, eventID)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEventService_Register_PublishFailureIsIgnored(t *testing.T) {
	f := newEventFixture(t)
	f.publisher.err = errors.New("broker down")
	event := f.seed(validEvent("Show"))

	assert.NoError(t, f.service.Register(context.Background(), f.guest.ID, event.ID))
}

func TestRegistrationOutcome(t *testing.T) {
	assert.Equal(t, "ok", registrationOutcome(nil))
	assert.Equal(t, "full", registrationOutcome(ErrEventFull))
	assert.Equal(t, "duplicate", registrationOutcome(ErrAlreadyRegistered))
	assert.Equal(t, "closed", registrationOutcome(ErrRegistrationClosed))
	assert.Equal(t, "closed", registrationOutcome(ErrEventArchived))
	assert.Equal(t, "creator", registrationOutcome(ErrCreatorCannotRegister))
	assert.Equal(t, "not_found", registrationOutcome(ErrEventNotFound))
	assert.Equal(t, "error", registrationOutcome(errStore))
}
