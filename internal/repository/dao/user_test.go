package dao

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserDAO_InsertBatch(t *testing.T) {
	gdb := newTestDB(t)
	d := NewUserDAO(gdb)
	ctx := context.Background()

	users, err := d.InsertBatch(ctx, []User{
		{FirstName: "A", LastName: "A", Email: "a@example.com", PasswordHash: "h", Salt: "s"},
		{FirstName: "B", LastName: "B", Email: "b@example.com", PasswordHash: "h", Salt: "s"},
	})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.NotZero(t, users[0].ID)
	assert.NotZero(t, users[1].ID)

	found, err := d.FindByEmail(ctx, "b@example.com")
	require.NoError(t, err)
	assert.Equal(t, users[1].ID, found.ID)
}

func TestUserDAO_InsertBatch_DuplicateRollsBack(t *testing.T) {
	gdb := newTestDB(t)
	d := NewUserDAO(gdb)
	ctx := context.Background()

	_, err := d.InsertBatch(ctx, []User{
		{FirstName: "A", LastName: "A", Email: "new@example.com", PasswordHash: "h", Salt: "s"},
		{FirstName: "B", LastName: "B", Email: "new@example.com", PasswordHash: "h", Salt: "s"},
	})
	assert.ErrorIs(t, err, ErrUserEmailExists)

	_, err = d.FindByEmail(ctx, "new@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserDAO_InsertBatch_ExistingEmail(t *testing.T) {
	gdb := newTestDB(t)
	createUser(t, gdb, "taken@example.com")

	_, err := NewUserDAO(gdb).InsertBatch(context.Background(), []User{{
		FirstName: "C", LastName: "C", Email: "taken@example.com", PasswordHash: "h", Salt: "s",
	}})
	assert.ErrorIs(t, err, ErrUserEmailExists)
}

func TestUserDAO_FindByID_NotFound(t *testing.T) {
	_, err := NewUserDAO(newTestDB(t)).FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserDAO_UpdateSessionToken(t *testing.T) {
	gdb := newTestDB(t)
	d := NewUserDAO(gdb)
	ctx := context.Background()
	user := createUser(t, gdb, "session@example.com")

	token := "token-1"
	require.NoError(t, d.UpdateSessionToken(ctx, user.ID, &token))

	found, err := d.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, found.SessionToken)
	assert.Equal(t, token, *found.SessionToken)

	require.NoError(t, d.UpdateSessionToken(ctx, user.ID, nil))

	found, err = d.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, found.SessionToken)

	assert.ErrorIs(t, d.UpdateSessionToken(ctx, 999, &token), ErrUserNotFound)
}
