package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_GetUser(t *testing.T) {
	repo := newFakeUserRepo()
	ada := repo.add("Ada", "Lovelace", "ada@example.com")
	s := NewUserService(repo)

	user, err := s.GetUser(context.Background(), ada.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.FirstName)

	_, err = s.GetUser(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
