package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600))

	u, err := NewUser(" acc-1 ", "Ada", "ada@example.com", "https://img/x.png", now)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", u.AccountID)
	assert.Equal(t, now.UTC(), u.JoinedAt)

	_, err = NewUser("", "Ada", "ada@example.com", "", now)
	assert.ErrorIs(t, err, ErrEmptyAccountID)

	_, err = NewUser("acc-1", "", "ada@example.com", "", now)
	assert.ErrorIs(t, err, ErrEmptyUserName)

	_, err = NewUser("acc-1", "Ada", "not-an-email", "", now)
	assert.ErrorIs(t, err, ErrInvalidEmail)
}
