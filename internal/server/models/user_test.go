package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserProfile_OmitsPassword(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	u := &User{
		ID:           "u-1",
		UserName:     "alice",
		FirstName:    "A",
		LastName:     "L",
		PasswordHash: []byte("$2a$10$secret"),
		CreatedAt:    created,
	}

	b, err := json.Marshal(u.Profile())
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))

	assert.Equal(t, "alice", got["username"])
	assert.Equal(t, "A", got["firstname"])
	assert.Equal(t, "L", got["lastname"])
	assert.NotContains(t, got, "password")
	assert.NotContains(t, got, "PasswordHash")
	assert.NotContains(t, string(b), "secret")
}
