package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadToken_RoundTrip(t *testing.T) {
	m := NewManager("secret", 15*time.Minute)

	token, expiresAt, err := m.GenerateUploadToken(4, "team-4-talk-1700000000000.mp3", []string{"audio/mpeg"}, 1024)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 2*time.Second)

	claims, err := m.ValidateUploadToken(token)
	require.NoError(t, err)
	assert.Equal(t, 4, claims.TeamID)
	assert.Equal(t, "team-4-talk-1700000000000.mp3", claims.Pathname)
	assert.Equal(t, []string{"audio/mpeg"}, claims.AllowedContentTypes)
	assert.Equal(t, int64(1024), claims.MaxSize)
}

func TestUploadToken_WrongSecret(t *testing.T) {
	token, _, err := NewManager("secret", time.Minute).GenerateUploadToken(1, "a.mp3", nil, 1)
	require.NoError(t, err)

	_, err = NewManager("other", time.Minute).ValidateUploadToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUploadToken_Expired(t *testing.T) {
	m := NewManager("secret", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := m.GenerateUploadToken(1, "a.mp3", nil, 1)
	require.NoError(t, err)

	_, err = NewManager("secret", time.Minute).ValidateUploadToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestUploadToken_Garbage(t *testing.T) {
	_, err := NewManager("secret", time.Minute).ValidateUploadToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
