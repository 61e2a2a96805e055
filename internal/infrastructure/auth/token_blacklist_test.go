package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuedesk/backend/internal/infrastructure/auth"
)

func TestInMemoryTokenBlacklist_Revoke(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	err := blacklist.Revoke(ctx, "test-jti-1", 1*time.Hour)
	require.NoError(t, err)

	revoked, err := blacklist.IsRevoked(ctx, "test-jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = blacklist.IsRevoked(ctx, "test-jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_Expiry(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	err := blacklist.Revoke(ctx, "short-lived", 10*time.Millisecond)
	require.NoError(t, err)

	revoked, err := blacklist.IsRevoked(ctx, "short-lived")
	require.NoError(t, err)
	assert.True(t, revoked)

	time.Sleep(20 * time.Millisecond)

	// Once the token itself would have expired, the entry lapses
	revoked, err = blacklist.IsRevoked(ctx, "short-lived")
	require.NoError(t, err)
	assert.False(t, revoked)
}
