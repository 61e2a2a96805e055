package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return zap.New(core), logs
}

func TestWithContext_RoundTrip(t *testing.T) {
	log, _ := observed()
	ctx := WithContext(context.Background(), log)

	assert.Same(t, log, FromContext(ctx))
}

func TestFromContext_Missing(t *testing.T) {
	log := FromContext(context.Background())

	require.NotNil(t, log)
	// no-op logger must not panic
	log.Info("orphan entry")
}

func TestWithRequestID(t *testing.T) {
	log, logs := observed()

	ctx, enriched := WithRequestID(context.Background(), log, "req-7")
	enriched.Info("slot reserved")

	assert.Equal(t, "req-7", GetRequestID(ctx))
	assert.Same(t, enriched, FromContext(ctx))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-7", entries[0].ContextMap()["request_id"])
}

func TestWithOwnerID(t *testing.T) {
	log, logs := observed()

	_, enriched := WithOwnerID(context.Background(), log, "owner-123")
	enriched.Info("quotation sent")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "owner-123", entries[0].ContextMap()["owner_id"])
}

func TestWithUserID(t *testing.T) {
	log, logs := observed()

	_, enriched := WithUserID(context.Background(), log, "user-9")
	enriched.Info("invoice voided")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "user-9", entries[0].ContextMap()["user_id"])
}

func TestGetRequestID_Missing(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestEnrichmentStacks(t *testing.T) {
	log, logs := observed()

	ctx, enriched := WithRequestID(context.Background(), log, "req-1")
	ctx, enriched = WithOwnerID(ctx, enriched, "owner-1")
	_, enriched = WithUserID(ctx, enriched, "user-1")

	enriched.Info("booking cancelled")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "owner-1", fields["owner_id"])
	assert.Equal(t, "user-1", fields["user_id"])
}
