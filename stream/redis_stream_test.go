package stream

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupLog(t *testing.T) (*miniredis.Miniredis, Log) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := NewRedisLog(zap.NewNop(), client, RedisLogConfig{
		Environment:     "test",
		AppName:         "notification-service",
		StreamPrefix:    "notifications",
		GroupPrefix:     "notification_group",
		MaxStreamLength: 1000,
		ReadBlock:       50 * time.Millisecond,
		ReadCount:       10,
	})
	return mr, log
}

func TestAppendReturnsIncreasingIDs(t *testing.T) {
	_, log := setupLog(t)
	ctx := context.Background()

	var prev string
	for i := 0; i < 5; i++ {
		id, err := log.Append(ctx, "u1", "hello")
		require.NoError(t, err)
		require.NotEmpty(t, id)
		if prev != "" {
			assert.Greater(t, id, prev)
		}
		prev = id
	}
}

func TestAppendEmptyRecipient(t *testing.T) {
	_, log := setupLog(t)

	_, err := log.Append(context.Background(), "", "hello")
	assert.ErrorIs(t, err, ErrEmptyRecipient)
}

func TestEnsureGroupIdempotent(t *testing.T) {
	_, log := setupLog(t)
	ctx := context.Background()

	require.NoError(t, log.EnsureGroup(ctx, "u1"))
	require.NoError(t, log.EnsureGroup(ctx, "u1"))
}

func TestReadNewDeliversAppendedEntries(t *testing.T) {
	_, log := setupLog(t)
	ctx := context.Background()

	// Entries appended before the group exists are still past the group's
	// start cursor and must be delivered.
	id1, err := log.Append(ctx, "u1", "first")
	require.NoError(t, err)

	require.NoError(t, log.EnsureGroup(ctx, "u1"))

	id2, err := log.Append(ctx, "u1", "second")
	require.NoError(t, err)

	entries, err := log.ReadNew(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, id1, entries[0].ID)
	assert.Equal(t, "first", entries[0].Message)
	assert.Equal(t, id2, entries[1].ID)
	assert.Equal(t, "second", entries[1].Message)
	assert.NotEmpty(t, entries[0].Timestamp)
}

func TestReadNewEmptyOnTimeout(t *testing.T) {
	_, log := setupLog(t)
	ctx := context.Background()

	require.NoError(t, log.EnsureGroup(ctx, "u1"))

	entries, err := log.ReadNew(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReadPendingAfterDelivery(t *testing.T) {
	_, log := setupLog(t)
	ctx := context.Background()

	require.NoError(t, log.EnsureGroup(ctx, "u1"))

	id1, err := log.Append(ctx, "u1", "one")
	require.NoError(t, err)
	id2, err := log.Append(ctx, "u1", "two")
	require.NoError(t, err)

	// Nothing delivered yet, so nothing is pending.
	pending, err := log.ReadPending(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, pending)

	// Deliver both, acknowledge neither; a reconnect replays both in order.
	delivered, err := log.ReadNew(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, delivered, 2)

	pending, err = log.ReadPending(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, id1, pending[0].ID)
	assert.Equal(t, id2, pending[1].ID)
}

func TestAckRemovesFromPending(t *testing.T) {
	_, log := setupLog(t)
	ctx := context.Background()

	require.NoError(t, log.EnsureGroup(ctx, "u1"))

	id1, err := log.Append(ctx, "u1", "one")
	require.NoError(t, err)
	id2, err := log.Append(ctx, "u1", "two")
	require.NoError(t, err)

	_, err = log.ReadNew(ctx, "u1")
	require.NoError(t, err)

	require.NoError(t, log.Ack(ctx, "u1", id1))

	pending, err := log.ReadPending(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, id2, pending[0].ID)

	// Acknowledging twice is a no-op both times.
	require.NoError(t, log.Ack(ctx, "u1", id1))
	require.NoError(t, log.Ack(ctx, "u1", id2))

	pending, err = log.ReadPending(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestAckUnknownIDIsNoop(t *testing.T) {
	_, log := setupLog(t)
	ctx := context.Background()

	require.NoError(t, log.EnsureGroup(ctx, "u1"))
	assert.NoError(t, log.Ack(ctx, "u1", "1-1"))
	assert.NoError(t, log.Ack(ctx, "u1"))
}

func TestRecipientsAreIsolated(t *testing.T) {
	_, log := setupLog(t)
	ctx := context.Background()

	require.NoError(t, log.EnsureGroup(ctx, "u1"))
	require.NoError(t, log.EnsureGroup(ctx, "u2"))

	_, err := log.Append(ctx, "u1", "for u1")
	require.NoError(t, err)

	entries, err := log.ReadNew(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = log.ReadNew(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "for u1", entries[0].Message)
}
