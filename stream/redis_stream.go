package stream

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	fieldMessage   = "message"
	fieldTimestamp = "timestamp"

	// pendingReadCount bounds a single pending fetch; pending sets larger
	// than this are drained across reconnects.
	pendingReadCount = 100
)

type RedisLogConfig struct {
	// Environment and AppName namespace stream keys and the group name so
	// deployments sharing one Redis instance stay isolated.
	Environment  string
	AppName      string
	StreamPrefix string
	GroupPrefix  string

	MaxStreamLength int64
	ReadBlock       time.Duration
	ReadCount       int64
}

type redisLog struct {
	lg     *zap.Logger
	client *redis.Client
	cfg    RedisLogConfig
	group  string
}

func NewRedisLog(lg *zap.Logger, client *redis.Client, cfg RedisLogConfig) Log {
	return &redisLog{
		lg:     lg,
		client: client,
		cfg:    cfg,
		group:  fmt.Sprintf("%s:%s:%s", cfg.Environment, strings.ToLower(cfg.AppName), cfg.GroupPrefix),
	}
}

func (l *redisLog) streamKey(recipient string) string {
	return fmt.Sprintf("%s:%s:%s:%s", l.cfg.Environment, strings.ToLower(l.cfg.AppName), l.cfg.StreamPrefix, recipient)
}

func (l *redisLog) Append(ctx context.Context, recipient, message string) (string, error) {
	if recipient == "" {
		return "", ErrEmptyRecipient
	}

	key := l.streamKey(recipient)
	id, err := l.client.XAdd(ctx, &redis.XAddArgs{
		Stream: key,
		MaxLen: l.cfg.MaxStreamLength,
		Approx: true,
		Values: map[string]any{
			fieldMessage:   message,
			fieldTimestamp: strconv.FormatInt(time.Now().UnixMilli(), 10),
		},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("failed to append to stream %s: %w", key, err)
	}

	l.lg.Debug("appended entry to stream",
		zap.String("stream", key),
		zap.String("entry_id", id))
	return id, nil
}

func (l *redisLog) EnsureGroup(ctx context.Context, recipient string) error {
	if recipient == "" {
		return ErrEmptyRecipient
	}

	key := l.streamKey(recipient)
	err := l.client.XGroupCreateMkStream(ctx, key, l.group, "0-0").Err()
	if err != nil {
		// BUSYGROUP means the group already exists; creation is idempotent.
		if strings.Contains(err.Error(), "BUSYGROUP") {
			return nil
		}
		return fmt.Errorf("failed to create consumer group on stream %s: %w", key, err)
	}

	l.lg.Info("created consumer group on stream", zap.String("stream", key))
	return nil
}

func (l *redisLog) ReadPending(ctx context.Context, recipient string) ([]Entry, error) {
	if recipient == "" {
		return nil, ErrEmptyRecipient
	}

	// Reading from "0" returns this consumer's pending entries without
	// blocking. The consumer name is the recipient id, so this is the
	// recipient's full pending set.
	return l.readGroup(ctx, recipient, "0", pendingReadCount, -1)
}

func (l *redisLog) ReadNew(ctx context.Context, recipient string) ([]Entry, error) {
	if recipient == "" {
		return nil, ErrEmptyRecipient
	}

	return l.readGroup(ctx, recipient, ">", l.cfg.ReadCount, l.cfg.ReadBlock)
}

func (l *redisLog) readGroup(ctx context.Context, recipient, cursor string, count int64, block time.Duration) ([]Entry, error) {
	key := l.streamKey(recipient)
	resp, err := l.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    l.group,
		Consumer: recipient,
		Streams:  []string{key, cursor},
		Count:    count,
		Block:    block,
	}).Result()
	if err != nil {
		if err == redis.Nil {
			// No entries within the block timeout.
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("failed to read stream %s: %w", key, err)
	}

	entries := make([]Entry, 0, count)
	for _, s := range resp {
		for _, msg := range s.Messages {
			entries = append(entries, entryFromMessage(msg))
		}
	}
	return entries, nil
}

func (l *redisLog) Ack(ctx context.Context, recipient string, ids ...string) error {
	if recipient == "" {
		return ErrEmptyRecipient
	}
	if len(ids) == 0 {
		return nil
	}

	key := l.streamKey(recipient)
	if err := l.client.XAck(ctx, key, l.group, ids...).Err(); err != nil {
		return fmt.Errorf("failed to acknowledge entries on stream %s: %w", key, err)
	}

	l.lg.Debug("acknowledged entries",
		zap.String("stream", key),
		zap.Strings("entry_ids", ids))
	return nil
}

func entryFromMessage(msg redis.XMessage) Entry {
	entry := Entry{ID: msg.ID}
	if v, ok := msg.Values[fieldMessage].(string); ok {
		entry.Message = v
	}
	if v, ok := msg.Values[fieldTimestamp].(string); ok {
		entry.Timestamp = v
	}
	return entry
}
