package stream

import (
	"context"
	"errors"
)

var (
	ErrEmptyRecipient = errors.New("empty recipient")
)

// Entry is one immutable record in a recipient's log. ID is assigned by the
// log store at append time and is strictly increasing within one recipient's
// log, so ids double as delivery ordering and acknowledgment handles.
type Entry struct {
	ID        string
	Message   string
	Timestamp string
}

// Log is the durable per-recipient append-only log the delivery pipeline
// runs on. Implementations provide consumer-group semantics: entries handed
// out by ReadNew stay pending until explicitly acknowledged, surviving
// process restarts and connection churn.
type Log interface {
	// Append writes one entry to the recipient's log and returns its id.
	// The log may be trimmed to an approximate maximum length; very old
	// entries can be discarded on overflow.
	Append(ctx context.Context, recipient, message string) (string, error)

	// EnsureGroup idempotently creates the consumer group for the
	// recipient's log, positioned at the start. Calling it for an existing
	// group is a no-op.
	EnsureGroup(ctx context.Context, recipient string) error

	// ReadPending returns every entry previously delivered to the
	// recipient's group but not yet acknowledged, oldest first. It never
	// blocks and returns an empty slice when nothing is pending.
	ReadPending(ctx context.Context, recipient string) ([]Entry, error)

	// ReadNew blocks up to the configured read-block timeout waiting for
	// entries past the group's tail cursor and returns at most the
	// configured batch size. Returned entries become pending as a side
	// effect. A timeout is not an error; it yields an empty slice.
	ReadNew(ctx context.Context, recipient string) ([]Entry, error)

	// Ack removes the given entry ids from the recipient's pending set.
	// Acknowledging an id that is not pending is a safe no-op.
	Ack(ctx context.Context, recipient string, ids ...string) error
}
