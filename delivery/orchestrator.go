package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/infigaming-com/notification-service/observability/metrics"
	"github.com/infigaming-com/notification-service/registry"
	"github.com/infigaming-com/notification-service/stream"
)

// Orchestrator runs the per-connection delivery state machine: validate the
// client, register the connection, ensure the recipient's consumer group,
// replay pending entries, then stream new entries until the connection
// closes.
//
// The consumer name on the recipient's log is the recipient id itself, so
// two simultaneous connections for one recipient share one consumer slot:
// each new entry is handed to exactly one of them. Replay, by contrast,
// goes to every newly opened connection.
type Orchestrator struct {
	lg        *zap.Logger
	log       stream.Log
	registry  *registry.Registry
	validator ClientValidator
	metrics   *metrics.Metrics

	errorBackoff time.Duration
}

func NewOrchestrator(
	lg *zap.Logger,
	log stream.Log,
	reg *registry.Registry,
	validator ClientValidator,
	m *metrics.Metrics,
	errorBackoff time.Duration,
) *Orchestrator {
	return &Orchestrator{
		lg:           lg,
		log:          log,
		registry:     reg,
		validator:    validator,
		metrics:      m,
		errorBackoff: errorBackoff,
	}
}

// HandleConnection owns conn until the peer disconnects or ctx is
// cancelled. On return the connection is unregistered and its listener
// goroutine has confirmed exit; no delivery can reach conn afterwards.
func (o *Orchestrator) HandleConnection(ctx context.Context, conn Conn, clientName, recipient string) error {
	lg := o.lg.With(zap.String("client", clientName), zap.String("recipient", recipient))

	// Validating
	if err := o.validator.ValidateClient(ctx, clientName); err != nil {
		lg.Error("client validation failed", zap.Error(err))
		_ = conn.Close(ClosePolicyViolation)
		return fmt.Errorf("%w: %s", ErrValidationFailed, clientName)
	}

	// Registered
	o.registry.Connect(conn, recipient)
	o.metrics.ConnectionOpened(ctx)
	lg.Info("connection registered")

	defer func() {
		o.registry.Disconnect(conn, recipient)
		o.metrics.ConnectionClosed(context.WithoutCancel(ctx))
		lg.Info("connection unregistered")
	}()

	if err := o.log.EnsureGroup(ctx, recipient); err != nil {
		lg.Error("failed to ensure consumer group", zap.Error(err))
		_ = conn.Close(CloseInternalError)
		return fmt.Errorf("%w: %v", ErrGroupSetupFailed, err)
	}

	// Replaying: push delivered-but-unacknowledged entries first. Replay
	// never acknowledges; the client does that explicitly, by entry id.
	o.replay(ctx, conn, recipient, lg)

	// Listening
	listenCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go o.listen(listenCtx, conn, recipient, lg, done)

	// Drain inbound traffic until the peer goes away. Inbound frames are
	// echoed back through the recipient's own stream, so echo traffic takes
	// the same delivery path as real notifications.
	o.drainInbound(ctx, conn, recipient, lg)

	// Closing: stop the listener and wait for it to confirm, so no send
	// can race against the closed connection.
	cancel()
	<-done

	return nil
}

func (o *Orchestrator) replay(ctx context.Context, conn Conn, recipient string, lg *zap.Logger) {
	pending, err := o.log.ReadPending(ctx, recipient)
	if err != nil {
		// Transient store failure: the pending set is untouched and will be
		// replayed on the next reconnect.
		lg.Error("failed to read pending entries", zap.Error(err))
		return
	}
	if len(pending) == 0 {
		return
	}

	sent := int64(0)
	for _, entry := range pending {
		if entry.Message == "" {
			continue
		}
		if err := o.push(conn, entry); err != nil {
			lg.Warn("failed to replay entry", zap.String("entry_id", entry.ID), zap.Error(err))
			continue
		}
		sent++
	}
	o.metrics.NotificationsDelivered(ctx, "replay", sent)
	lg.Info("replayed pending entries", zap.Int64("count", sent))
}

// listen forwards new entries to conn until ctx is cancelled. Transient
// store failures are logged and retried after a fixed backoff; only
// cancellation stops the loop.
func (o *Orchestrator) listen(ctx context.Context, conn Conn, recipient string, lg *zap.Logger, done chan<- struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		entries, err := o.log.ReadNew(ctx, recipient)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			lg.Error("failed to read new entries", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(o.errorBackoff):
			}
			continue
		}

		sent := int64(0)
		for _, entry := range entries {
			if entry.Message == "" {
				continue
			}
			if err := o.push(conn, entry); err != nil {
				// Entry stays pending; it will be replayed on reconnect.
				lg.Warn("failed to deliver entry", zap.String("entry_id", entry.ID), zap.Error(err))
				continue
			}
			sent++
		}
		if sent > 0 {
			o.metrics.NotificationsDelivered(ctx, "live", sent)
		}
	}
}

func (o *Orchestrator) drainInbound(ctx context.Context, conn Conn, recipient string, lg *zap.Logger) {
	// Receive only returns once the peer closes; on server shutdown the
	// peer never does, so closing the connection unblocks it.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close(CloseGoingAway)
	})
	defer stop()

	for {
		data, err := conn.Receive()
		if err != nil {
			lg.Info("connection closed", zap.Error(err))
			return
		}
		if _, err := o.log.Append(ctx, recipient, "[Echo] "+data); err != nil {
			lg.Error("failed to publish echo", zap.Error(err))
		}
	}
}

func (o *Orchestrator) push(conn Conn, entry stream.Entry) error {
	payload, err := json.Marshal(Envelope{EntryID: entry.ID, Message: entry.Message})
	if err != nil {
		return err
	}
	return conn.Send(payload)
}
