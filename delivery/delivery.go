package delivery

import (
	"context"
	"errors"
)

var (
	ErrValidationFailed = errors.New("client validation failed")
	ErrGroupSetupFailed = errors.New("consumer group setup failed")
)

// CloseReason tells the transport why the orchestrator is closing a
// connection, so it can map it to the right protocol-level close signal.
type CloseReason int

const (
	// ClosePolicyViolation: the connection was refused before registration
	// (unknown or inactive client).
	ClosePolicyViolation CloseReason = iota
	// CloseInternalError: consumer-group setup failed after registration.
	CloseInternalError
	// CloseGoingAway: the server is shutting down.
	CloseGoingAway
)

// Conn is one live bidirectional connection as the orchestrator sees it.
// Send and Receive must be safe to call from different goroutines (the
// listener sends while the handler goroutine receives).
type Conn interface {
	// Send pushes one outbound payload to the peer.
	Send(payload []byte) error
	// Receive blocks for the next inbound text frame. It returns an error
	// once the peer closed the connection or the transport failed.
	Receive() (string, error)
	// Close terminates the connection, signalling reason to the peer.
	Close(reason CloseReason) error
}

// ClientValidator authorizes a connection attempt before it is registered.
type ClientValidator interface {
	// ValidateClient returns an error if clientName does not identify an
	// active client.
	ValidateClient(ctx context.Context, clientName string) error
}

// Envelope is the outbound message shape, identical for replayed and live
// entries so the client can acknowledge either by entry id.
type Envelope struct {
	EntryID string `json:"entry_id"`
	Message string `json:"message"`
}
