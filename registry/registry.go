package registry

import (
	"sync"

	"go.uber.org/zap"
)

// Conn is one live client connection. Send pushes an outbound payload and
// reports failure without affecting other connections.
type Conn interface {
	Send(payload []byte) error
}

// Registry tracks which live connections belong to which recipient. It is
// an owned, injected object; all map mutations happen under one mutex and
// never across a blocking call.
type Registry struct {
	lg *zap.Logger

	mu          sync.Mutex
	connections map[string][]Conn
}

func New(lg *zap.Logger) *Registry {
	return &Registry{
		lg:          lg,
		connections: make(map[string][]Conn),
	}
}

// Connect records conn under the recipient's active set.
func (r *Registry) Connect(conn Conn, recipient string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.connections[recipient] = append(r.connections[recipient], conn)
	r.lg.Debug("connection registered",
		zap.String("recipient", recipient),
		zap.Int("active", len(r.connections[recipient])))
}

// Disconnect removes conn from the recipient's set and prunes the recipient
// entry once its last connection is gone, so churn never grows the map.
func (r *Registry) Disconnect(conn Conn, recipient string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns := r.connections[recipient]
	for i, c := range conns {
		if c == conn {
			r.connections[recipient] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(r.connections[recipient]) == 0 {
		delete(r.connections, recipient)
	}
}

// Send fans payload out to every connection registered for the recipient.
// A connection that fails to accept the payload is skipped; the others
// still receive it.
func (r *Registry) Send(recipient string, payload []byte) {
	r.mu.Lock()
	conns := make([]Conn, len(r.connections[recipient]))
	copy(conns, r.connections[recipient])
	r.mu.Unlock()

	for _, conn := range conns {
		if err := conn.Send(payload); err != nil {
			r.lg.Warn("failed to send to connection",
				zap.String("recipient", recipient),
				zap.Error(err))
		}
	}
}

// Count returns the number of live connections for the recipient.
func (r *Registry) Count(recipient string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.connections[recipient])
}
