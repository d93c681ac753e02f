package transport

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/nesteddkg/tbls/participant"
)

// Bus is an in-memory, in-process fan-out transport connecting a fixed set
// of participants, used by tests and single-process demos in place of a
// real network (§4.H's transport interface has no production implementation
// in scope here; drand's own peer client lives behind a gRPC/HTTP layer this
// module does not reproduce, see DESIGN.md).
type Bus struct {
	mu     sync.Mutex
	queues map[participant.ID]chan Message
	closed bool
}

// NewBus builds a fully-connected in-memory bus for the given participants.
func NewBus(ids []participant.ID) *Bus {
	b := &Bus{queues: make(map[participant.ID]chan Message, len(ids))}
	for _, id := range ids {
		b.queues[id] = make(chan Message, 256)
	}
	return b
}

// For returns the per-participant endpoint id can use to broadcast/receive.
func (b *Bus) For(id participant.ID) *Endpoint {
	return &Endpoint{bus: b, self: id}
}

func (b *Bus) deliver(to participant.ID, msg Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("transport: bus closed")
	}
	q, ok := b.queues[to]
	if !ok {
		return fmt.Errorf("transport: unknown recipient %s", to)
	}
	select {
	case q <- msg:
		return nil
	default:
		return fmt.Errorf("transport: recipient %s queue full", to)
	}
}

func (b *Bus) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, q := range b.queues {
		close(q)
	}
}

// Endpoint is one participant's view of a Bus, implementing Transport.
type Endpoint struct {
	bus  *Bus
	self participant.ID
}

var _ Transport = (*Endpoint)(nil)

// Broadcast delivers data to every recipient's inbox.
func (e *Endpoint) Broadcast(ctx context.Context, recipients []participant.ID, data []byte) error {
	for _, r := range recipients {
		if r.Equal(e.self) {
			continue
		}
		if err := e.bus.deliver(r, Message{From: e.self, Data: append([]byte(nil), data...)}); err != nil {
			return err
		}
	}
	return nil
}

// Recv returns the next message addressed to this endpoint.
func (e *Endpoint) Recv(ctx context.Context) (Message, error) {
	e.bus.mu.Lock()
	q := e.bus.queues[e.self]
	e.bus.mu.Unlock()

	select {
	case msg, ok := <-q:
		if !ok {
			return Message{}, io.EOF
		}
		return msg, nil
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

// Shutdown closes every participant's inbox on the shared bus.
func (e *Endpoint) Shutdown() error {
	e.bus.closeAll()
	return nil
}
