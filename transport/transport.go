// Package transport defines the minimal peer-to-peer messaging interface the
// DKG, NI-DKG and signing engines run on top of (§4.H), plus an in-memory
// implementation used by tests and single-process demos.
package transport

import (
	"context"

	"github.com/nesteddkg/tbls/participant"
)

// Message is one opaque blob received from a peer.
type Message struct {
	From participant.ID
	Data []byte
}

// Transport is the network abstraction every protocol driver depends on. A
// real deployment backs it with TCP/TLS connections addressed via the
// addresses store (§4.H); tests back it with the in-memory Bus below.
type Transport interface {
	// Broadcast queues data for delivery to every recipient, at most once
	// each. It returns once the send has been queued, not once delivered.
	Broadcast(ctx context.Context, recipients []participant.ID, data []byte) error

	// Recv blocks until a message arrives from any peer, or ctx is done.
	// Messages from the same sender arrive in send order; there is no
	// ordering guarantee across senders.
	Recv(ctx context.Context) (Message, error)

	// Shutdown flushes and closes all peer connections. Subsequent Recv
	// calls return io.EOF.
	Shutdown() error
}
