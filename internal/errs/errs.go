// Package errs holds the sentinel error kinds shared by every component of
// the engine. Call sites wrap these with identifying context
// (fmt.Errorf("...: %w", errs.ErrInvalidDealing)) so callers can still match
// on the kind with errors.Is.
package errs

import "errors"

var (
	// ErrInsufficientShares is returned when fewer than the threshold number
	// of distinct shares/signatures were supplied to an interpolation.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrDuplicateIndex is returned when two samples passed to an
	// interpolation share the same evaluation point.
	ErrDuplicateIndex = errors.New("duplicate index")

	// ErrMalformedDealing is returned when a serialized dealing's byte
	// length or implied matrix shape does not match what was expected.
	ErrMalformedDealing = errors.New("malformed dealing")

	// ErrInvalidDealing is returned when a dealing fails a zero-knowledge
	// proof or sharing-consistency check.
	ErrInvalidDealing = errors.New("invalid dealing")

	// ErrDecryptionRangeExceeded is returned when baby-step/giant-step could
	// not find a matching discrete log within the expected chunk range.
	ErrDecryptionRangeExceeded = errors.New("decryption range exceeded")

	// ErrSizeMismatch is returned by polynomial or matrix operations whose
	// operands have incompatible shapes.
	ErrSizeMismatch = errors.New("size mismatch")

	// ErrInvalidSignature is returned when a combined or recovered
	// signature fails verification against its expected public key.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrPeerDisconnect is returned when a transport's receive stream ends
	// before the protocol reached quorum.
	ErrPeerDisconnect = errors.New("peer disconnected before quorum")

	// ErrNotImplemented marks an API surface that exists for shape parity
	// with the forward-secure design but is out of scope for this epoch
	// model (see SPEC_FULL.md Non-goals).
	ErrNotImplemented = errors.New("not implemented")

	// ErrEmptyAddressList is returned when an addresses file parses
	// successfully but names no peers.
	ErrEmptyAddressList = errors.New("address list is empty")
)
