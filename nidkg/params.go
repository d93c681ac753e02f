// Package nidkg implements the non-interactive DKG (§4.F): a small
// committee of dealers publishes forward-secure, chunked-ElGamal encrypted
// shares plus zero-knowledge consistency proofs; receivers derive their
// signing keys from the resulting transcript via baby-step giant-step chunk
// recovery. It is the Groth20-style counterpart to dkg's interactive
// protocol.
package nidkg

// Security parameters, fixed and identical across every peer (§4.F). These
// are literal constants, never configuration: changing them changes the
// wire format.
const (
	MessageBytes = 32    // Fr elements are 32 bytes
	ChunkBytes   = 2      // each chunk is 16 bits
	NumChunks    = MessageBytes / ChunkBytes // 16
	ChunkSize    = 1 << (8 * ChunkBytes)     // 65536

	// bsgsStep is the baby-step table size, ceil(sqrt(ChunkSize)).
	bsgsStep = 256
)
