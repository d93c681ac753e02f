package nidkg

import (
	"encoding/binary"

	"github.com/drand/kyber"
	"golang.org/x/crypto/blake2b"
)

// challenge derives a Fiat-Shamir challenge scalar from domain and the
// canonical encoding of every transcript element in elems, by rejection
// sampling: hash, try to decode as a scalar (which itself rejects
// out-of-range values), and re-hash with an incrementing counter on
// failure. This is the "challenges read as Fr by rejection sampling" rule
// required by §4.F's NIZK parameters; the hash itself is blake2b-256.
func challenge(g kyber.Group, domain string, elems ...[]byte) kyber.Scalar {
	size := g.Scalar().MarshalSize()
	for counter := uint32(0); ; counter++ {
		h, _ := blake2b.New256(nil)
		h.Write([]byte(domain))
		var ctr [4]byte
		binary.BigEndian.PutUint32(ctr[:], counter)
		h.Write(ctr[:])
		for _, e := range elems {
			h.Write(e)
		}
		digest := h.Sum(nil)
		buf := make([]byte, size)
		copy(buf, digest)

		s := g.Scalar()
		if err := s.UnmarshalBinary(buf); err == nil {
			return s
		}
	}
}
