// Package dealing implements the bit-exact wire codec for dealings (§4.D):
// concatenations of canonically-encoded G2 commitments followed by
// canonically-encoded Fr shares, in ascending recipient order.
//
// Byte widths are not hardcoded to BLS12-381's nominal 192/96/32-byte sizes;
// they are read from the pairing suite via Point.MarshalSize()/
// Scalar.MarshalSize() and then enforced uniformly, so the codec stays
// correct if the underlying kyber-bls12381 build's canonical encoding ever
// changes width (see DESIGN.md).
package dealing

import (
	"fmt"

	"github.com/drand/kyber"

	"github.com/nesteddkg/tbls/internal/errs"
)

// SerializePoints concatenates the canonical encoding of every point, in
// slice order.
func SerializePoints(pts []kyber.Point) ([]byte, error) {
	out := make([]byte, 0)
	for i, p := range pts {
		b, err := p.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("dealing: marshal point %d: %w", i, err)
		}
		out = append(out, b...)
	}
	return out, nil
}

// DeserializePoints splits data into `count` fixed-width points of group g,
// failing with ErrMalformedDealing if the length does not divide evenly or
// does not match count.
//
// Points are parsed with the library's standard UnmarshalBinary path, which
// performs kyber-bls12381's ordinary validation. The "uncompressed unchecked"
// fast path spec.md §4.D describes as a permissible optimization for
// NI-DKG-verified dealings is not exposed by kyber's Point interface, so
// this module always pays the (small, one-time) validation cost instead;
// interactive DKG's own per-recipient consistency check (§4.E) runs on top
// unless the driver's SkipVerification is set.
func DeserializePoints(g kyber.Group, data []byte, count int) ([]kyber.Point, error) {
	if count == 0 {
		if len(data) != 0 {
			return nil, fmt.Errorf("dealing: %w: expected 0 points, got %d bytes", errs.ErrMalformedDealing, len(data))
		}
		return nil, nil
	}
	width := g.Point().MarshalSize()
	if len(data) != width*count {
		return nil, fmt.Errorf("dealing: %w: expected %d points of %d bytes (%d total), got %d bytes",
			errs.ErrMalformedDealing, count, width, width*count, len(data))
	}
	pts := make([]kyber.Point, count)
	for i := 0; i < count; i++ {
		p := g.Point()
		if err := p.UnmarshalBinary(data[i*width : (i+1)*width]); err != nil {
			return nil, fmt.Errorf("dealing: %w: point %d: %v", errs.ErrMalformedDealing, i, err)
		}
		pts[i] = p
	}
	return pts, nil
}

// SerializeScalars concatenates the canonical encoding of every scalar.
func SerializeScalars(ss []kyber.Scalar) ([]byte, error) {
	out := make([]byte, 0)
	for i, s := range ss {
		b, err := s.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("dealing: marshal scalar %d: %w", i, err)
		}
		out = append(out, b...)
	}
	return out, nil
}

// DeserializeScalars splits data into `count` fixed-width scalars of group g.
func DeserializeScalars(g kyber.Group, data []byte, count int) ([]kyber.Scalar, error) {
	if count == 0 {
		if len(data) != 0 {
			return nil, fmt.Errorf("dealing: %w: expected 0 scalars, got %d bytes", errs.ErrMalformedDealing, len(data))
		}
		return nil, nil
	}
	width := g.Scalar().MarshalSize()
	if len(data) != width*count {
		return nil, fmt.Errorf("dealing: %w: expected %d scalars of %d bytes (%d total), got %d bytes",
			errs.ErrMalformedDealing, count, width, width*count, len(data))
	}
	ss := make([]kyber.Scalar, count)
	for i := 0; i < count; i++ {
		s := g.Scalar()
		if err := s.UnmarshalBinary(data[i*width : (i+1)*width]); err != nil {
			return nil, fmt.Errorf("dealing: %w: scalar %d: %v", errs.ErrMalformedDealing, i, err)
		}
		ss[i] = s
	}
	return ss, nil
}
