package main

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/nesteddkg/tbls/internal/curve"
	"github.com/nesteddkg/tbls/internal/errs"
	"github.com/nesteddkg/tbls/nidkg"
)

// keypairsFileMagic tags the keypairs file format so a stray file isn't
// silently misparsed as a valid keypair vector.
const keypairsFileMagic = "NDKGKP1\x00"

// writeKeypairsFile canonically encodes a length-prefixed vector of FS
// keypairs plus their proofs of possession: magic, uint32 count, then per
// entry a fixed-width secret scalar, a fixed-width public point, and a
// uint16-length-prefixed proof of possession (the PoP length isn't fixed
// across schemes, unlike the scalar/point widths).
func writeKeypairsFile(path string, pairs []*nidkg.FSKeyPair, pops [][]byte) error {
	if len(pairs) != len(pops) {
		return fmt.Errorf("nesteddkg: %d keypairs but %d proofs of possession", len(pairs), len(pops))
	}
	fd, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("nesteddkg: create %s: %w", path, err)
	}
	defer fd.Close()

	if _, err := fd.WriteString(keypairsFileMagic); err != nil {
		return err
	}
	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], uint32(len(pairs)))
	if _, err := fd.Write(countBuf[:]); err != nil {
		return err
	}
	for idx, p := range pairs {
		skBytes, err := p.SecretKey.MarshalBinary()
		if err != nil {
			return fmt.Errorf("nesteddkg: marshal secret key %d: %w", idx, err)
		}
		pkBytes, err := p.PublicKey.MarshalBinary()
		if err != nil {
			return fmt.Errorf("nesteddkg: marshal public key %d: %w", idx, err)
		}
		if _, err := fd.Write(skBytes); err != nil {
			return err
		}
		if _, err := fd.Write(pkBytes); err != nil {
			return err
		}
		var popLen [2]byte
		binary.BigEndian.PutUint16(popLen[:], uint16(len(pops[idx])))
		if _, err := fd.Write(popLen[:]); err != nil {
			return err
		}
		if _, err := fd.Write(pops[idx]); err != nil {
			return err
		}
	}
	return nil
}

// readKeypairsFile is the inverse of writeKeypairsFile.
func readKeypairsFile(path string) ([]*nidkg.FSKeyPair, [][]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("nesteddkg: read %s: %w", path, err)
	}
	if len(data) < len(keypairsFileMagic)+4 || string(data[:len(keypairsFileMagic)]) != keypairsFileMagic {
		return nil, nil, fmt.Errorf("nesteddkg: %w: bad keypairs file magic", errs.ErrMalformedDealing)
	}
	pos := len(keypairsFileMagic)
	count := int(binary.BigEndian.Uint32(data[pos : pos+4]))
	pos += 4

	g1 := curve.G1()
	scalarWidth := g1.Scalar().MarshalSize()
	pointWidth := g1.Point().MarshalSize()

	pairs := make([]*nidkg.FSKeyPair, count)
	pops := make([][]byte, count)
	for i := 0; i < count; i++ {
		if pos+scalarWidth+pointWidth+2 > len(data) {
			return nil, nil, fmt.Errorf("nesteddkg: %w: keypairs file truncated at entry %d", errs.ErrMalformedDealing, i)
		}
		sk := g1.Scalar()
		if err := sk.UnmarshalBinary(data[pos : pos+scalarWidth]); err != nil {
			return nil, nil, fmt.Errorf("nesteddkg: secret key %d: %w", i, err)
		}
		pos += scalarWidth
		pk := g1.Point()
		if err := pk.UnmarshalBinary(data[pos : pos+pointWidth]); err != nil {
			return nil, nil, fmt.Errorf("nesteddkg: public key %d: %w", i, err)
		}
		pos += pointWidth
		popLen := int(binary.BigEndian.Uint16(data[pos : pos+2]))
		pos += 2
		if pos+popLen > len(data) {
			return nil, nil, fmt.Errorf("nesteddkg: %w: proof of possession %d truncated", errs.ErrMalformedDealing, i)
		}
		pop := make([]byte, popLen)
		copy(pop, data[pos:pos+popLen])
		pos += popLen

		pairs[i] = &nidkg.FSKeyPair{SecretKey: sk, PublicKey: pk}
		pops[i] = pop
	}
	return pairs, pops, nil
}
