package store

import (
	"encoding/hex"
	"fmt"

	"github.com/drand/kyber"

	"github.com/nesteddkg/tbls/internal/curve"
	"github.com/nesteddkg/tbls/nidkg"
)

// keyPairTOML is the hex-encoded, TOML-able view of an nidkg.FSKeyPair,
// one hex string per field.
type keyPairTOML struct {
	SecretKey string
	PublicKey string
	PoP       string
}

// KeyPair bundles an FSKeyPair with its proof of possession for storage;
// nidkg.FSKeyPair itself carries no PoP field since PoP is produced once at
// generation time and verified independently of the key pair's lifetime.
// Exported so other persistence backends (boltstore) can build one directly.
type KeyPair struct {
	Pair *nidkg.FSKeyPair
	PoP  []byte
}

// NewKeyPair wraps pair and pop as a Tomler.
func NewKeyPair(pair *nidkg.FSKeyPair, pop []byte) *KeyPair {
	return &KeyPair{Pair: pair, PoP: pop}
}

func (k *KeyPair) TOML() interface{} {
	skBytes, _ := k.Pair.SecretKey.MarshalBinary()
	pkBytes, _ := k.Pair.PublicKey.MarshalBinary()
	return &keyPairTOML{
		SecretKey: hex.EncodeToString(skBytes),
		PublicKey: hex.EncodeToString(pkBytes),
		PoP:       hex.EncodeToString(k.PoP),
	}
}

func (k *KeyPair) TOMLValue() interface{} {
	return &keyPairTOML{}
}

func (k *KeyPair) FromTOML(v interface{}) error {
	t, ok := v.(*keyPairTOML)
	if !ok {
		return fmt.Errorf("store: keypair: unexpected TOML value type %T", v)
	}
	g1 := curve.G1()
	sk, err := decodeScalar(g1, t.SecretKey)
	if err != nil {
		return fmt.Errorf("store: keypair: secret key: %w", err)
	}
	pk, err := decodePoint(g1, t.PublicKey)
	if err != nil {
		return fmt.Errorf("store: keypair: public key: %w", err)
	}
	pop, err := hex.DecodeString(t.PoP)
	if err != nil {
		return fmt.Errorf("store: keypair: proof of possession: %w", err)
	}
	k.Pair = &nidkg.FSKeyPair{SecretKey: sk, PublicKey: pk}
	k.PoP = pop
	return nil
}

// SaveKeyPair writes an NI-DKG forward-secure key pair and its proof of
// possession to path, owner-readable only (it carries secret material).
func SaveKeyPair(path string, pair *nidkg.FSKeyPair, pop []byte) error {
	return Save(path, NewKeyPair(pair, pop), true)
}

// LoadKeyPair reads back a key pair saved by SaveKeyPair.
func LoadKeyPair(path string) (*nidkg.FSKeyPair, []byte, error) {
	k := &KeyPair{}
	if err := Load(path, k); err != nil {
		return nil, nil, err
	}
	return k.Pair, k.PoP, nil
}

func decodeScalar(g kyber.Group, s string) (kyber.Scalar, error) {
	buf, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	sc := g.Scalar()
	return sc, sc.UnmarshalBinary(buf)
}

func decodePoint(g kyber.Group, s string) (kyber.Point, error) {
	buf, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	p := g.Point()
	return p, p.UnmarshalBinary(buf)
}
