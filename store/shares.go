package store

import (
	"encoding/hex"
	"fmt"

	"github.com/drand/kyber"
	"github.com/google/uuid"

	"github.com/nesteddkg/tbls/bipoly"
	"github.com/nesteddkg/tbls/internal/curve"
	"github.com/nesteddkg/tbls/poly"
)

// UnivariateShare is one participant's precomputed output of the
// interactive univariate DKG (§4.E), persisted so threshold-signature
// benchmarks can skip re-running the DKG on every invocation, mirroring
// drand's on-disk Share/DistPublic split (key/keys.go) but kept as a single
// file since this module has no long-lived beacon process to restart.
type UnivariateShare struct {
	Index     int
	SecretKey kyber.Scalar
	Public    *poly.PublicCoefficients

	// RunID correlates this share with the DKG or NI-DKG round that produced
	// it, so shares saved by every participant of the same run can be
	// matched up later without replaying the protocol (dkg.Result.RunID /
	// nidkg.Transcript.ID).
	RunID uuid.UUID
}

type univariateShareTOML struct {
	Index     int
	SecretKey string
	Commits   []string
	RunID     string
}

func (s *UnivariateShare) TOML() interface{} {
	skBytes, _ := s.SecretKey.MarshalBinary()
	t := &univariateShareTOML{
		Index:     s.Index,
		SecretKey: hex.EncodeToString(skBytes),
		Commits:   make([]string, len(s.Public.Commits)),
		RunID:     s.RunID.String(),
	}
	for i, c := range s.Public.Commits {
		b, _ := c.MarshalBinary()
		t.Commits[i] = hex.EncodeToString(b)
	}
	return t
}

func (s *UnivariateShare) TOMLValue() interface{} { return &univariateShareTOML{} }

func (s *UnivariateShare) FromTOML(v interface{}) error {
	t, ok := v.(*univariateShareTOML)
	if !ok {
		return fmt.Errorf("store: univariate share: unexpected TOML value type %T", v)
	}
	g2 := curve.G2()
	sk, err := decodeScalar(g2, t.SecretKey)
	if err != nil {
		return fmt.Errorf("store: univariate share: secret key: %w", err)
	}
	commits := make([]kyber.Point, len(t.Commits))
	for i, c := range t.Commits {
		p, err := decodePoint(g2, c)
		if err != nil {
			return fmt.Errorf("store: univariate share: commit %d: %w", i, err)
		}
		commits[i] = p
	}
	runID, err := parseRunID(t.RunID)
	if err != nil {
		return fmt.Errorf("store: univariate share: %w", err)
	}
	s.Index = t.Index
	s.SecretKey = sk
	s.Public = poly.FromCommits(g2, commits)
	s.RunID = runID
	return nil
}

// parseRunID accepts both an empty string (shares saved before RunID existed)
// and a canonical UUID string, returning uuid.Nil for the former.
func parseRunID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("run id: %w", err)
	}
	return id, nil
}

// SaveUnivariateShare writes s to path, owner-readable only.
func SaveUnivariateShare(path string, s *UnivariateShare) error {
	return Save(path, s, true)
}

// LoadUnivariateShare reads back a share saved by SaveUnivariateShare.
func LoadUnivariateShare(path string) (*UnivariateShare, error) {
	s := &UnivariateShare{}
	if err := Load(path, s); err != nil {
		return nil, err
	}
	return s, nil
}

// BivariateShare is the bivariate counterpart of UnivariateShare, holding a
// (group, member) participant's secret key and the joint public coefficient
// grid, flattened row-major for TOML encoding.
type BivariateShare struct {
	Group, Member int
	SecretKey     kyber.Scalar
	Public        *bipoly.PublicCoefficients
	RunID         uuid.UUID
}

type bivariateShareTOML struct {
	Group, Member int
	SecretKey     string
	T, TPrime     int
	Commits       []string // row-major, length T*TPrime
	RunID         string
}

func (s *BivariateShare) TOML() interface{} {
	skBytes, _ := s.SecretKey.MarshalBinary()
	t := s.Public.T()
	tPrime := s.Public.TPrime()
	out := &bivariateShareTOML{
		Group:     s.Group,
		Member:    s.Member,
		SecretKey: hex.EncodeToString(skBytes),
		T:         t,
		TPrime:    tPrime,
		Commits:   make([]string, 0, t*tPrime),
		RunID:     s.RunID.String(),
	}
	for i := 0; i < t; i++ {
		for j := 0; j < tPrime; j++ {
			b, _ := s.Public.Commits[i][j].MarshalBinary()
			out.Commits = append(out.Commits, hex.EncodeToString(b))
		}
	}
	return out
}

func (s *BivariateShare) TOMLValue() interface{} { return &bivariateShareTOML{} }

func (s *BivariateShare) FromTOML(v interface{}) error {
	t, ok := v.(*bivariateShareTOML)
	if !ok {
		return fmt.Errorf("store: bivariate share: unexpected TOML value type %T", v)
	}
	g2 := curve.G2()
	sk, err := decodeScalar(g2, t.SecretKey)
	if err != nil {
		return fmt.Errorf("store: bivariate share: secret key: %w", err)
	}
	if len(t.Commits) != t.T*t.TPrime {
		return fmt.Errorf("store: bivariate share: %d commits, want %dx%d", len(t.Commits), t.T, t.TPrime)
	}
	grid := make([][]kyber.Point, t.T)
	for i := 0; i < t.T; i++ {
		row := make([]kyber.Point, t.TPrime)
		for j := 0; j < t.TPrime; j++ {
			p, err := decodePoint(g2, t.Commits[i*t.TPrime+j])
			if err != nil {
				return fmt.Errorf("store: bivariate share: commit (%d,%d): %w", i, j, err)
			}
			row[j] = p
		}
		grid[i] = row
	}
	runID, err := parseRunID(t.RunID)
	if err != nil {
		return fmt.Errorf("store: bivariate share: %w", err)
	}
	s.Group, s.Member = t.Group, t.Member
	s.SecretKey = sk
	s.Public = bipoly.FromCommits(g2, grid)
	s.RunID = runID
	return nil
}

// SaveBivariateShare writes s to path, owner-readable only.
func SaveBivariateShare(path string, s *BivariateShare) error {
	return Save(path, s, true)
}

// LoadBivariateShare reads back a share saved by SaveBivariateShare.
func LoadBivariateShare(path string) (*BivariateShare, error) {
	s := &BivariateShare{}
	if err := Load(path, s); err != nil {
		return nil, err
	}
	return s, nil
}
