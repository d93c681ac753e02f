package store

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nesteddkg/tbls/internal/errs"
)

// peerTOML is one entry of an addresses.toml file, encoded as an
// array-of-tables (`[[Peer]]`) the same way drand's GroupTOML nests
// PublicTOML entries (key/keys.go's GroupTOML.Nodes).
type peerTOML struct {
	Address string
}

type addressesTOML struct {
	Peer []peerTOML
}

// LoadAddresses reads an ordered peer list from path. Two formats are
// accepted, auto-detected by content sniffing: a TOML array-of-tables (the
// first non-blank byte is `[`), or one bare host:port per line (blank lines
// and `#`-prefixed comments ignored).
func LoadAddresses(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("store: read addresses %s: %w", path, err)
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return decodeAddressesTOML(data)
	}
	return decodeAddressesPlain(data)
}

// SaveAddresses writes addrs to path as TOML array-of-tables.
func SaveAddresses(path string, addrs []string) error {
	doc := addressesTOML{Peer: make([]peerTOML, len(addrs))}
	for i, a := range addrs {
		doc.Peer[i] = peerTOML{Address: a}
	}
	fd, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("store: create %s: %w", path, err)
	}
	defer fd.Close()
	if err := toml.NewEncoder(fd).Encode(doc); err != nil {
		return fmt.Errorf("store: encode addresses %s: %w", path, err)
	}
	return nil
}

func decodeAddressesTOML(data []byte) ([]string, error) {
	var doc addressesTOML
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, fmt.Errorf("store: decode addresses toml: %w", err)
	}
	if len(doc.Peer) == 0 {
		return nil, fmt.Errorf("store: %w", errs.ErrEmptyAddressList)
	}
	out := make([]string, len(doc.Peer))
	for i, p := range doc.Peer {
		out[i] = p.Address
	}
	return out, nil
}

func decodeAddressesPlain(data []byte) ([]string, error) {
	var out []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("store: %w", errs.ErrEmptyAddressList)
	}
	return out, nil
}
