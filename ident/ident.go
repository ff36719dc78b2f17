// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ident provides the 32-byte identifiers used to address accounts
// and pools, and the deterministic derivation of record addresses.
package ident

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Size is the encoded width of an ID.
const Size = 32

// ID is an opaque 32-byte identifier.
type ID [Size]byte

var (
	_ json.Marshaler   = (*ID)(nil)
	_ json.Unmarshaler = (*ID)(nil)
)

// String implements stringer
func (id ID) String() string {
	return "0x" + hex.EncodeToString(id[:])
}

// AbbrevString returns abbrev string presentation.
func (id ID) AbbrevString() string {
	return fmt.Sprintf("0x%x…%x", id[:4], id[28:])
}

func (id ID) Bytes() []byte {
	return id[:]
}

func (id ID) IsZero() bool {
	return id == ID{}
}

func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (id *ID) MarshalJSON() ([]byte, error) {
	if id == nil {
		return json.Marshal(nil)
	}
	return json.Marshal(id.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return id.UnmarshalText([]byte(s))
}

// Parse decodes a hex string, with or without the 0x prefix.
func Parse(s string) (ID, error) {
	switch len(s) {
	case Size * 2:
	case Size*2 + 2:
		if strings.ToLower(s[:2]) != "0x" {
			return ID{}, errors.New("invalid prefix")
		}
		s = s[2:]
	default:
		return ID{}, errors.New("invalid length")
	}

	var id ID
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return ID{}, err
	}
	return id, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// BytesToID left-pads or left-crops b to 32 bytes.
func BytesToID(b []byte) ID {
	return ID(common.BytesToHash(b))
}
