// Package types defines core value types for X1-EVM.
//
// These types follow Ethereum conventions: addresses are 20 bytes, hashes
// are 32 bytes, and the canonical text form of both is 0x-prefixed hex.
package types

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Size constants for core types.
const (
	AddressSize = 20
	HashSize    = 32
)

var (
	// ErrInvalidAddress is returned when an address has invalid length.
	ErrInvalidAddress = errors.New("invalid address: must be 20 bytes")

	// ErrInvalidHash is returned when a hash has invalid length.
	ErrInvalidHash = errors.New("invalid hash: must be 32 bytes")
)

// Address represents a 20-byte account address.
type Address [AddressSize]byte

// AddressFromHex parses a hex-encoded address, with or without 0x prefix.
func AddressFromHex(s string) (Address, error) {
	var a Address
	data, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return a, fmt.Errorf("hex decode: %w", err)
	}
	if len(data) != AddressSize {
		return a, ErrInvalidAddress
	}
	copy(a[:], data)
	return a, nil
}

// AddressFromBytes creates an Address from a byte slice.
func AddressFromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressSize {
		return a, ErrInvalidAddress
	}
	copy(a[:], b)
	return a, nil
}

// MustAddressFromHex parses a hex address and panics on failure.
// For use with known-good constants only.
func MustAddressFromHex(s string) Address {
	a, err := AddressFromHex(s)
	if err != nil {
		panic(err)
	}
	return a
}

// String returns the 0x-prefixed hex representation.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// IsZero returns true if the address is all zeros.
func (a Address) IsZero() bool {
	for _, b := range a {
		if b != 0 {
			return false
		}
	}
	return true
}

// Bytes returns the address as a byte slice.
func (a Address) Bytes() []byte {
	return a[:]
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := AddressFromHex(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Hash represents a 32-byte hash.
type Hash [HashSize]byte

// HashFromHex parses a hex-encoded hash, with or without 0x prefix.
func HashFromHex(s string) (Hash, error) {
	var h Hash
	data, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return h, fmt.Errorf("hex decode: %w", err)
	}
	if len(data) != HashSize {
		return h, ErrInvalidHash
	}
	copy(h[:], data)
	return h, nil
}

// HashFromBytes creates a Hash from a byte slice.
func HashFromBytes(b []byte) (Hash, error) {
	var h Hash
	if len(b) != HashSize {
		return h, ErrInvalidHash
	}
	copy(h[:], b)
	return h, nil
}

// String returns the 0x-prefixed hex representation.
func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

// IsZero returns true if the hash is all zeros.
func (h Hash) IsZero() bool {
	for _, b := range h {
		if b != 0 {
			return false
		}
	}
	return true
}

// Bytes returns the hash as a byte slice.
func (h Hash) Bytes() []byte {
	return h[:]
}

// MarshalText implements encoding.TextMarshaler.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := HashFromHex(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
