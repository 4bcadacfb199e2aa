package types

import (
	"errors"
	"testing"
)

func TestAddressFromHex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{
			name:  "with prefix",
			input: "0x00000000000000000000000000000000000000ff",
			want:  "0x00000000000000000000000000000000000000ff",
		},
		{
			name:  "without prefix",
			input: "00000000000000000000000000000000000000ff",
			want:  "0x00000000000000000000000000000000000000ff",
		},
		{
			name:    "too short",
			input:   "0x1234",
			wantErr: ErrInvalidAddress,
		},
		{
			name:    "too long",
			input:   "0x" + "00000000000000000000000000000000000000ff" + "00",
			wantErr: ErrInvalidAddress,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := AddressFromHex(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if a.String() != tt.want {
				t.Errorf("String() = %s, want %s", a.String(), tt.want)
			}
		})
	}

	if _, err := AddressFromHex("0xzz"); err == nil {
		t.Error("non-hex input should fail")
	}
}

func TestHashFromBytes(t *testing.T) {
	b := make([]byte, HashSize)
	b[0] = 0xab
	h, err := HashFromBytes(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h[0] != 0xab {
		t.Errorf("h[0] = %x, want ab", h[0])
	}
	if _, err := HashFromBytes(b[:31]); !errors.Is(err, ErrInvalidHash) {
		t.Errorf("short input err = %v, want ErrInvalidHash", err)
	}
}

func TestIsZero(t *testing.T) {
	var a Address
	if !a.IsZero() {
		t.Error("zero address not reported zero")
	}
	a[19] = 1
	if a.IsZero() {
		t.Error("nonzero address reported zero")
	}

	var h Hash
	if !h.IsZero() {
		t.Error("zero hash not reported zero")
	}
}

func TestTextRoundTrip(t *testing.T) {
	a := MustAddressFromHex("0x1234567890123456789012345678901234567890")
	text, err := a.MarshalText()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Address
	if err := back.UnmarshalText(text); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != a {
		t.Errorf("round trip changed address: %s != %s", back, a)
	}

	h, _ := HashFromHex("0x1100000000000000000000000000000000000000000000000000000000000022")
	text, _ = h.MarshalText()
	var hback Hash
	if err := hback.UnmarshalText(text); err != nil {
		t.Fatalf("unmarshal hash: %v", err)
	}
	if hback != h {
		t.Errorf("round trip changed hash")
	}
}

func TestPrecompileAddresses(t *testing.T) {
	if EcrecoverAddr[19] != 0x01 {
		t.Errorf("ecrecover = %s", EcrecoverAddr)
	}
	if Blake2FAddr[19] != 0x09 {
		t.Errorf("blake2f = %s", Blake2FAddr)
	}
	if EcrecoverAddr.IsZero() {
		t.Error("precompile address is zero")
	}
}
