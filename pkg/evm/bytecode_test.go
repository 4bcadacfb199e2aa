package evm

import (
	"testing"
)

func TestJumpDestAnalysis(t *testing.T) {
	tests := []struct {
		name  string
		code  []byte
		valid []uint64
		bad   []uint64
	}{
		{
			name:  "plain jumpdest",
			code:  []byte{byte(JUMPDEST), byte(STOP)},
			valid: []uint64{0},
			bad:   []uint64{1},
		},
		{
			name: "jumpdest byte inside push data",
			// PUSH1 0x5b; the 0x5b at offset 1 is data, not a target.
			code:  []byte{byte(PUSH1), byte(JUMPDEST), byte(JUMPDEST), byte(STOP)},
			valid: []uint64{2},
			bad:   []uint64{1},
		},
		{
			name:  "jumpdest after wide push",
			code:  append(append([]byte{byte(PUSH32)}, make([]byte, 32)...), byte(JUMPDEST)),
			valid: []uint64{33},
			bad:   []uint64{16},
		},
		{
			name: "no destinations",
			code: []byte{byte(PUSH1), 0x01, byte(POP)},
			bad:  []uint64{0, 1, 2, 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBytecode(tt.code)
			for _, pc := range tt.valid {
				if !b.IsValidJumpDest(pc) {
					t.Errorf("pc %d should be a valid destination", pc)
				}
			}
			for _, pc := range tt.bad {
				if b.IsValidJumpDest(pc) {
					t.Errorf("pc %d should not be a valid destination", pc)
				}
			}
		})
	}
}

func TestBytecodeCopiesInput(t *testing.T) {
	raw := []byte{byte(JUMPDEST), byte(STOP)}
	b := NewBytecode(raw)
	raw[0] = byte(INVALID)
	if got, _ := b.ByteAt(0); got != byte(JUMPDEST) {
		t.Fatalf("byte 0 = 0x%02x, caller mutation leaked in", got)
	}
	if !b.IsValidJumpDest(0) {
		t.Fatal("analysis changed after caller mutation")
	}
}

func TestByteAt(t *testing.T) {
	b := NewBytecode([]byte{byte(ADD)})
	if got, ok := b.ByteAt(0); !ok || got != byte(ADD) {
		t.Fatalf("ByteAt(0) = 0x%02x, %v", got, ok)
	}
	if _, ok := b.ByteAt(1); ok {
		t.Fatal("ByteAt past end reported ok")
	}
}

func TestPushValueTruncated(t *testing.T) {
	// PUSH32 with only two immediate bytes present.
	b := NewBytecode([]byte{byte(PUSH32), 0x12, 0x34})
	v := b.PushValue(1, 32)
	if v.Uint64() != 0x1234 {
		t.Fatalf("truncated push value = %#x, want 0x1234", v.Uint64())
	}
	// Start past the end yields zero.
	v = b.PushValue(10, 4)
	if !v.IsZero() {
		t.Fatalf("push value past end = %s, want 0", v.Hex())
	}
}

func TestOpcodeNames(t *testing.T) {
	cases := map[Opcode]string{
		ADD:      "ADD",
		PUSH1:    "PUSH1",
		PUSH2:    "PUSH2",
		PUSH32:   "PUSH32",
		DUP3:     "DUP3",
		DUP16:    "DUP16",
		SWAP1:    "SWAP1",
		SWAP10:   "SWAP10",
		LOG4:     "LOG4",
		JUMPDEST: "JUMPDEST",
	}
	for op, want := range cases {
		if got := op.String(); got != want {
			t.Errorf("Opcode(0x%02x).String() = %q, want %q", byte(op), got, want)
		}
	}
}

func TestImmediateLen(t *testing.T) {
	if got := PUSH1.ImmediateLen(); got != 1 {
		t.Errorf("PUSH1 immediate = %d, want 1", got)
	}
	if got := PUSH2.ImmediateLen(); got != 2 {
		t.Errorf("PUSH2 immediate = %d, want 2", got)
	}
	if got := PUSH32.ImmediateLen(); got != 32 {
		t.Errorf("PUSH32 immediate = %d, want 32", got)
	}
	if got := PUSH0.ImmediateLen(); got != 0 {
		t.Errorf("PUSH0 immediate = %d, want 0", got)
	}
	if got := ADD.ImmediateLen(); got != 0 {
		t.Errorf("ADD immediate = %d, want 0", got)
	}
}
