package evm

import (
	"github.com/holiman/uint256"
)

// Bytecode is the immutable instruction stream of one contract plus its
// precomputed jump destinations. Construction performs a single linear
// scan that treats PUSH immediates as data, so a JUMPDEST byte inside
// push data is not a valid target. A Bytecode is read-only after
// construction and safe for concurrent use by multiple executions.
type Bytecode struct {
	code      []byte
	jumpdests map[uint64]struct{}
}

// NewBytecode analyzes code and returns a Bytecode. The input slice is
// copied; later mutation of the caller's slice does not affect execution.
func NewBytecode(code []byte) *Bytecode {
	b := &Bytecode{
		code:      append([]byte(nil), code...),
		jumpdests: make(map[uint64]struct{}),
	}
	for pc := uint64(0); pc < uint64(len(b.code)); {
		op := Opcode(b.code[pc])
		if op == JUMPDEST {
			b.jumpdests[pc] = struct{}{}
		}
		pc += 1 + op.ImmediateLen()
	}
	return b
}

// Len returns the code length in bytes.
func (b *Bytecode) Len() uint64 {
	return uint64(len(b.code))
}

// ByteAt returns the byte at the given offset, or false if the offset is
// past the end of the code.
func (b *Bytecode) ByteAt(pc uint64) (byte, bool) {
	if pc >= uint64(len(b.code)) {
		return 0, false
	}
	return b.code[pc], true
}

// IsValidJumpDest reports whether pc is a JUMPDEST at an instruction
// boundary.
func (b *Bytecode) IsValidJumpDest(pc uint64) bool {
	_, ok := b.jumpdests[pc]
	return ok
}

// PushValue reads up to size immediate bytes starting at start and
// interprets them as a big-endian word. A PUSH truncated by the end of
// the code yields the value of the bytes that are present.
func (b *Bytecode) PushValue(start, size uint64) uint256.Int {
	var v uint256.Int
	codeLen := uint64(len(b.code))
	if start >= codeLen {
		return v
	}
	end := start + size
	if end > codeLen {
		end = codeLen
	}
	v.SetBytes(b.code[start:end])
	return v
}

// Code returns the raw code bytes. Callers must not modify the slice.
func (b *Bytecode) Code() []byte {
	return b.code
}
