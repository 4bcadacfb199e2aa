package evm

import (
	"github.com/holiman/uint256"

	"github.com/fortiblox/X1-EVM/internal/types"
)

// getData slices data[start:start+size], zero-padded past the end of
// data. The result is always exactly size bytes and never aliases data.
func getData(data []byte, start, size uint64) []byte {
	length := uint64(len(data))
	if start > length {
		start = length
	}
	end := start + size
	if end > length {
		end = length
	}
	out := make([]byte, size)
	copy(out, data[start:end])
	return out
}

func boolToWord(w *uint256.Int, b bool) {
	if b {
		w.SetOne()
	} else {
		w.Clear()
	}
}

// wordToAddress takes the low 20 bytes of a word, the convention every
// address-consuming opcode follows.
func wordToAddress(w *uint256.Int) types.Address {
	b32 := w.Bytes32()
	var a types.Address
	copy(a[:], b32[12:])
	return a
}
