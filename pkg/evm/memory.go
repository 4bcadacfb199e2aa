package evm

// WordSize is the memory expansion granularity in bytes.
const WordSize = 32

// Memory is the byte-addressable scratch memory of one execution frame.
// It is logically infinite and materialized lazily: any access past the
// materialized length grows the buffer to cover the accessed range,
// rounded up to the next 32-byte boundary, with new bytes zeroed. The
// materialized length never shrinks within a run.
type Memory struct {
	data []byte
}

// NewMemory creates an empty memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Size returns the materialized length in bytes, always a multiple of 32.
func (m *Memory) Size() uint64 {
	return uint64(len(m.data))
}

// Read returns a copy of length bytes starting at offset, expanding
// memory first if the range is not yet materialized. Bytes never written
// read as zero.
func (m *Memory) Read(offset, length uint64) []byte {
	if length == 0 {
		return nil
	}
	m.expand(offset + length)
	out := make([]byte, length)
	copy(out, m.data[offset:offset+length])
	return out
}

// Write copies data into memory at offset, expanding first so the whole
// range is materialized.
func (m *Memory) Write(offset uint64, data []byte) {
	if len(data) == 0 {
		return
	}
	m.expand(offset + uint64(len(data)))
	copy(m.data[offset:], data)
}

// WriteZeroPadded writes length bytes at offset, taking them from data
// and zero-filling whatever data does not cover. Used by the copy
// opcodes, whose source may be shorter than the requested range.
func (m *Memory) WriteZeroPadded(offset uint64, data []byte, length uint64) {
	if length == 0 {
		return
	}
	m.expand(offset + length)
	n := copy(m.data[offset:offset+length], data)
	for i := offset + uint64(n); i < offset+length; i++ {
		m.data[i] = 0
	}
}

// expand grows the materialized buffer so it covers end bytes, rounded
// up to the word size.
func (m *Memory) expand(end uint64) {
	rounded := roundUpWord(end)
	if rounded <= uint64(len(m.data)) {
		return
	}
	grown := make([]byte, rounded)
	copy(grown, m.data)
	m.data = grown
}

// roundUpWord rounds n up to the next multiple of WordSize.
func roundUpWord(n uint64) uint64 {
	if n%WordSize == 0 {
		return n
	}
	return n + WordSize - n%WordSize
}
