package evm

import (
	"bytes"
	"testing"
)

func TestMemoryLazyGrowth(t *testing.T) {
	m := NewMemory()
	if m.Size() != 0 {
		t.Fatalf("fresh memory size = %d, want 0", m.Size())
	}

	// A one-byte read at offset 1000 materializes through 1001 bytes,
	// rounded up to the 32-byte boundary.
	got := m.Read(1000, 1)
	if !bytes.Equal(got, []byte{0}) {
		t.Fatalf("read of untouched memory = %x, want 00", got)
	}
	if m.Size() != 1024 {
		t.Fatalf("size after read at 1000 = %d, want 1024", m.Size())
	}
}

func TestMemoryRounding(t *testing.T) {
	tests := []struct {
		name           string
		offset, length uint64
		wantSize       uint64
	}{
		{"exact word", 0, 32, 32},
		{"one byte", 0, 1, 32},
		{"word plus one", 0, 33, 64},
		{"offset crosses boundary", 30, 4, 64},
		{"word read deep in memory", 1000, 32, 1056},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMemory()
			m.Read(tt.offset, tt.length)
			if m.Size() != tt.wantSize {
				t.Errorf("size = %d, want %d", m.Size(), tt.wantSize)
			}
		})
	}
}

func TestMemoryNeverShrinks(t *testing.T) {
	m := NewMemory()
	m.Read(100, 1)
	big := m.Size()
	m.Read(0, 1)
	if m.Size() != big {
		t.Fatalf("size shrank from %d to %d", big, m.Size())
	}
}

func TestMemoryWriteRead(t *testing.T) {
	m := NewMemory()
	data := []byte{0xde, 0xad, 0xbe, 0xef}
	m.Write(10, data)
	if got := m.Read(10, 4); !bytes.Equal(got, data) {
		t.Fatalf("read back = %x, want %x", got, data)
	}
	// Surrounding bytes stay zero.
	if got := m.Read(8, 2); !bytes.Equal(got, []byte{0, 0}) {
		t.Fatalf("bytes before write = %x, want zeros", got)
	}
	// Read returns a copy, not a view.
	got := m.Read(10, 4)
	got[0] = 0xff
	if again := m.Read(10, 4); !bytes.Equal(again, data) {
		t.Fatalf("mutating a read corrupted memory: %x", again)
	}
}

func TestMemoryWriteZeroPadded(t *testing.T) {
	m := NewMemory()
	m.Write(0, []byte{0xaa, 0xaa, 0xaa, 0xaa})
	m.WriteZeroPadded(0, []byte{0x11}, 4)
	want := []byte{0x11, 0, 0, 0}
	if got := m.Read(0, 4); !bytes.Equal(got, want) {
		t.Fatalf("zero-padded write = %x, want %x", got, want)
	}
}

func TestRoundUpWord(t *testing.T) {
	cases := map[uint64]uint64{0: 0, 1: 32, 31: 32, 32: 32, 33: 64, 64: 64}
	for in, want := range cases {
		if got := roundUpWord(in); got != want {
			t.Errorf("roundUpWord(%d) = %d, want %d", in, got, want)
		}
	}
}
