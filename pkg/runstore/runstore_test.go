package runstore

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/fortiblox/X1-EVM/pkg/evm"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(DefaultConfig(filepath.Join(t.TempDir(), "runs.db")))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := openTestStore(t)

	code := []byte{byte(evm.PUSH1), 1}
	input := []byte{0xaa}
	result := &evm.Result{Output: []byte{0x01, 0x02}, Steps: 7}

	key, err := s.Put(code, input, result)
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	rec, err := s.Get(key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Equal(rec.Output, result.Output) {
		t.Errorf("output = %x, want %x", rec.Output, result.Output)
	}
	if rec.Steps != 7 || rec.Reverted || rec.Err != "" {
		t.Errorf("record = %+v", rec)
	}
	if rec.When.IsZero() {
		t.Error("record has no timestamp")
	}

	// The same pair resolves to the same key.
	again, err := s.GetByContent(code, input)
	if err != nil {
		t.Fatalf("get by content: %v", err)
	}
	if !bytes.Equal(again.Output, result.Output) {
		t.Errorf("content lookup output = %x", again.Output)
	}
}

func TestRevertAndFatalRecords(t *testing.T) {
	s := openTestStore(t)

	revert := &evm.Result{Output: []byte{0xaa}, Steps: 3, Err: evm.ErrExecutionReverted}
	key, err := s.Put([]byte{1}, nil, revert)
	if err != nil {
		t.Fatalf("put revert: %v", err)
	}
	rec, err := s.Get(key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !rec.Reverted || rec.Err == "" {
		t.Errorf("revert record = %+v", rec)
	}

	fatal := &evm.Result{Steps: 1, Err: evm.ErrInvalidOpcode}
	key, err = s.Put([]byte{2}, nil, fatal)
	if err != nil {
		t.Fatalf("put fatal: %v", err)
	}
	rec, err = s.Get(key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Reverted || rec.Err == "" {
		t.Errorf("fatal record = %+v", rec)
	}
}

func TestMissingRecord(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetByContent([]byte{0x01}, nil)
	if !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("err = %v, want ErrRunNotFound", err)
	}
}

func TestKeyDistinguishesCodeFromInput(t *testing.T) {
	// Moving a byte across the code/input boundary must change the key.
	a := Key([]byte{0x01, 0x02}, []byte{0x03})
	b := Key([]byte{0x01}, []byte{0x02, 0x03})
	if a == b {
		t.Fatal("key collision across code/input split")
	}
	if a != Key([]byte{0x01, 0x02}, []byte{0x03}) {
		t.Fatal("key is not deterministic")
	}
}

func TestCountAndOverwrite(t *testing.T) {
	s := openTestStore(t)

	if s.Count() != 0 {
		t.Fatalf("fresh count = %d", s.Count())
	}
	if _, err := s.Put([]byte{1}, nil, &evm.Result{Steps: 1}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := s.Put([]byte{2}, nil, &evm.Result{Steps: 1}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if s.Count() != 2 {
		t.Fatalf("count = %d, want 2", s.Count())
	}

	// Overwriting the same pair does not inflate the count.
	if _, err := s.Put([]byte{1}, nil, &evm.Result{Steps: 9}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if s.Count() != 2 {
		t.Fatalf("count after overwrite = %d, want 2", s.Count())
	}
	rec, err := s.GetByContent([]byte{1}, nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Steps != 9 {
		t.Fatalf("overwritten steps = %d, want 9", rec.Steps)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	s, err := Open(DefaultConfig(path))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	key, err := s.Put([]byte{1}, nil, &evm.Result{Output: []byte{0x0f}, Steps: 2})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = Open(DefaultConfig(path))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	rec, err := s.Get(key)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if !bytes.Equal(rec.Output, []byte{0x0f}) {
		t.Fatalf("output after reopen = %x", rec.Output)
	}
	if s.Count() != 1 {
		t.Fatalf("count after reopen = %d, want 1", s.Count())
	}
}

func TestClosedStore(t *testing.T) {
	s, err := Open(DefaultConfig(filepath.Join(t.TempDir(), "runs.db")))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := s.Put(nil, nil, &evm.Result{}); !errors.Is(err, ErrClosed) {
		t.Errorf("put err = %v, want ErrClosed", err)
	}
	if _, err := s.Get(Key(nil, nil)); !errors.Is(err, ErrClosed) {
		t.Errorf("get err = %v, want ErrClosed", err)
	}
}
