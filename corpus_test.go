package knapsack

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	kerrors "github.com/tamirms/knapsack/errors"
)

func writeTestCorpus(t *testing.T, insts []*Instance) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.knpc")
	if err := WriteCorpus(path, insts); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCorpusRoundTrip(t *testing.T) {
	rng := newTestRNG(t)
	insts := []*Instance{
		randomTestInstance(rng, 10, 100),
		{Capacity: 5}, // no items
		randomTestInstance(rng, 1000, 1_000_000),
		randomTestInstance(rng, 1, 7),
	}
	path := writeTestCorpus(t, insts)

	c, err := OpenCorpus(path)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Verify(); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if c.Len() != len(insts) {
		t.Fatalf("Len = %d, want %d", c.Len(), len(insts))
	}
	for i, want := range insts {
		got, err := c.Instance(i)
		if err != nil {
			t.Fatalf("Instance(%d): %v", i, err)
		}
		if !equalInstances(got, want) {
			t.Fatalf("instance %d differs after round trip", i)
		}
	}

	all, err := c.Instances()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(insts) || !equalInstances(all[2], insts[2]) {
		t.Fatal("Instances does not match the written corpus")
	}
}

func TestCorpusEmpty(t *testing.T) {
	path := writeTestCorpus(t, nil)
	c, err := OpenCorpus(path)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if c.Len() != 0 {
		t.Fatalf("Len = %d, want 0", c.Len())
	}
	if err := c.Verify(); err != nil {
		t.Fatal(err)
	}
	for range c.All() {
		t.Fatal("All yielded an instance from an empty corpus")
	}
}

func TestCorpusBytesMatchesFile(t *testing.T) {
	rng := newTestRNG(t)
	insts := []*Instance{randomTestInstance(rng, 50, 100), randomTestInstance(rng, 20, 100)}
	data, err := os.ReadFile(writeTestCorpus(t, insts))
	if err != nil {
		t.Fatal(err)
	}
	c, err := OpenCorpusBytes(data)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Verify(); err != nil {
		t.Fatal(err)
	}
	got, err := c.Instance(1)
	if err != nil {
		t.Fatal(err)
	}
	if !equalInstances(got, insts[1]) {
		t.Fatal("instance 1 differs")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close on a byte-backed corpus: %v", err)
	}
}

func TestWriteCorpusRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name  string
		insts []*Instance
	}{
		{"nil_instance", []*Instance{nil}},
		{"length_mismatch", []*Instance{{Profits: []int64{1}, Capacity: 1}}},
		{"negative_weight", []*Instance{{Profits: []int64{1}, Weights: []int64{-1}, Capacity: 1}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name)
			if err := WriteCorpus(path, tc.insts); !errors.Is(err, kerrors.ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
			if _, err := os.Stat(path); !os.IsNotExist(err) {
				t.Fatalf("file was created for an invalid corpus")
			}
		})
	}
}

func TestCorpusCorruption(t *testing.T) {
	rng := newTestRNG(t)
	insts := []*Instance{randomTestInstance(rng, 30, 100), randomTestInstance(rng, 40, 100)}
	orig, err := os.ReadFile(writeTestCorpus(t, insts))
	if err != nil {
		t.Fatal(err)
	}
	recordStart := corpusHeaderSize + (len(insts)+1)*entrySize

	tests := []struct {
		name    string
		mutate  func([]byte) []byte
		openErr error // expected from OpenCorpusBytes; nil means open succeeds
		verify  error // expected from Verify when open succeeds
	}{
		{
			name:    "bad_magic",
			mutate:  func(b []byte) []byte { b[0] ^= 0xFF; return b },
			openErr: kerrors.ErrInvalidMagic,
		},
		{
			name:    "bad_version",
			mutate:  func(b []byte) []byte { b[4] = 0x7F; return b },
			openErr: kerrors.ErrInvalidVersion,
		},
		{
			name:    "truncated",
			mutate:  func(b []byte) []byte { return b[:len(b)-1] },
			openErr: kerrors.ErrTruncatedFile,
		},
		{
			name:    "too_short",
			mutate:  func(b []byte) []byte { return b[:minCorpusSize-1] },
			openErr: kerrors.ErrTruncatedFile,
		},
		{
			name:    "trailing_bytes",
			mutate:  func(b []byte) []byte { return append(b, 0) },
			openErr: kerrors.ErrCorruptedCorpus,
		},
		{
			name:    "huge_count",
			mutate:  func(b []byte) []byte { b[13] = 0x7F; return b },
			openErr: kerrors.ErrCorruptedCorpus,
		},
		{
			name:   "record_bit_flip",
			mutate: func(b []byte) []byte { b[recordStart+20] ^= 0x01; return b },
			verify: kerrors.ErrChecksumFailed,
		},
		{
			name:   "entry_table_bit_flip",
			mutate: func(b []byte) []byte { b[corpusHeaderSize+entrySize] ^= 0x01; return b },
			verify: kerrors.ErrChecksumFailed,
		},
		{
			name:   "footer_bit_flip",
			mutate: func(b []byte) []byte { b[len(b)-1] ^= 0x01; return b },
			verify: kerrors.ErrChecksumFailed,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data := tc.mutate(append([]byte(nil), orig...))
			c, err := OpenCorpusBytes(data)
			if tc.openErr != nil {
				if !errors.Is(err, tc.openErr) {
					t.Fatalf("open err = %v, want %v", err, tc.openErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			if err := c.Verify(); !errors.Is(err, tc.verify) {
				t.Fatalf("Verify err = %v, want %v", err, tc.verify)
			}
		})
	}
}

func TestCorpusInstanceErrors(t *testing.T) {
	rng := newTestRNG(t)
	path := writeTestCorpus(t, []*Instance{randomTestInstance(rng, 5, 10)})
	c, err := OpenCorpus(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, i := range []int{-1, 1, 100} {
		if _, err := c.Instance(i); !errors.Is(err, kerrors.ErrInvalidInput) {
			t.Fatalf("Instance(%d): err = %v, want ErrInvalidInput", i, err)
		}
	}

	// A corrupt entry table yields ErrCorruptedCorpus from Instance even
	// though the header still parses.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	data[corpusHeaderSize+entrySize] = 0xFF
	bad, err := OpenCorpusBytes(data)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := bad.Instance(0); !errors.Is(err, kerrors.ErrCorruptedCorpus) {
		t.Fatalf("err = %v, want ErrCorruptedCorpus", err)
	}

	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if _, err := c.Instance(0); !errors.Is(err, kerrors.ErrCorpusClosed) {
		t.Fatalf("err = %v, want ErrCorpusClosed", err)
	}
	if err := c.Verify(); !errors.Is(err, kerrors.ErrCorpusClosed) {
		t.Fatalf("Verify err = %v, want ErrCorpusClosed", err)
	}
}
