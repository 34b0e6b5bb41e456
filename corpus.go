package knapsack

import (
	"encoding/binary"
	"errors"
	"fmt"
	"iter"
	"os"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/edsrzf/mmap-go"

	kerrors "github.com/tamirms/knapsack/errors"
)

// Corpus is a read-only collection of instances stored in a corpus file.
//
// Instance, All and Verify are safe for concurrent use. Close must only be
// called after all readers have finished.
type Corpus struct {
	mmap mmap.MMap
	data []byte

	header *corpusHeader

	entryTableOffset   uint64
	recordRegionOffset uint64
	footerOffset       uint64

	closed atomic.Bool
}

// OpenCorpus opens a corpus file by memory-mapping it. The file descriptor
// is closed before OpenCorpus returns.
func OpenCorpus(path string) (*Corpus, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus file: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat corpus file: %w", err)
	}
	if stat.Size() < minCorpusSize {
		return nil, kerrors.ErrTruncatedFile
	}
	// Records are usually read front to back.
	fadviseSequential(int(file.Fd()), 0, stat.Size())

	mm, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap corpus file: %w", err)
	}
	c := &Corpus{
		mmap: mm,
		data: []byte(mm),
	}
	if err := c.initFromData(); err != nil {
		return nil, errors.Join(err, c.Close())
	}
	return c, nil
}

// OpenCorpusBytes reads a corpus from an in-memory byte slice. Close is a
// no-op. The caller must not modify data while the Corpus is in use.
func OpenCorpusBytes(data []byte) (*Corpus, error) {
	if len(data) < minCorpusSize {
		return nil, kerrors.ErrTruncatedFile
	}
	c := &Corpus{data: data}
	if err := c.initFromData(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Corpus) initFromData() error {
	size := uint64(len(c.data))
	hdr, err := decodeCorpusHeader(c.data[:corpusHeaderSize])
	if err != nil {
		return err
	}
	c.header = hdr

	// Guard the size arithmetic against absurd counts before computing it.
	if hdr.Count >= size/entrySize || hdr.RecordBytes > size {
		return kerrors.ErrCorruptedCorpus
	}
	c.entryTableOffset = corpusHeaderSize
	c.recordRegionOffset = c.entryTableOffset + (hdr.Count+1)*entrySize
	c.footerOffset = c.recordRegionOffset + hdr.RecordBytes
	want := c.footerOffset + corpusFooterSize
	if want > size {
		return kerrors.ErrTruncatedFile
	}
	if want != size {
		return kerrors.ErrCorruptedCorpus
	}
	return nil
}

// Len returns the number of instances in the corpus.
func (c *Corpus) Len() int {
	return int(c.header.Count)
}

// Instance decodes instance i. The result does not reference the mapped
// file and stays valid after Close.
func (c *Corpus) Instance(i int) (*Instance, error) {
	if c.closed.Load() {
		return nil, kerrors.ErrCorpusClosed
	}
	if i < 0 || uint64(i) >= c.header.Count {
		return nil, fmt.Errorf("%w: instance %d of %d", kerrors.ErrInvalidInput, i, c.header.Count)
	}
	start := c.entry(i)
	end := c.entry(i + 1)
	if start > end || end > c.header.RecordBytes {
		return nil, kerrors.ErrCorruptedCorpus
	}
	inst, err := decodeRecord(c.data[c.recordRegionOffset+start : c.recordRegionOffset+end])
	if err != nil {
		return nil, fmt.Errorf("instance %d: %w", i, err)
	}
	return inst, nil
}

func (c *Corpus) entry(i int) uint64 {
	return binary.LittleEndian.Uint64(c.data[c.entryTableOffset+uint64(i)*entrySize:])
}

// All iterates over the instances in file order. Iteration stops at the
// first decoding error, which is yielded with a nil instance.
func (c *Corpus) All() iter.Seq2[*Instance, error] {
	return func(yield func(*Instance, error) bool) {
		for i := range c.Len() {
			inst, err := c.Instance(i)
			if !yield(inst, err) || err != nil {
				return
			}
		}
	}
}

// Instances decodes every instance.
func (c *Corpus) Instances() ([]*Instance, error) {
	out := make([]*Instance, 0, c.Len())
	for inst, err := range c.All() {
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, nil
}

// Verify checks the footer checksums of the entry table and the record
// region, and that the entry table is monotone.
func (c *Corpus) Verify() error {
	if c.closed.Load() {
		return kerrors.ErrCorpusClosed
	}
	ft, err := decodeCorpusFooter(c.data[c.footerOffset:])
	if err != nil {
		return err
	}
	if xxhash.Sum64(c.data[c.entryTableOffset:c.recordRegionOffset]) != ft.EntryTableHash {
		return kerrors.ErrChecksumFailed
	}
	if xxhash.Sum64(c.data[c.recordRegionOffset:c.footerOffset]) != ft.RecordRegionHash {
		return kerrors.ErrChecksumFailed
	}

	var prev uint64
	for i := 0; i <= c.Len(); i++ {
		off := c.entry(i)
		if off < prev || off > c.header.RecordBytes {
			return kerrors.ErrCorruptedCorpus
		}
		prev = off
	}
	if prev != c.header.RecordBytes {
		return kerrors.ErrCorruptedCorpus
	}
	return nil
}

// Close releases the memory map. Later calls are no-ops.
func (c *Corpus) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	if c.mmap != nil {
		return c.mmap.Unmap()
	}
	return nil
}
