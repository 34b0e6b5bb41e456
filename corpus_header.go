package knapsack

import (
	"encoding/binary"

	kerrors "github.com/tamirms/knapsack/errors"
)

const (
	// corpusMagic is "KNPC" in little-endian.
	corpusMagic = uint32(0x43504E4B)

	corpusVersion = uint16(0x0001)

	corpusHeaderSize = 32
	corpusFooterSize = 16

	// entrySize is the size of one entry-table offset.
	entrySize = 8

	// recordHeaderSize covers the item count and the capacity of a record.
	recordHeaderSize = 4 + 8

	// itemSize covers one profit/weight pair.
	itemSize = 16

	// maxItems bounds the item count of a single instance.
	maxItems = 1 << 28

	minCorpusSize = corpusHeaderSize + entrySize + corpusFooterSize
)

// corpusHeader is the 32-byte corpus file header.
//
// Layout:
//
//	Offset  Size  Field        Type
//	0       4     Magic        0x43504E4B ("KNPC")
//	4       2     Version      0x0001
//	6       8     Count        uint64_le (number of instances)
//	14      8     RecordBytes  uint64_le (size of the record region)
//	22      10    Reserved     [10]byte (zero)
type corpusHeader struct {
	Magic       uint32
	Version     uint16
	Count       uint64
	RecordBytes uint64
	Reserved    [10]byte
}

func (h *corpusHeader) encodeTo(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], h.Magic)
	binary.LittleEndian.PutUint16(buf[4:6], h.Version)
	binary.LittleEndian.PutUint64(buf[6:14], h.Count)
	binary.LittleEndian.PutUint64(buf[14:22], h.RecordBytes)
	copy(buf[22:32], h.Reserved[:])
}

func decodeCorpusHeader(buf []byte) (*corpusHeader, error) {
	if len(buf) < corpusHeaderSize {
		return nil, kerrors.ErrTruncatedFile
	}
	h := &corpusHeader{
		Magic:       binary.LittleEndian.Uint32(buf[0:4]),
		Version:     binary.LittleEndian.Uint16(buf[4:6]),
		Count:       binary.LittleEndian.Uint64(buf[6:14]),
		RecordBytes: binary.LittleEndian.Uint64(buf[14:22]),
	}
	copy(h.Reserved[:], buf[22:32])

	if h.Magic != corpusMagic {
		return nil, kerrors.ErrInvalidMagic
	}
	if h.Version != corpusVersion {
		return nil, kerrors.ErrInvalidVersion
	}
	return h, nil
}

// corpusFooter is the 16-byte corpus file footer.
//
// Layout:
//
//	Offset  Size  Field            Type
//	0       8     EntryTableHash   uint64_le (xxHash64 of the entry table)
//	8       8     RecordRegionHash uint64_le (xxHash64 of the record region)
type corpusFooter struct {
	EntryTableHash   uint64
	RecordRegionHash uint64
}

func (f *corpusFooter) encodeTo(buf []byte) {
	binary.LittleEndian.PutUint64(buf[0:8], f.EntryTableHash)
	binary.LittleEndian.PutUint64(buf[8:16], f.RecordRegionHash)
}

func decodeCorpusFooter(buf []byte) (*corpusFooter, error) {
	if len(buf) < corpusFooterSize {
		return nil, kerrors.ErrTruncatedFile
	}
	return &corpusFooter{
		EntryTableHash:   binary.LittleEndian.Uint64(buf[0:8]),
		RecordRegionHash: binary.LittleEndian.Uint64(buf[8:16]),
	}, nil
}

// recordSize returns the encoded size of an instance with n items.
//
// Record layout:
//
//	Offset  Size  Field     Type
//	0       4     N         uint32_le
//	4       8     Capacity  int64_le
//	12      16*N  Items     (profit int64_le, weight int64_le) pairs
func recordSize(n int) int {
	return recordHeaderSize + n*itemSize
}

// encodeRecordTo writes inst into buf, which must hold recordSize(inst.Len()) bytes.
func encodeRecordTo(inst *Instance, buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], uint32(inst.Len()))
	binary.LittleEndian.PutUint64(buf[4:12], uint64(inst.Capacity))
	off := recordHeaderSize
	for i := range inst.Profits {
		binary.LittleEndian.PutUint64(buf[off:], uint64(inst.Profits[i]))
		binary.LittleEndian.PutUint64(buf[off+8:], uint64(inst.Weights[i]))
		off += itemSize
	}
}

// decodeRecord parses a record occupying all of buf.
func decodeRecord(buf []byte) (*Instance, error) {
	if len(buf) < recordHeaderSize {
		return nil, kerrors.ErrCorruptedCorpus
	}
	n := binary.LittleEndian.Uint32(buf[0:4])
	if n > maxItems || uint64(len(buf)) != uint64(recordSize(int(n))) {
		return nil, kerrors.ErrCorruptedCorpus
	}
	inst := &Instance{
		Profits:  make([]int64, n),
		Weights:  make([]int64, n),
		Capacity: int64(binary.LittleEndian.Uint64(buf[4:12])),
	}
	off := recordHeaderSize
	for i := range inst.Profits {
		inst.Profits[i] = int64(binary.LittleEndian.Uint64(buf[off:]))
		inst.Weights[i] = int64(binary.LittleEndian.Uint64(buf[off+8:]))
		off += itemSize
	}
	return inst, nil
}
