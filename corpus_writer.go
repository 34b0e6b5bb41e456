package knapsack

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/edsrzf/mmap-go"

	kerrors "github.com/tamirms/knapsack/errors"
)

// corpusWriter writes a corpus file through a read-write memory map.
// File layout: [Header 32B][Entry table (count+1)×8B][Record region][Footer 16B]
type corpusWriter struct {
	file *os.File
	mmap mmap.MMap
	data []byte

	entryTableOffset   uint64
	recordRegionOffset uint64
	footerOffset       uint64

	recordHasher *xxhash.Digest
	writeOffset  uint64 // next record position, relative to the record region
	count        uint64
}

// WriteCorpus writes insts to a new corpus file at path, replacing any
// existing file. Every instance is validated first; nothing is written if
// one is invalid.
func WriteCorpus(path string, insts []*Instance) error {
	var recordBytes uint64
	for i, inst := range insts {
		if inst == nil {
			return fmt.Errorf("%w: instance %d is nil", kerrors.ErrInvalidInput, i)
		}
		if inst.Len() > maxItems {
			return fmt.Errorf("%w: instance %d has %d items", kerrors.ErrInvalidInput, i, inst.Len())
		}
		if err := inst.Validate(); err != nil {
			return fmt.Errorf("instance %d: %w", i, err)
		}
		recordBytes += uint64(recordSize(inst.Len()))
	}

	cw, err := newCorpusWriter(path, uint64(len(insts)), recordBytes)
	if err != nil {
		return err
	}
	for _, inst := range insts {
		cw.writeRecord(inst)
	}
	return cw.finalize()
}

func newCorpusWriter(path string, count, recordBytes uint64) (*corpusWriter, error) {
	entryTableOffset := uint64(corpusHeaderSize)
	recordRegionOffset := entryTableOffset + (count+1)*entrySize
	footerOffset := recordRegionOffset + recordBytes
	size := footerOffset + corpusFooterSize

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create corpus file: %w", err)
	}

	// Pre-allocate disk blocks to prevent SIGBUS on disk full
	if err := fallocateFile(file, int64(size)); err != nil {
		primaryErr := fmt.Errorf("failed to allocate disk space: %w", err)
		return nil, errors.Join(primaryErr, file.Close())
	}

	mm, err := mmap.MapRegion(file, int(size), mmap.RDWR, 0, 0)
	if err != nil {
		primaryErr := fmt.Errorf("failed to mmap file: %w", err)
		return nil, errors.Join(primaryErr, file.Close())
	}

	cw := &corpusWriter{
		file:               file,
		mmap:               mm,
		data:               []byte(mm),
		entryTableOffset:   entryTableOffset,
		recordRegionOffset: recordRegionOffset,
		footerOffset:       footerOffset,
		recordHasher:       xxhash.New(),
	}
	prefaultRegion(cw.data[recordRegionOffset:footerOffset])

	hdr := corpusHeader{
		Magic:       corpusMagic,
		Version:     corpusVersion,
		Count:       count,
		RecordBytes: recordBytes,
	}
	hdr.encodeTo(cw.data[0:corpusHeaderSize])
	return cw, nil
}

// writeRecord appends one record and its entry-table offset.
func (cw *corpusWriter) writeRecord(inst *Instance) {
	binary.LittleEndian.PutUint64(cw.data[cw.entryTableOffset+cw.count*entrySize:], cw.writeOffset)

	start := cw.recordRegionOffset + cw.writeOffset
	end := start + uint64(recordSize(inst.Len()))
	if end > cw.footerOffset {
		panic("writeRecord: record exceeds record region")
	}
	rec := cw.data[start:end]
	encodeRecordTo(inst, rec)
	if _, err := cw.recordHasher.Write(rec); err != nil {
		panic("hash.Hash.Write returned unexpected error: " + err.Error())
	}
	cw.writeOffset += end - start
	cw.count++
}

// finalize writes the sentinel entry and footer, then flushes and closes.
// On error, delegates to close() for idempotent cleanup.
func (cw *corpusWriter) finalize() error {
	// Sentinel entry marks the end of the last record
	binary.LittleEndian.PutUint64(cw.data[cw.entryTableOffset+cw.count*entrySize:], cw.writeOffset)

	ftr := corpusFooter{
		EntryTableHash:   xxhash.Sum64(cw.data[cw.entryTableOffset:cw.recordRegionOffset]),
		RecordRegionHash: cw.recordHasher.Sum64(),
	}
	ftr.encodeTo(cw.data[cw.footerOffset:])

	if err := cw.mmap.Flush(); err != nil {
		primaryErr := fmt.Errorf("mmap flush failed: %w", err)
		return errors.Join(primaryErr, cw.close())
	}
	unmapErr := cw.mmap.Unmap()
	cw.mmap = nil
	if unmapErr != nil {
		primaryErr := fmt.Errorf("mmap unmap failed: %w", unmapErr)
		return errors.Join(primaryErr, cw.close())
	}

	closeErr := cw.file.Close()
	cw.file = nil
	return closeErr
}

// close releases the writer without finalizing. Idempotent.
func (cw *corpusWriter) close() error {
	var unmapErr error
	if cw.mmap != nil {
		unmapErr = cw.mmap.Unmap()
		cw.mmap = nil
	}
	var closeErr error
	if cw.file != nil {
		closeErr = cw.file.Close()
		cw.file = nil
	}
	return errors.Join(unmapErr, closeErr)
}
