//go:build linux

package knapsack

import (
	"os"

	"golang.org/x/sys/unix"
)

// madvPopulateWrite is MADV_POPULATE_WRITE (Linux 5.14+). Older kernels
// reject it with EINVAL.
const madvPopulateWrite = 23

// fallocateFile sizes a new corpus file and reserves its blocks, so that
// stores through the memory map cannot SIGBUS on a full disk.
func fallocateFile(file *os.File, size int64) error {
	fd := int(file.Fd())
	// Filesystems without fallocate (NFS, some FUSE mounts) still get the size.
	_ = unix.Fallocate(fd, 0, 0, size)
	return unix.Ftruncate(fd, size)
}

// fadviseSequential tells the kernel a corpus will be read front to back.
// Failures are ignored.
func fadviseSequential(fd int, offset, length int64) {
	_ = unix.Fadvise(fd, offset, length, unix.FADV_SEQUENTIAL)
}

// prefaultRegion populates writable pages of the record region up front.
// Failures are ignored.
func prefaultRegion(data []byte) {
	if len(data) == 0 {
		return
	}
	_ = unix.Madvise(data, madvPopulateWrite)
}
