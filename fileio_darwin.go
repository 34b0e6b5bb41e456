//go:build darwin

package knapsack

import (
	"os"

	"golang.org/x/sys/unix"
)

// fallocateFile sizes a new corpus file and reserves its blocks with
// F_PREALLOCATE, so that stores through the memory map cannot SIGBUS on a
// full disk.
func fallocateFile(file *os.File, size int64) error {
	fst := unix.Fstore_t{
		Flags:   unix.F_ALLOCATEALL,
		Posmode: unix.F_PEOFPOSMODE,
		Length:  size,
	}
	// A failed reservation still leaves the file correctly sized below.
	_ = unix.FcntlFstore(file.Fd(), unix.F_PREALLOCATE, &fst)
	return unix.Ftruncate(int(file.Fd()), size)
}

func fadviseSequential(fd int, offset, length int64) {}

func prefaultRegion(data []byte) {}
