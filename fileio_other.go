//go:build !linux && !darwin

package knapsack

import "os"

// fallocateFile only sets the file size; blocks may be allocated lazily.
func fallocateFile(file *os.File, size int64) error {
	return file.Truncate(size)
}

func fadviseSequential(fd int, offset, length int64) {}

func prefaultRegion(data []byte) {}
