//go:build !unix

package fsutil

import "os"

// IsReadable reports whether path exists and can be opened for reading.
func IsReadable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}
