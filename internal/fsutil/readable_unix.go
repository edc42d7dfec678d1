//go:build unix

package fsutil

import "golang.org/x/sys/unix"

// IsReadable reports whether the current process may read path.
func IsReadable(path string) bool {
	return unix.Access(path, unix.R_OK) == nil
}
