// Package file provides file system helpers for the CLI.
package file

import "os"

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
