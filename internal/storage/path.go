package storage

import (
	"path"
	"strings"
)

// ValidatePath rejects directory and file names that would escape their
// storage root. Directories may be nested with '/'.
func ValidatePath(dir, file string) error {
	if !validDir(dir) {
		return ErrInvalidPath.Msg("invalid directory " + dir)
	}
	if file != "" && (strings.ContainsAny(file, `/\`) || file == "." || file == "..") {
		return ErrInvalidPath.Msg("invalid file name " + file)
	}
	return nil
}

func validDir(dir string) bool {
	if dir == "" || strings.HasPrefix(dir, "/") || strings.Contains(dir, `\`) {
		return false
	}
	if path.Clean(dir) != dir {
		return false
	}
	for _, seg := range strings.Split(dir, "/") {
		if seg == ".." || seg == "." {
			return false
		}
	}
	return true
}
