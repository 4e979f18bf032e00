// Package fileutil writes output files that may contain sensitive data.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// OwnerReadWrite is the file permission mode for collected configuration
// files, which can carry credentials and addresses (owner read/write only).
const OwnerReadWrite os.FileMode = 0o600

// RejectSymlink returns an error if path exists and is a symlink.
// A missing file is fine.
func RejectSymlink(path string) error {
	info, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("fileutil: checking output path: %w", err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("fileutil: refusing to write to symlink: %s", path)
	}
	return nil
}

// WriteOwnerOnly writes data to path with OwnerReadWrite permissions.
// Symlinks are refused and an existing file is tightened to OwnerReadWrite.
func WriteOwnerOnly(path string, data []byte) error {
	cleaned := filepath.Clean(path)
	if err := RejectSymlink(cleaned); err != nil {
		return err
	}
	if err := os.WriteFile(cleaned, data, OwnerReadWrite); err != nil {
		return fmt.Errorf("fileutil: writing %s: %w", cleaned, err)
	}
	// WriteFile keeps the mode of a file that already exists.
	if err := os.Chmod(cleaned, OwnerReadWrite); err != nil {
		return fmt.Errorf("fileutil: setting permissions on %s: %w", cleaned, err)
	}
	return nil
}
