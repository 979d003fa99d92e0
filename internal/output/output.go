// Package output writes the generated page to its destination.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileMode is the permission of written pages; they are published as-is.
const FileMode os.FileMode = 0o644

// Write writes data to path, or to stdout when path is empty.
// Parent directories are created as needed and an existing file is
// truncated.
func Write(path string, stdout io.Writer, data []byte) (err error) {
	if path == "" {
		if _, err := stdout.Write(data); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
		return nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, FileMode) //nolint:gosec // path given on the command line
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", closeErr)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
