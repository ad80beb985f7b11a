package dropbox

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidateRoot checks that the dropbox root is a writable directory,
// creating it when missing. Run once at startup so a misconfigured root
// fails loudly instead of surfacing as per-upload errors.
func ValidateRoot(root string) error {
	if root == "" {
		return fmt.Errorf("dropbox root cannot be empty")
	}
	if strings.Contains(root, "..") {
		return fmt.Errorf("dropbox root contains directory traversal")
	}

	clean := filepath.Clean(root)
	info, err := os.Stat(clean)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("cannot access dropbox root: %w", err)
		}
		if err := os.MkdirAll(clean, 0755); err != nil {
			return fmt.Errorf("cannot create dropbox root: %w", err)
		}
		return checkWritable(clean)
	}
	if !info.IsDir() {
		return fmt.Errorf("dropbox root exists but is not a directory: %s", clean)
	}
	return checkWritable(clean)
}

// checkWritable probes for write permission by creating and removing a
// marker file.
func checkWritable(dir string) error {
	marker := filepath.Join(dir, ".sltk_write_check")
	f, err := os.Create(marker)
	if err != nil {
		return fmt.Errorf("no write permission for dropbox root: %w", err)
	}
	f.Close()
	os.Remove(marker)
	return nil
}
