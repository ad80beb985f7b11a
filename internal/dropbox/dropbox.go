// Package dropbox deals with the IFS folder tree the loader picks uploaded
// workbooks up from. Each load id owns one subfolder under the dropbox root.
package dropbox

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanFolders returns the sorted list of load folders under the dropbox
// root. Used as the /api/loads fallback when the store is unreachable.
func ScanFolders(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("cannot scan dropbox root %s: %w", root, err)
	}
	var folders []string
	for _, e := range entries {
		if e.IsDir() {
			folders = append(folders, e.Name())
		}
	}
	sort.Strings(folders)
	return folders, nil
}

// ResolveFolder picks the destination folder for an uploaded workbook.
// An explicit load id wins (the folder is created if missing); otherwise a
// `LOADID_description.xlsx` filename prefix is matched against existing
// folders; otherwise the fallback folder is used.
func ResolveFolder(root, fallback, loadID, filename string) string {
	if loadID != "" {
		path := filepath.Join(root, strings.ToUpper(strings.TrimSpace(loadID)))
		if _, err := os.Stat(path); err == nil {
			return path
		}
		if err := os.MkdirAll(path, 0755); err == nil {
			log.Printf("Created dropbox folder: %s", path)
			return path
		} else {
			log.Printf("Cannot create dropbox folder %s: %v", path, err)
		}
	}

	if filename != "" {
		if prefix, _, found := strings.Cut(filename, "_"); found && prefix != "" {
			path := filepath.Join(root, strings.ToUpper(prefix))
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				log.Printf("Detected load id '%s' from filename", strings.ToUpper(prefix))
				return path
			}
		}
	}

	log.Printf("Using fallback dropbox folder: %s", fallback)
	return fallback
}
