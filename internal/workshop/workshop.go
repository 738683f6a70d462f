package workshop

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bonsaibauer/stronghold-map-unlocker/internal/mapfile"
)

// Candidate is a map file discovered in the workshop cache, prior to
// selection.
type Candidate struct {
	// SourcePath is the absolute path of the discovered map file.
	SourcePath string
	// DisplayName is the file name shown to the user.
	DisplayName string
	// Nested is true when the map was found one level below a workshop
	// item folder (<root>/<id>/<subId>/file.map).
	Nested bool
}

// Scan enumerates map files under the workshop root. Two layouts are
// supported: map files directly inside an item folder, and item folders
// that contain one further level of numbered subfolders. Map files sitting
// directly in the root are also included. Unreadable directories contribute
// zero candidates; the scan itself never fails, so re-scanning is safe and
// idempotent.
func Scan(root string) []Candidate {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}

	var found []Candidate

	// Maps directly in the root (flat layout without item folders).
	for _, entry := range entries {
		if entry.IsDir() || !IsMapFile(entry.Name()) {
			continue
		}
		found = append(found, Candidate{
			SourcePath:  filepath.Join(root, entry.Name()),
			DisplayName: entry.Name(),
		})
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		itemDir := filepath.Join(root, entry.Name())
		found = append(found, scanItem(itemDir)...)
	}

	sort.Slice(found, func(i, j int) bool {
		a := strings.ToLower(found[i].DisplayName)
		b := strings.ToLower(found[j].DisplayName)
		if a != b {
			return a < b
		}
		return found[i].SourcePath < found[j].SourcePath
	})

	return found
}

// scanItem looks inside a single workshop item folder. If the folder holds
// map files directly they win; otherwise exactly one more level of
// subfolders is searched. No deeper recursion is performed.
func scanItem(itemDir string) []Candidate {
	entries, err := os.ReadDir(itemDir)
	if err != nil {
		return nil
	}

	var found []Candidate
	for _, entry := range entries {
		if entry.IsDir() || !IsMapFile(entry.Name()) {
			continue
		}
		found = append(found, Candidate{
			SourcePath:  filepath.Join(itemDir, entry.Name()),
			DisplayName: entry.Name(),
		})
	}
	if len(found) > 0 {
		return found
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		subDir := filepath.Join(itemDir, entry.Name())
		leaves, err := os.ReadDir(subDir)
		if err != nil {
			continue
		}
		for _, leaf := range leaves {
			if leaf.IsDir() || !IsMapFile(leaf.Name()) {
				continue
			}
			found = append(found, Candidate{
				SourcePath:  filepath.Join(subDir, leaf.Name()),
				DisplayName: leaf.Name(),
				Nested:      true,
			})
		}
	}

	return found
}

// IsMapFile reports whether the file name carries the map extension.
func IsMapFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), mapfile.Ext)
}
