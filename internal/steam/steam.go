package steam

import (
	"os"
	"path/filepath"

	"github.com/bonsaibauer/stronghold-map-unlocker/internal/workshop"
)

// WorkshopAppID is the Steam app ID of Stronghold Crusader Definitive
// Edition, used to locate its workshop content folder.
const WorkshopAppID = "3024040"

// WorkshopCandidates returns the known workshop cache locations to probe,
// derived from the standard Steam install directories.
func WorkshopCandidates() []string {
	var roots []string
	for _, env := range []string{"ProgramFiles(x86)", "ProgramFiles"} {
		if base := os.Getenv(env); base != "" {
			roots = append(roots, base)
		}
	}
	if len(roots) == 0 {
		roots = []string{`C:\Program Files (x86)`, `C:\Program Files`}
	}

	candidates := make([]string, 0, len(roots))
	for _, root := range roots {
		candidates = append(candidates, filepath.Join(root, "Steam", "steamapps", "workshop", "content", WorkshopAppID))
	}
	return candidates
}

// Detect probes the given candidate paths and returns the best workshop
// root: the first one that actually contains maps, falling back to the
// first one that merely exists. hasMaps reports whether maps were found in
// the returned path. An empty path means nothing usable was detected.
func Detect(candidates []string) (path string, hasMaps bool) {
	var firstExisting string
	for _, cand := range candidates {
		info, err := os.Stat(cand)
		if err != nil || !info.IsDir() {
			continue
		}
		if firstExisting == "" {
			firstExisting = cand
		}
		if len(workshop.Scan(cand)) > 0 {
			return cand, true
		}
	}
	return firstExisting, false
}

// DetectWorkshop probes the standard Steam locations.
func DetectWorkshop() (path string, hasMaps bool) {
	return Detect(WorkshopCandidates())
}

// DefaultMapsDir returns the game's per-user maps directory, where unlocked
// copies must land for the game to pick them up.
func DefaultMapsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, "AppData", "LocalLow", "Firefly Studios", "Stronghold Crusader Definitive Edition", "Maps")
}
