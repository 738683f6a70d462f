package integration

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/bonsaibauer/stronghold-map-unlocker/internal/mapfile"
	testhelpers "github.com/bonsaibauer/stronghold-map-unlocker/testing"
)

// TestEnvironment represents a complete test environment with a workshop
// cache and a game maps folder
type TestEnvironment struct {
	T        *testing.T
	Workshop string
	MapsDir  string
}

// SetupTestEnvironment creates a complete test environment
func SetupTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	baseDir := t.TempDir()
	workshop := filepath.Join(baseDir, "workshop", "content", "3024040")
	mapsDir := filepath.Join(baseDir, "Maps")

	if err := os.MkdirAll(workshop, 0755); err != nil {
		t.Fatalf("failed to create workshop dir: %v", err)
	}

	return &TestEnvironment{
		T:        t,
		Workshop: workshop,
		MapsDir:  mapsDir,
	}
}

// AddWorkshopMap places a map file inside a workshop item folder and returns
// its full path. locked controls the lock flag state.
func (e *TestEnvironment) AddWorkshopMap(itemID, name string, locked bool) string {
	e.T.Helper()

	path := filepath.Join(e.Workshop, itemID, name)
	testhelpers.WriteMapFile(e.T, path, locked)
	return path
}

// AddNestedWorkshopMap places a map file one folder below a workshop item
// folder, the layout Steam uses for some items.
func (e *TestEnvironment) AddNestedWorkshopMap(itemID, subdir, name string, locked bool) string {
	e.T.Helper()

	path := filepath.Join(e.Workshop, itemID, subdir, name)
	testhelpers.WriteMapFile(e.T, path, locked)
	return path
}

// AddWorkshopFile places an arbitrary non-map file inside an item folder.
func (e *TestEnvironment) AddWorkshopFile(itemID, name, content string) string {
	e.T.Helper()

	path := filepath.Join(e.Workshop, itemID, name)
	testhelpers.WriteFile(e.T, path, []byte(content))
	return path
}

// DestPath returns the path a map would be unlocked to.
func (e *TestEnvironment) DestPath(name string) string {
	return filepath.Join(e.MapsDir, name)
}

// AssertUnlocked asserts that the file at path exists and its lock flag is
// cleared
func (e *TestEnvironment) AssertUnlocked(path string) {
	e.T.Helper()

	locked, err := mapfile.IsLocked(path)
	if err != nil {
		e.T.Fatalf("failed to inspect %s: %v", path, err)
	}
	if locked {
		e.T.Errorf("file should be unlocked: %s", path)
	}
}

// AssertLocked asserts that the file at path exists and its lock flag is set
func (e *TestEnvironment) AssertLocked(path string) {
	e.T.Helper()

	locked, err := mapfile.IsLocked(path)
	if err != nil {
		e.T.Fatalf("failed to inspect %s: %v", path, err)
	}
	if !locked {
		e.T.Errorf("file should be locked: %s", path)
	}
}

// AssertFileExists asserts that a file exists
func (e *TestEnvironment) AssertFileExists(path string) {
	e.T.Helper()

	if _, err := os.Stat(path); err != nil {
		e.T.Errorf("file should exist: %s", path)
	}
}

// AssertFileNotExists asserts that a file does not exist
func (e *TestEnvironment) AssertFileNotExists(path string) {
	e.T.Helper()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		e.T.Errorf("file should not exist: %s", path)
	}
}

// CountMapsIn returns how many map files sit directly in dir.
func (e *TestEnvironment) CountMapsIn(dir string) int {
	e.T.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0
		}
		e.T.Fatalf("failed to read %s: %v", dir, err)
	}

	count := 0
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == mapfile.Ext {
			count++
		}
	}
	return count
}

// ItemID generates a workshop item folder name from an index.
func ItemID(i int) string {
	return fmt.Sprintf("%d", 3000000000+i)
}
