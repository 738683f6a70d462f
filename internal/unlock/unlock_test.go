package unlock

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/bonsaibauer/stronghold-map-unlocker/internal/workshop"
	testhelpers "github.com/bonsaibauer/stronghold-map-unlocker/testing"
)

func lockedCandidate(t *testing.T, root, name string) workshop.Candidate {
	t.Helper()
	path := filepath.Join(root, "12345", name)
	testhelpers.WriteMapFile(t, path, true)
	return workshop.Candidate{SourcePath: path, DisplayName: name, Nested: true}
}

// TestDestName tests the destination naming scheme
func TestDestName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "Castle1.map", want: "Castle1 [unlocked].map"},
		{name: "My Map.map", want: "My Map [unlocked].map"},
		{name: "noext", want: "noext [unlocked].map"},
		{name: "dots.in.name.map", want: "dots.in.name [unlocked].map"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DestName(tt.name); got != tt.want {
				t.Errorf("DestName(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

// TestOne_UnlocksCopy covers the main scenario: a locked workshop map is
// copied, renamed and patched while the source stays untouched
func TestOne_UnlocksCopy(t *testing.T) {
	root := testhelpers.TempDir(t)
	dest := filepath.Join(testhelpers.TempDir(t), "Maps")
	c := lockedCandidate(t, root, "Castle1.map")
	source := testhelpers.ReadFile(t, c.SourcePath)

	res := One(c, Options{DestDir: dest})

	if !res.Succeeded {
		t.Fatalf("One() failed: %v", res.Err)
	}
	if !res.FlagCleared {
		t.Error("One() did not clear the lock flag")
	}
	wantDest := filepath.Join(dest, "Castle1 [unlocked].map")
	if res.DestPath != wantDest {
		t.Errorf("DestPath = %s, want %s", res.DestPath, wantDest)
	}
	testhelpers.AssertFileExists(t, wantDest)

	// Source must be byte-identical to before
	testhelpers.AssertFileBytes(t, c.SourcePath, source)

	// Copy differs from source only in the lock byte
	copied := testhelpers.ReadFile(t, wantDest)
	if len(copied) != len(source) {
		t.Fatalf("copy length = %d, want %d", len(copied), len(source))
	}
	expected := append([]byte(nil), source...)
	expected[testhelpers.FixtureLockOffset] = 0x00
	if !bytes.Equal(copied, expected) {
		t.Error("copy differs from source outside the lock flag")
	}
}

// TestOne_DestExists verifies the collision behavior without overwrite
func TestOne_DestExists(t *testing.T) {
	root := testhelpers.TempDir(t)
	dest := testhelpers.TempDir(t)
	c := lockedCandidate(t, root, "Castle1.map")
	source := testhelpers.ReadFile(t, c.SourcePath)

	existing := filepath.Join(dest, "Castle1 [unlocked].map")
	testhelpers.WriteFile(t, existing, []byte("keep me"))

	res := One(c, Options{DestDir: dest})

	if res.Succeeded {
		t.Error("One() succeeded, want failure on existing destination")
	}
	if !errors.Is(res.Err, ErrDestExists) {
		t.Errorf("Err = %v, want ErrDestExists", res.Err)
	}
	testhelpers.AssertFileBytes(t, existing, []byte("keep me"))
	testhelpers.AssertFileBytes(t, c.SourcePath, source)
}

// TestOne_Overwrite verifies an existing destination is replaced on request
func TestOne_Overwrite(t *testing.T) {
	root := testhelpers.TempDir(t)
	dest := testhelpers.TempDir(t)
	c := lockedCandidate(t, root, "Castle1.map")

	existing := filepath.Join(dest, "Castle1 [unlocked].map")
	testhelpers.WriteFile(t, existing, []byte("stale"))

	res := One(c, Options{DestDir: dest, Overwrite: true})

	if !res.Succeeded {
		t.Fatalf("One() failed: %v", res.Err)
	}
	if !res.FlagCleared {
		t.Error("One() did not clear the lock flag on the overwritten copy")
	}
}

// TestOne_AlreadyUnlocked verifies re-unlocking warns and keeps bytes identical
func TestOne_AlreadyUnlocked(t *testing.T) {
	root := testhelpers.TempDir(t)
	dest := testhelpers.TempDir(t)
	path := filepath.Join(root, "12345", "Open.map")
	testhelpers.WriteMapFile(t, path, false)
	c := workshop.Candidate{SourcePath: path, DisplayName: "Open.map", Nested: true}

	res := One(c, Options{DestDir: dest})

	if !res.Succeeded {
		t.Fatalf("One() failed: %v", res.Err)
	}
	if res.FlagCleared {
		t.Error("FlagCleared = true, want false for already unlocked map")
	}
	if res.Warning == "" {
		t.Error("expected a warning for already unlocked map")
	}
	testhelpers.AssertFileBytes(t, res.DestPath, testhelpers.ReadFile(t, path))
}

// TestOne_NoLockFlag verifies an unrecognized format copies with a warning
func TestOne_NoLockFlag(t *testing.T) {
	root := testhelpers.TempDir(t)
	dest := testhelpers.TempDir(t)
	path := filepath.Join(root, "odd", "Strange.map")
	testhelpers.WriteFile(t, path, []byte{0x01, 0x02})
	c := workshop.Candidate{SourcePath: path, DisplayName: "Strange.map"}

	res := One(c, Options{DestDir: dest})

	if !res.Succeeded {
		t.Fatalf("One() failed: %v", res.Err)
	}
	if res.Warning == "" {
		t.Error("expected a warning when the lock flag is missing")
	}
	testhelpers.AssertFileBytes(t, res.DestPath, []byte{0x01, 0x02})
}

// TestOne_MissingSource verifies the per-item error path
func TestOne_MissingSource(t *testing.T) {
	dest := testhelpers.TempDir(t)
	c := workshop.Candidate{
		SourcePath:  filepath.Join(testhelpers.TempDir(t), "gone.map"),
		DisplayName: "gone.map",
	}

	res := One(c, Options{DestDir: dest})

	if res.Succeeded {
		t.Error("One() succeeded, want failure for missing source")
	}
	testhelpers.AssertError(t, res.Err, "missing source")
	testhelpers.AssertFileNotExists(t, res.DestPath)
}

// TestRun_BestEffort verifies a failing candidate does not halt the batch
func TestRun_BestEffort(t *testing.T) {
	root := testhelpers.TempDir(t)
	dest := testhelpers.TempDir(t)

	good1 := lockedCandidate(t, root, "First.map")
	bad := workshop.Candidate{
		SourcePath:  filepath.Join(root, "12345", "missing.map"),
		DisplayName: "missing.map",
	}
	good2 := lockedCandidate(t, root, "Last.map")

	results := Run([]workshop.Candidate{good1, bad, good2}, Options{DestDir: dest}, nil)

	if len(results) != 3 {
		t.Fatalf("Run() returned %d results, want 3", len(results))
	}
	ok, total := Summarize(results)
	if ok != 2 || total != 3 {
		t.Errorf("Summarize() = (%d, %d), want (2, 3)", ok, total)
	}
	if results[1].Err == nil {
		t.Error("middle candidate should have failed")
	}
	testhelpers.AssertFileExists(t, results[2].DestPath)
}

// TestRun_StopsEarly verifies the stop check halts between items
func TestRun_StopsEarly(t *testing.T) {
	root := testhelpers.TempDir(t)
	dest := testhelpers.TempDir(t)
	candidates := []workshop.Candidate{
		lockedCandidate(t, root, "One.map"),
		lockedCandidate(t, root, "Two.map"),
		lockedCandidate(t, root, "Three.map"),
	}

	processed := 0
	results := Run(candidates, Options{DestDir: dest}, func() bool {
		processed++
		return processed > 2
	})

	if len(results) != 2 {
		t.Errorf("Run() returned %d results, want 2 after early stop", len(results))
	}
}
