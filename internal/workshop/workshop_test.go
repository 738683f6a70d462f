package workshop

import (
	"path/filepath"
	"testing"

	testhelpers "github.com/bonsaibauer/stronghold-map-unlocker/testing"
)

// TestScan_FlatFolders verifies one candidate per map file in flat item folders
func TestScan_FlatFolders(t *testing.T) {
	root := t.TempDir()
	testhelpers.WriteMapFile(t, filepath.Join(root, "packA", "Castle1.map"), true)
	testhelpers.WriteMapFile(t, filepath.Join(root, "packA", "Castle2.map"), true)
	testhelpers.WriteMapFile(t, filepath.Join(root, "packB", "Desert.map"), true)
	testhelpers.WriteFile(t, filepath.Join(root, "packA", "readme.txt"), []byte("not a map"))

	got := Scan(root)

	if len(got) != 3 {
		t.Fatalf("Scan() returned %d candidates, want 3", len(got))
	}
	seen := make(map[string]bool)
	for _, c := range got {
		if seen[c.SourcePath] {
			t.Errorf("duplicate candidate: %s", c.SourcePath)
		}
		seen[c.SourcePath] = true
		if c.Nested {
			t.Errorf("flat candidate %s marked nested", c.DisplayName)
		}
	}
}

// TestScan_NestedFolders verifies descent into numbered subfolders
func TestScan_NestedFolders(t *testing.T) {
	root := t.TempDir()
	testhelpers.WriteMapFile(t, filepath.Join(root, "3024040", "12345", "Castle1.map"), true)
	testhelpers.WriteMapFile(t, filepath.Join(root, "3024040", "67890", "Desert.map"), true)

	got := Scan(root)

	if len(got) != 2 {
		t.Fatalf("Scan() returned %d candidates, want 2", len(got))
	}
	for _, c := range got {
		if !c.Nested {
			t.Errorf("nested candidate %s not marked nested", c.DisplayName)
		}
	}
}

// TestScan_RootLevelMaps verifies maps directly in the root are included
func TestScan_RootLevelMaps(t *testing.T) {
	root := t.TempDir()
	testhelpers.WriteMapFile(t, filepath.Join(root, "Loose.map"), true)
	testhelpers.WriteMapFile(t, filepath.Join(root, "12345", "Nested.map"), true)

	got := Scan(root)

	if len(got) != 2 {
		t.Fatalf("Scan() returned %d candidates, want 2", len(got))
	}
}

// TestScan_NoDeepRecursion verifies maps more than two levels down are ignored
func TestScan_NoDeepRecursion(t *testing.T) {
	root := t.TempDir()
	testhelpers.WriteMapFile(t, filepath.Join(root, "a", "b", "c", "TooDeep.map"), true)

	if got := Scan(root); len(got) != 0 {
		t.Errorf("Scan() returned %d candidates, want 0 for a three-level map", len(got))
	}
}

// TestScan_FlatWinsOverNested verifies an item folder with maps directly
// inside is not descended further
func TestScan_FlatWinsOverNested(t *testing.T) {
	root := t.TempDir()
	testhelpers.WriteMapFile(t, filepath.Join(root, "item", "Top.map"), true)
	testhelpers.WriteMapFile(t, filepath.Join(root, "item", "sub", "Below.map"), true)

	got := Scan(root)

	if len(got) != 1 {
		t.Fatalf("Scan() returned %d candidates, want 1", len(got))
	}
	if got[0].DisplayName != "Top.map" {
		t.Errorf("Scan() found %s, want Top.map", got[0].DisplayName)
	}
}

// TestScan_MissingRoot verifies an unreadable root yields zero candidates
func TestScan_MissingRoot(t *testing.T) {
	if got := Scan(filepath.Join(t.TempDir(), "nope")); len(got) != 0 {
		t.Errorf("Scan() returned %d candidates for missing root, want 0", len(got))
	}
}

// TestScan_Sorted verifies results come back ordered by display name
func TestScan_Sorted(t *testing.T) {
	root := t.TempDir()
	testhelpers.WriteMapFile(t, filepath.Join(root, "1", "zebra.map"), true)
	testhelpers.WriteMapFile(t, filepath.Join(root, "2", "Alpha.map"), true)
	testhelpers.WriteMapFile(t, filepath.Join(root, "3", "middle.map"), true)

	got := Scan(root)

	want := []string{"Alpha.map", "middle.map", "zebra.map"}
	if len(got) != len(want) {
		t.Fatalf("Scan() returned %d candidates, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].DisplayName != name {
			t.Errorf("Scan()[%d] = %s, want %s", i, got[i].DisplayName, name)
		}
	}
}

// TestScan_Idempotent verifies re-scanning yields the same results
func TestScan_Idempotent(t *testing.T) {
	root := t.TempDir()
	testhelpers.WriteMapFile(t, filepath.Join(root, "12345", "Castle1.map"), true)

	first := Scan(root)
	second := Scan(root)

	if len(first) != len(second) {
		t.Fatalf("re-scan returned %d candidates, want %d", len(second), len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("re-scan candidate %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

// TestIsMapFile tests extension matching
func TestIsMapFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{name: "Castle1.map", want: true},
		{name: "CASTLE.MAP", want: true},
		{name: "readme.txt", want: false},
		{name: "map", want: false},
		{name: "trick.map.txt", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMapFile(tt.name); got != tt.want {
				t.Errorf("IsMapFile(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}
