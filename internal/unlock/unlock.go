package unlock

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bonsaibauer/stronghold-map-unlocker/internal/mapfile"
	"github.com/bonsaibauer/stronghold-map-unlocker/internal/workshop"
)

// NameSuffix is inserted before the extension of every unlocked copy so the
// original and the copy can coexist in the same folder.
const NameSuffix = " [unlocked]"

// ErrDestExists is returned when the destination file already exists and
// overwriting was not requested.
var ErrDestExists = errors.New("destination file already exists")

// Options controls how candidates are processed.
type Options struct {
	// DestDir is the directory unlocked copies are written to. It is
	// created if missing.
	DestDir string
	// Overwrite allows replacing an existing destination file.
	Overwrite bool
}

// Result reports the outcome for a single candidate. A Warning is
// informational (for example the lock flag was not found); Succeeded stays
// true in that case.
type Result struct {
	Candidate   workshop.Candidate
	DestPath    string
	Succeeded   bool
	FlagCleared bool
	Warning     string
	Err         error
}

// DestName derives the output file name: the stem of name with NameSuffix
// inserted before the extension.
func DestName(name string) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if ext == "" {
		ext = mapfile.Ext
	}
	return stem + NameSuffix + ext
}

// One copies a single candidate into the destination directory and clears
// the lock flag on the copy. The source file is never modified. Failures
// are captured in the returned Result rather than aborting.
func One(c workshop.Candidate, opts Options) Result {
	res := Result{
		Candidate: c,
		DestPath:  filepath.Join(opts.DestDir, DestName(c.DisplayName)),
	}

	if err := copyFile(c.SourcePath, res.DestPath, opts.Overwrite); err != nil {
		res.Err = err
		return res
	}

	cleared, err := mapfile.ClearLock(res.DestPath)
	switch {
	case errors.Is(err, mapfile.ErrNoLockFlag):
		res.Warning = "lock flag not found; copied unchanged"
	case err != nil:
		res.Err = err
		return res
	case !cleared:
		res.Warning = "map was already unlocked"
	default:
		res.FlagCleared = true
	}

	res.Succeeded = true
	return res
}

// Run processes candidates strictly one after another, so no two writers
// ever touch the destination directory at the same time. Each candidate's
// failure is captured in its own Result and never halts the batch. An
// optional stop check is consulted between items to allow early exit.
func Run(candidates []workshop.Candidate, opts Options, stop func() bool) []Result {
	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		if stop != nil && stop() {
			break
		}
		results = append(results, One(c, opts))
	}
	return results
}

// Summarize counts successful results in a batch.
func Summarize(results []Result) (ok, total int) {
	for _, r := range results {
		if r.Succeeded {
			ok++
		}
	}
	return ok, len(results)
}

// copyFile copies src to dst byte for byte. Unless overwrite is set, an
// existing destination is reported via ErrDestExists and left untouched.
func copyFile(src, dst string, overwrite bool) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	out, err := os.OpenFile(dst, flags, 0644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w: %s", ErrDestExists, dst)
		}
		return fmt.Errorf("failed to create destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy map data: %w", err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to finish destination write: %w", err)
	}

	return nil
}
