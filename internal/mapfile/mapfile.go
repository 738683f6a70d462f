package mapfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// Ext is the map file extension recognized by the game.
const Ext = ".map"

// Lock flag layout for Stronghold Crusader DE map files. The offsets are
// fixed per game version and must be revised if the format changes.
const (
	// sectionOffsetField holds A, the uint16 LE offset of the section table.
	sectionOffsetField = 0x04
	// sectionSizeSkew: B is the uint16 LE read at A+0x08.
	sectionSizeSkew = 0x08
	// baseSkew: the lock region starts at A + 0x3C + B.
	baseSkew = 0x3C
	// lockByteSkew: the lock byte sits at base + 0x08.
	lockByteSkew = 0x08

	// Unlocked is the lock byte value the game treats as playable.
	Unlocked = 0x00
)

// ErrNoLockFlag indicates the lock flag could not be located, either because
// the file is too short to contain the header fields or the computed offset
// falls outside the file. Callers should treat this as informational, not
// fatal: the map may simply use an unrecognized format.
var ErrNoLockFlag = errors.New("lock flag not found")

func readU16LE(r io.ReaderAt, off int64) (uint16, error) {
	var buf [2]byte
	if _, err := r.ReadAt(buf[:], off); err != nil {
		return 0, fmt.Errorf("%w: unexpected end of file at 0x%X", ErrNoLockFlag, off)
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

// lockOffset computes the lock byte offset within an open map file and
// verifies the byte actually exists.
func lockOffset(f *os.File) (int64, error) {
	a, err := readU16LE(f, sectionOffsetField)
	if err != nil {
		return 0, err
	}

	b, err := readU16LE(f, int64(a)+sectionSizeSkew)
	if err != nil {
		return 0, err
	}

	base := int64(a) + baseSkew + int64(b)
	off := base + lockByteSkew

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat map file: %w", err)
	}
	if off >= info.Size() {
		return 0, fmt.Errorf("%w: lock byte offset 0x%X beyond file end", ErrNoLockFlag, off)
	}

	return off, nil
}

// LockOffset returns the byte offset of the lock flag within the map file.
func LockOffset(path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open map file: %w", err)
	}
	defer f.Close()

	return lockOffset(f)
}

// IsLocked reports whether the map file carries a set lock flag.
// Returns ErrNoLockFlag if the flag cannot be located.
func IsLocked(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("failed to open map file: %w", err)
	}
	defer f.Close()

	off, err := lockOffset(f)
	if err != nil {
		return false, err
	}

	var buf [1]byte
	if _, err := f.ReadAt(buf[:], off); err != nil {
		return false, fmt.Errorf("failed to read lock byte at 0x%X: %w", off, err)
	}

	return buf[0] != Unlocked, nil
}

// ClearLock rewrites the lock flag in place to the unlocked value and
// verifies the write. Returns cleared=false without touching the file when
// the flag is already clear, so re-running on an unlocked map leaves it
// byte-identical. Returns ErrNoLockFlag when the flag cannot be located.
func ClearLock(path string) (cleared bool, err error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return false, fmt.Errorf("failed to open map file: %w", err)
	}
	defer f.Close()

	off, err := lockOffset(f)
	if err != nil {
		return false, err
	}

	var buf [1]byte
	if _, err := f.ReadAt(buf[:], off); err != nil {
		return false, fmt.Errorf("failed to read lock byte at 0x%X: %w", off, err)
	}

	if buf[0] == Unlocked {
		return false, nil
	}

	buf[0] = Unlocked
	if _, err := f.WriteAt(buf[:], off); err != nil {
		return false, fmt.Errorf("failed to write lock byte at 0x%X: %w", off, err)
	}

	// Read back to confirm the patch landed.
	if _, err := f.ReadAt(buf[:], off); err != nil {
		return false, fmt.Errorf("failed to verify lock byte at 0x%X: %w", off, err)
	}
	if buf[0] != Unlocked {
		return false, fmt.Errorf("lock byte at 0x%X did not take new value", off)
	}

	return true, nil
}
