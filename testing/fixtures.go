package testing

import (
	"encoding/binary"
	"testing"
)

// Synthetic map file layout used by fixture builders. Matches the header
// arithmetic of the real format: the lock byte sits at A + 0x3C + B + 0x08,
// where A is the uint16 at 0x04 and B the uint16 at A+0x08.
const (
	FixtureSectionOffset = 0x20 // A
	FixtureSectionSize   = 0x10 // B
	FixtureLockOffset    = FixtureSectionOffset + 0x3C + FixtureSectionSize + 0x08
	FixtureFileSize      = 0x80
)

// MapBytes builds a synthetic map file image. When locked is true the lock
// byte carries a non-zero marker. Every other byte is a deterministic fill
// so tests can binary-diff copies against the source.
func MapBytes(locked bool) []byte {
	data := make([]byte, FixtureFileSize)
	for i := range data {
		data[i] = byte(i * 7)
	}
	binary.LittleEndian.PutUint16(data[0x04:], FixtureSectionOffset)
	binary.LittleEndian.PutUint16(data[FixtureSectionOffset+0x08:], FixtureSectionSize)

	if locked {
		data[FixtureLockOffset] = 0x01
	} else {
		data[FixtureLockOffset] = 0x00
	}
	return data
}

// WriteMapFile writes a synthetic map file to path
func WriteMapFile(t *testing.T, path string, locked bool) {
	t.Helper()
	WriteFile(t, path, MapBytes(locked))
}
