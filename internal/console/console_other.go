//go:build !windows

package console

// Attach is a no-op outside Windows; the process always inherits a usable
// stdout there.
func Attach() bool {
	attached = true
	return true
}

// SetTitle is a no-op outside Windows.
func SetTitle(title string) error {
	return nil
}

// GetWindow always returns 0 outside Windows.
func GetWindow() uintptr {
	return 0
}
