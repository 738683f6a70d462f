package console

import "fmt"

var (
	attached bool
	quiet    bool
)

// Init configures the console package
func Init(quietMode bool) {
	quiet = quietMode
}

// SetQuiet changes quiet mode at runtime
func SetQuiet(q bool) {
	quiet = q
}

// IsAttached returns whether a console is attached
func IsAttached() bool {
	return attached
}

// Log prints a message if not in quiet mode
func Log(format string, args ...interface{}) {
	if !quiet {
		fmt.Printf(format+"\n", args...)
	}
}
