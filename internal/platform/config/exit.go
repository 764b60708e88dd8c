package config

import (
	"fmt"
	"io"
	"os"
)

var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

// Exit prints message to stderr and terminates with code. Codes below 1 are
// raised to 1 so a failure never exits cleanly.
func Exit(code int, message string) {
	if code < 1 {
		code = 1
	}
	fmt.Fprintln(stderr, message)
	exit(code)
}

// Exitf is Exit with code 1 and a formatted message.
func Exitf(format string, args ...any) {
	Exit(1, fmt.Sprintf(format, args...))
}
