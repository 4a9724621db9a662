package app

import "os"

// ANSI styles used by CLI output.
const (
	StyleHeader = "1;34"
	StyleOK     = "1;32"
	StyleFail   = "1;31"
)

// Color wraps text in an ANSI style when stdout is a terminal and NO_COLOR is unset.
func Color(text, style string) string {
	if style == "" || !isTerminal(os.Stdout) {
		return text
	}
	return "\x1b[" + style + "m" + text + "\x1b[0m"
}

func isTerminal(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
