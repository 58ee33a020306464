package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Banner printed at the start of a download
const Banner = `
    ╔════════════════════════════════════════════╗
    ║   C2DB MATERIALS DOWNLOADER                ║
    ║   Computational 2D Materials Database      ║
    ╚════════════════════════════════════════════╝
`

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
)

var (
	mu        sync.Mutex
	out       io.Writer = os.Stdout
	noColor   bool
	quietMode bool
)

// SetOutput redirects terminal output, mainly for tests
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// SetNoColor disables ANSI colors
func SetNoColor(disabled bool) {
	mu.Lock()
	defer mu.Unlock()
	noColor = disabled
}

// SetQuietMode suppresses everything but errors
func SetQuietMode(quiet bool) {
	mu.Lock()
	defer mu.Unlock()
	quietMode = quiet
}

// IsQuietMode reports whether quiet mode is on
func IsQuietMode() bool {
	mu.Lock()
	defer mu.Unlock()
	return quietMode
}

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		mu.Lock()
		plain := noColor
		mu.Unlock()
		if plain {
			return text
		}
		return fmt.Sprintf(colorString, text)
	}
}

func emit(always bool, s string) {
	if !always && IsQuietMode() {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(out, s)
}

// PrintBanner prints the banner in cyan
func PrintBanner() {
	if IsQuietMode() {
		return
	}
	mu.Lock()
	w := out
	mu.Unlock()
	fmt.Fprint(w, Cyan(Banner))
}

// PrintError prints an error message in red. Errors are shown even in quiet mode.
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		emit(true, Red(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		emit(true, Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	emit(false, Green(msg))
}

// PrintInfo prints an info message in cyan
func PrintInfo(label string, value string) {
	emit(false, fmt.Sprintf("%s: %s", Cyan(label), Yellow(value)))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		emit(false, Yellow(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		emit(false, Yellow(msg))
	}
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	emit(false, Magenta(msg))
}
