package ui

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// ASCII logo for the application
const ASCIILogo = `
    ██████╗ ██╗███████╗████████╗██████╗  ██████╗ ██╗   ██╗███╗   ██╗██████╗
    ██╔══██╗██║██╔════╝╚══██╔══╝██╔══██╗██╔═══██╗██║   ██║████╗  ██║██╔══██╗
    ██████╔╝██║█████╗     ██║   ██████╔╝██║   ██║██║   ██║██╔██╗ ██║██║  ██║
    ██╔══██╗██║██╔══╝     ██║   ██╔══██╗██║   ██║██║   ██║██║╚██╗██║██║  ██║
    ██║  ██║██║██║        ██║   ██████╔╝╚██████╔╝╚██████╔╝██║ ╚████║██████╔╝
    ╚═╝  ╚═╝╚═╝╚═╝        ╚═╝   ╚═════╝  ╚═════╝  ╚═════╝ ╚═╝  ╚═══╝╚═════╝
                   TCG CARD GALLERY - IMAGE EXTRACTION UTILITY
`

// Output modes set once at startup from command line flags
var (
	quietMode        bool
	progressOnlyMode bool
	colorsEnabled    = true
)

// SetQuietMode suppresses all output except errors
func SetQuietMode(quiet bool) {
	quietMode = quiet
}

// SetProgressOnlyMode suppresses informational output but keeps progress bars
func SetProgressOnlyMode(progressOnly bool) {
	progressOnlyMode = progressOnly
}

// SetColorEnabled toggles ANSI colors on terminal output
func SetColorEnabled(enabled bool) {
	colorsEnabled = enabled
}

// IsQuiet reports whether quiet mode is active
func IsQuiet() bool {
	return quietMode
}

// ShowProgress reports whether progress output should be rendered
func ShowProgress() bool {
	return !quietMode
}

// IsInteractive reports whether stdout is attached to a terminal
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		if !colorsEnabled {
			return text
		}
		return fmt.Sprintf(colorString, text)
	}
}

// PrintLogo prints the ASCII logo with color.
// Suppressed in quiet and progress-only modes and when stdout is a pipe.
func PrintLogo() {
	if quietMode || progressOnlyMode || !IsInteractive() {
		return
	}
	fmt.Print(Cyan(ASCIILogo))
}

// PrintError prints an error message in red
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Println(Red(msg + ": " + fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Println(Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	if quietMode || progressOnlyMode {
		return
	}
	fmt.Println(Green(msg))
}

// PrintInfo prints an info message in cyan
func PrintInfo(label string, value string) {
	if quietMode || progressOnlyMode {
		return
	}
	fmt.Printf("%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if quietMode {
		return
	}
	if len(args) > 0 {
		fmt.Println(Yellow(msg + ": " + fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Println(Yellow(msg))
	}
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	if quietMode || progressOnlyMode {
		return
	}
	fmt.Println(Magenta(msg))
}
