package ui

import (
	"fmt"
	"io"
	"os"
)

var (
	reset = "\033[0m"
	bold  = "\033[1m"

	fgGray  = "\033[90m"
	fgGreen = "\033[32m"
	fgBlue  = "\033[34m"
	fgRed   = "\033[31m"

	symCheck = "✔"
	symCross = "✖"
)

var (
	forceColor   bool
	disableColor bool
)

// SetColorForcing overrides terminal detection for C.
func SetColorForcing(force, disable bool) {
	forceColor = force
	disableColor = disable
}

// IsTTY reports whether stdout is a terminal.
func IsTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// C wraps s in color when color output is on.
func C(color, s string) string {
	if disableColor || color == "" {
		return s
	}
	if forceColor || IsTTY() {
		return color + s + reset
	}
	return s
}

func OK(w io.Writer, msg string)   { fmt.Fprintln(w, C(fgGreen, symCheck+" "+msg)) }
func Fail(w io.Writer, msg string) { fmt.Fprintln(w, C(fgRed, symCross+" "+msg)) }
