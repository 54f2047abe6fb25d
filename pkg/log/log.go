// Package log provides colored status output for the CLI.
package log

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Colors of term style.
var (
	Yellow = color.New(color.FgHiYellow, color.Bold).SprintFunc()
	Green  = color.New(color.FgHiGreen, color.Bold).SprintFunc()
	Blue   = color.New(color.FgHiBlue, color.Bold).SprintFunc()
	Red    = color.New(color.FgHiRed, color.Bold).SprintFunc()
)

// InfoStatusEvent reports on an informational event.
func InfoStatusEvent(w io.Writer, fmtstr string, a ...any) {
	fmt.Fprintf(w, "%s %s\n", Blue("ℹ️"), fmt.Sprintf(fmtstr, a...))
}

// SuccessStatusEvent reports on a success event.
func SuccessStatusEvent(w io.Writer, fmtstr string, a ...any) {
	fmt.Fprintf(w, "%s %s\n", Green("✅"), fmt.Sprintf(fmtstr, a...))
}

// FailureStatusEvent reports on a failure event.
func FailureStatusEvent(w io.Writer, fmtstr string, a ...any) {
	fmt.Fprintf(w, "%s %s\n", Red("❌"), fmt.Sprintf(fmtstr, a...))
}
