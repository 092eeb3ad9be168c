package upkeep

import (
	"fmt"
	"io"
	"os"
)

// color-compatible printer interface (works with *color.Theme and *color.Style)
type colorPrinter interface {
	Printf(format string, a ...any)
	Println(a ...any)
}

// stdout returns the writer all user-visible output goes through. Once the
// transcript is open this is the tee writer, so everything shown on screen
// also lands in the log file.
func stdout() io.Writer {
	if Sink != nil {
		return Sink
	}
	return os.Stdout
}

// cPrintf prints with a colored style or falls back to plain output when nil
func cPrintf(p colorPrinter, format string, a ...any) {
	if p == nil {
		fmt.Fprintf(stdout(), format, a...)
		return
	}
	p.Printf(format, a...)
}

// cPrintln prints a line with the given style or falls back to plain output when nil
func cPrintln(p colorPrinter, a ...any) {
	if p == nil {
		fmt.Fprintln(stdout(), a...)
		return
	}
	p.Println(a...)
}

// stepf prints the arrow-prefixed progress line used throughout the run.
func stepf(format string, a ...any) {
	colArrow.Print("-> ")
	colSuccess.Printf(format+"\n", a...)
}

// debugf prints debug messages when Debug is true
func debugf(format string, args ...any) {
	if Debug {
		fmt.Fprintf(stdout(), format, args...)
	}
}
