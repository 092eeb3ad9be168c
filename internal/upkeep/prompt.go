package upkeep

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// interactiveMu ensures only one interactive prompt reads stdin at a time.
var interactiveMu sync.Mutex

// Prompter is the confirmation gate. It is policy-free: Ask returns exactly
// what the user typed (lowercased and trimmed), and each caller decides what
// counts as "yes". Under auto-confirm it returns the default without blocking.
type Prompter struct {
	In          io.Reader // stdin unless a test injects something else
	AutoConfirm bool
}

// NewPrompter returns a gate reading from stdin.
func NewPrompter(autoConfirm bool) *Prompter {
	return &Prompter{In: os.Stdin, AutoConfirm: autoConfirm}
}

// Ask displays the prompt and returns the raw reply. defYes selects the
// default answer shown in the suffix and returned under auto-confirm.
// Empty or unrecognized input is returned as-is, never coerced to the
// default; a read error counts as a "n" reply.
func (p *Prompter) Ask(style colorPrinter, prompt string, defYes bool) string {
	suffix := "[y/N]"
	def := "n"
	if defYes {
		suffix = "[Y/n]"
		def = "y"
	}

	if p.AutoConfirm {
		// Echo prompt and auto-answer so the transcript shows the decision.
		cPrintf(style, "%s %s: %s (auto-confirm)\n", prompt, suffix, def)
		return def
	}

	interactiveMu.Lock()
	defer interactiveMu.Unlock()

	cPrintf(style, "%s %s: ", prompt, suffix)
	reader := bufio.NewReader(p.In)
	response, err := reader.ReadString('\n')
	if err != nil {
		return "n" // Ctrl+D and friends decline
	}
	return strings.ToLower(strings.TrimSpace(response))
}

// isYes is the affirmative match used at stage level.
func isYes(s string) bool {
	return s == "y" || s == "yes"
}

// Confirm asks with the given default and applies the affirmative match.
func (p *Prompter) Confirm(style colorPrinter, defYes bool, format string, a ...any) bool {
	return isYes(p.Ask(style, fmt.Sprintf(format, a...), defYes))
}

// pressAnyKey blocks until a single key is pressed. Skipped when stdin is not
// a terminal.
func pressAnyKey() {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return
	}
	cPrintf(colNote, "Press any key to exit. ")
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return
	}
	defer term.Restore(fd, oldState)
	buf := make([]byte, 1)
	_, _ = os.Stdin.Read(buf)
	fmt.Fprintln(stdout())
}
