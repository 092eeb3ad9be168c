package upkeep

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"golang.org/x/term"
)

type transcriptEntry struct {
	title   string
	content string
}

// viewTranscripts shows the current transcript and the archived ones in a
// scrollable viewer. Left/Right switch sessions, newest first.
func viewTranscripts(logPath string) error {
	entries, err := collectTranscripts(logPath)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No transcripts found. Run a maintenance session first.")
		return nil
	}
	return runPager(entries)
}

func collectTranscripts(logPath string) ([]transcriptEntry, error) {
	var entries []transcriptEntry

	if data, err := os.ReadFile(logPath); err == nil {
		entries = append(entries, transcriptEntry{
			title:   filepath.Base(logPath) + " (current)",
			content: string(data),
		})
	}

	archived, err := listArchivedTranscripts(logPath)
	if err != nil {
		return entries, err
	}
	for _, p := range archived {
		data, err := readArchivedTranscript(p)
		if err != nil {
			return entries, fmt.Errorf("reading %s: %w", p, err)
		}
		entries = append(entries, transcriptEntry{
			title:   filepath.Base(p),
			content: string(data),
		})
	}
	return entries, nil
}

// runPager displays the entries in a TUI when stdout is a TTY; otherwise the
// newest transcript is dumped to stdout for piping.
func runPager(entries []transcriptEntry) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Print(entries[0].content)
		return nil
	}

	app := tview.NewApplication()
	active := 0

	textView := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	textView.SetBorder(true)

	footer := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter).
		SetText("[gray]←/→ switch session  ↑/↓ PgUp/PgDn scroll  'q'/Esc quit[white]")

	show := func() {
		e := entries[active]
		textView.Clear()
		textView.SetTitle(fmt.Sprintf(" %s (%d/%d) ", e.title, active+1, len(entries)))
		fmt.Fprint(tview.ANSIWriter(textView), strings.TrimRight(e.content, "\n"))
		textView.ScrollToBeginning()
	}
	show()

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(textView, 0, 1, true).
		AddItem(footer, 1, 0, false)

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEsc, tcell.KeyCtrlQ:
			app.Stop()
			return nil
		case tcell.KeyLeft:
			active = (active - 1 + len(entries)) % len(entries)
			show()
			return nil
		case tcell.KeyRight:
			active = (active + 1) % len(entries)
			show()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'q' {
				app.Stop()
				return nil
			}
		}
		return event
	})

	if err := app.SetRoot(flex, true).SetFocus(textView).Run(); err != nil {
		return fmt.Errorf("pager execution failed: %w", err)
	}
	return nil
}
