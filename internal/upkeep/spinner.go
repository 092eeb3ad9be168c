package upkeep

import (
	"os"
	"time"

	progressbar "github.com/schollz/progressbar/v3"
)

// withSpinner shows an indeterminate spinner on stderr while fn runs. The
// spinner stays off the transcript; only real output goes through the sink.
func withSpinner(label string, fn func() error) error {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	done := make(chan struct{})
	go func() {
		t := time.NewTicker(120 * time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				bar.Add(1)
			}
		}
	}()
	err := fn()
	close(done)
	bar.Finish()
	return err
}
