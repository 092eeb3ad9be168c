package upkeep

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gookit/color"
	"github.com/ulikunitz/xz"
)

// Transcript mirrors everything shown on screen into a log file, with the
// color codes stripped from the file copy. It is an io.Writer so it can be
// handed to gookit/color and to external commands directly.
//
// Close is idempotent and safe to call concurrently with an in-flight write:
// the interrupt handler and the normal exit path may both close it.
type Transcript struct {
	mu     sync.Mutex
	file   *os.File
	closed atomic.Bool
	path   string
	screen io.Writer
}

// OpenTranscript opens the log target. With overwrite set, an existing log is
// first archived under logs/ and the file is truncated; otherwise output is
// appended to whatever is already there.
func OpenTranscript(path string, overwrite bool) (*Transcript, error) {
	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if overwrite {
		if err := archiveTranscript(path); err != nil {
			return nil, err
		}
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript %s: %w", path, err)
	}

	t := &Transcript{file: f, path: path, screen: os.Stdout}
	fmt.Fprintf(f, "==== upkeep session %s ====\n", time.Now().Format(time.RFC3339))
	return t, nil
}

// Path returns the log file location.
func (t *Transcript) Path() string { return t.path }

// Open reports whether the transcript is still accepting writes.
func (t *Transcript) Open() bool { return !t.closed.Load() }

// Write sends p to the screen and a color-stripped copy to the log file.
// After Close only the screen copy is written.
func (t *Transcript) Write(p []byte) (int, error) {
	n, err := t.screen.Write(p)

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.closed.Load() && t.file != nil {
		// A partially written final line on interrupt is acceptable.
		_, _ = t.file.WriteString(color.ClearCode(string(p)))
	}
	return n, err
}

// Close flushes and closes the log file. Calling it again is a no-op.
func (t *Transcript) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.file == nil {
		return nil
	}
	_ = t.file.Sync()
	err := t.file.Close()
	t.file = nil
	return err
}

// archiveTranscript compresses an existing log into logs/upkeep-<stamp>.log.xz
// and removes the original. A missing or empty log is not an error.
func archiveTranscript(path string) error {
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		return nil
	}

	dir := archiveDir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create archive dir %s: %w", dir, err)
	}

	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	stamp := info.ModTime().Format("20060102-150405")
	destPath := filepath.Join(dir, fmt.Sprintf("upkeep-%s.log.xz", stamp))
	dest, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer dest.Close()

	xzWriter, err := xz.NewWriter(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(xzWriter, src); err != nil {
		xzWriter.Close()
		return fmt.Errorf("failed to compress transcript: %w", err)
	}
	if err := xzWriter.Close(); err != nil {
		return err
	}

	src.Close()
	return os.Remove(path)
}

// listArchivedTranscripts returns the archives under logs/, newest first.
func listArchivedTranscripts(logPath string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(archiveDir(logPath), "upkeep-*.log.xz"))
	if err != nil {
		return nil, err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	return matches, nil
}

// readArchivedTranscript decompresses one archived transcript.
func readArchivedTranscript(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	xr, err := xz.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive %s: %w", path, err)
	}
	return io.ReadAll(xr)
}
