package upkeep

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

// WorkItem is one unit of executable work plus the label shown in prompts and
// the transcript. Argv is the structured form and is preferred; Script is raw
// shell text for work that genuinely needs an interpreter (multi-line,
// pipelines).
type WorkItem struct {
	Label  string
	Argv   []string
	Script string
}

// CommandText renders the work item as a single shell command. Argv elements
// are quoted so the text survives being handed to `sh -c`.
func (w WorkItem) CommandText() string {
	if w.Script != "" {
		return w.Script
	}
	quoted := make([]string, len(w.Argv))
	for i, a := range w.Argv {
		quoted[i] = shellQuote(a)
	}
	return strings.Join(quoted, " ")
}

// shellQuote escapes content for safe use in shell commands
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}

// ExecutionResult is what a stage gets back from any invocation. Succeeded
// tracks ExitCode == 0; stages with tools that encode partial success in
// nonzero codes reinterpret via ActionSpec.Accepts.
type ExecutionResult struct {
	ExitCode        int
	Stdout          string
	Stderr          string
	Succeeded       bool
	ElevationFailed bool // the elevation itself was declined or failed to launch
}

// encodeCommand serializes command text into a transport-safe form that
// survives being passed as a single argument across the privilege boundary.
func encodeCommand(text string) string {
	return base64.StdEncoding.EncodeToString([]byte(text))
}

// decodePayloadSnippet is the shell one-liner the elevated interpreter runs
// to recover and execute the original command text.
func decodePayloadSnippet(encoded string) string {
	return fmt.Sprintf(`eval "$(printf %%s %s | base64 -d)"`, encoded)
}

// Executor runs work items, elevating through the least invasive mechanism
// available: helper tool on PATH, direct execution when already root, or a
// relaunch through the native elevation prompt with an encoded payload.
type Executor struct {
	Context context.Context
	Priv    *PrivilegeContext

	helperPrimed bool

	// runProcess starts cmd and blocks until it exits, returning the exit
	// code. Tests replace it with a recorder.
	runProcess func(cmd *exec.Cmd) (int, error)
}

// NewExecutor builds the gateway for the given privilege context.
func NewExecutor(ctx context.Context, priv *PrivilegeContext) *Executor {
	e := &Executor{Context: ctx, Priv: priv}
	e.runProcess = e.defaultRunProcess
	return e
}

// ensureHelper verifies the sudo ticket before helper-mediated work, so the
// password prompt happens at a predictable moment rather than mid-invocation.
func (e *Executor) ensureHelper() error {
	if e.Priv.IsAdmin || e.Priv.HelperPath == "" {
		return nil
	}
	if !strings.HasSuffix(e.Priv.HelperPath, "/sudo") {
		return nil // doas has no ticket cache to prime
	}
	if e.helperPrimed {
		return nil
	}

	// Fast non-interactive check first; only prompt when the ticket expired.
	check := exec.CommandContext(e.Context, e.Priv.HelperPath, "-nv")
	check.Stdout = io.Discard
	check.Stderr = io.Discard
	if code, err := e.runProcess(check); err == nil && code == 0 {
		e.helperPrimed = true
		return nil
	}

	stepf("Authenticating via %s", e.Priv.HelperPath)
	auth := exec.CommandContext(e.Context, e.Priv.HelperPath, "-v")
	auth.Stdin = os.Stdin
	auth.Stdout = os.Stdout
	auth.Stderr = os.Stderr
	code, err := e.runProcess(auth)
	if err != nil || code != 0 {
		return fmt.Errorf("helper authentication failed")
	}
	e.helperPrimed = true
	return nil
}

// RunElevated executes the work item with administrative rights and blocks
// until it finishes. Output streams to the transcript and is also captured
// into the result. An elevation that never happened is reported distinctly
// from a failure of the work itself.
func (e *Executor) RunElevated(w WorkItem) ExecutionResult {
	var cmd *exec.Cmd
	viaPrompt := false

	switch {
	case !e.Priv.IsAdmin && e.Priv.Mechanism == EscalationHelper && e.Priv.HelperPath != "":
		if err := e.ensureHelper(); err != nil {
			cPrintln(colWarn, err.Error())
			return ExecutionResult{ExitCode: -1, ElevationFailed: true}
		}
		cmd = exec.CommandContext(e.Context, e.Priv.HelperPath, e.Priv.ShellPath, "-c", w.CommandText())

	case e.Priv.IsAdmin:
		// Already privileged: no wrapper process needed.
		if len(w.Argv) > 0 && w.Script == "" {
			cmd = exec.CommandContext(e.Context, w.Argv[0], w.Argv[1:]...)
		} else {
			cmd = exec.CommandContext(e.Context, e.Priv.ShellPath, "-c", w.CommandText())
		}

	default:
		if e.Priv.PromptPath == "" {
			cPrintln(colWarn, "No elevation mechanism available; skipping:", w.Label)
			return ExecutionResult{ExitCode: -1, ElevationFailed: true}
		}
		// The command text crosses the privilege boundary as a single
		// encoded argument, so quotes and newlines survive intact.
		payload := encodeCommand(w.CommandText())
		cmd = exec.CommandContext(e.Context, e.Priv.PromptPath, e.Priv.ShellPath, "-c", decodePayloadSnippet(payload))
		viaPrompt = true
	}

	var outBuf, errBuf bytes.Buffer
	cmd.Stdin = os.Stdin
	cmd.Stdout = io.MultiWriter(stdout(), &outBuf)
	cmd.Stderr = io.MultiWriter(stdout(), &errBuf)

	code, err := e.runProcess(cmd)
	res := ExecutionResult{
		ExitCode:  code,
		Stdout:    outBuf.String(),
		Stderr:    errBuf.String(),
		Succeeded: err == nil && code == 0,
	}
	if viaPrompt && (err != nil || code == 126 || code == 127) {
		// pkexec: 126 = dialog dismissed, 127 = not authorized; a start
		// error means the prompt never appeared at all.
		res.ElevationFailed = true
	}
	if err != nil {
		debugf("process start failed for %s: %v\n", w.Label, err)
	}
	return res
}

// Run executes the work item in the foreground with the caller's own
// privileges, streaming output to the transcript.
func (e *Executor) Run(w WorkItem) ExecutionResult {
	var cmd *exec.Cmd
	if len(w.Argv) > 0 && w.Script == "" {
		cmd = exec.CommandContext(e.Context, w.Argv[0], w.Argv[1:]...)
	} else {
		cmd = exec.CommandContext(e.Context, e.Priv.ShellPath, "-c", w.CommandText())
	}

	var outBuf, errBuf bytes.Buffer
	cmd.Stdin = os.Stdin
	cmd.Stdout = io.MultiWriter(stdout(), &outBuf)
	cmd.Stderr = io.MultiWriter(stdout(), &errBuf)

	code, err := e.runProcess(cmd)
	return ExecutionResult{
		ExitCode:  code,
		Stdout:    outBuf.String(),
		Stderr:    errBuf.String(),
		Succeeded: err == nil && code == 0,
	}
}

// RunQuery executes a read-only query quietly, capturing output instead of
// streaming it. Checkers use this; queries never elevate.
func (e *Executor) RunQuery(argv ...string) ExecutionResult {
	cmd := exec.CommandContext(e.Context, argv[0], argv[1:]...)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	code, err := e.runProcess(cmd)
	return ExecutionResult{
		ExitCode:  code,
		Stdout:    outBuf.String(),
		Stderr:    errBuf.String(),
		Succeeded: err == nil && code == 0,
	}
}

// defaultRunProcess starts cmd in its own process group, watches for context
// cancellation, and blocks until exit. A start failure returns a non-nil
// error; a nonzero exit comes back as the code with a nil error.
func (e *Executor) defaultRunProcess(cmd *exec.Cmd) (int, error) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return -1, fmt.Errorf("failed to start command: %w", err)
	}
	pgid := cmd.Process.Pid

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-e.Context.Done():
			syscall.Kill(-pgid, syscall.SIGKILL)
		case <-done:
		}
	}()

	err := cmd.Wait()
	if e.Context.Err() != nil {
		time.Sleep(100 * time.Millisecond)
		return -1, fmt.Errorf("command aborted: %v", e.Context.Err())
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, err
	}
	return 0, nil
}
