package upkeep

import (
	"errors"
	"os"
	"os/exec"
)

// Test seams; production code always uses the real thing.
var (
	lookPath = exec.LookPath
	geteuid  = os.Geteuid
)

// EscalationMechanism says how RunElevated crosses the privilege boundary
// when the process is not already root.
type EscalationMechanism int

const (
	// EscalationHelper shells out to a helper tool (sudo, doas) found on PATH.
	EscalationHelper EscalationMechanism = iota
	// EscalationPrompt launches the work through pkexec, which raises the
	// native polkit authentication prompt.
	EscalationPrompt
)

// PrivilegeContext is computed once at startup and read-only afterwards.
type PrivilegeContext struct {
	IsAdmin    bool
	Mechanism  EscalationMechanism
	HelperPath string // sudo/doas binary, empty when none is installed
	PromptPath string // pkexec binary, empty when polkit is unavailable
	ShellPath  string
}

// errNoShell is the fatal startup precondition: without a command interpreter
// nothing in the pipeline can run.
var errNoShell = errors.New("no usable command interpreter found (tried bash, sh)")

// ProbePrivileges inspects the current process and the host for the available
// escalation mechanisms.
func ProbePrivileges() (*PrivilegeContext, error) {
	ctx := &PrivilegeContext{IsAdmin: geteuid() == 0}

	for _, shell := range []string{"bash", "sh"} {
		if p, err := lookPath(shell); err == nil {
			ctx.ShellPath = p
			break
		}
	}
	if ctx.ShellPath == "" {
		return nil, errNoShell
	}

	for _, helper := range []string{"sudo", "doas"} {
		if p, err := lookPath(helper); err == nil {
			ctx.HelperPath = p
			break
		}
	}
	if p, err := lookPath("pkexec"); err == nil {
		ctx.PromptPath = p
	}

	if ctx.HelperPath != "" {
		ctx.Mechanism = EscalationHelper
	} else {
		ctx.Mechanism = EscalationPrompt
	}
	return ctx, nil
}

// describe returns the mechanism summary printed in the startup banner.
func (p *PrivilegeContext) describe() string {
	switch {
	case p.IsAdmin:
		return "already running as root"
	case p.HelperPath != "":
		return "elevation via " + p.HelperPath
	case p.PromptPath != "":
		return "elevation via polkit prompt (" + p.PromptPath + ")"
	default:
		return "no elevation mechanism available"
	}
}
