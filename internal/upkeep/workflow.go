package upkeep

import (
	"context"
	"fmt"
)

// Stage confirmation policies. These asymmetries are deliberate and must not
// be unified: tools install in bulk with no per-item prompt, the runtime's
// package set refreshes in bulk after one runtime-level decision, modules are
// gated twice (simulate, then real), and of the two profile markers only the
// import line stops at the first updated file.
const (
	toolsConfirmPerItem      = false
	modulesTwoPhaseConfirm   = true
	importLineStopAfterFirst = true
	initLineStopAfterFirst   = false
)

// App carries the collaborators every stage needs.
type App struct {
	Ctx     context.Context
	Cfg     *Config
	Catalog *Catalog
	Prompt  *Prompter
	Exec    *Executor
	Checks  *Checkers
}

// Stage is one step of the fixed pipeline. Stages are independent: a failure
// is reported and the engine moves on.
type Stage struct {
	Name string
	Run  func(*App) error
}

// Stages returns the pipeline in its fixed order.
func Stages() []Stage {
	return []Stage{
		{"Restore point", stageRestore},
		{"System integrity", stageIntegrity},
		{"Required tools", stageTools},
		{"Upgrades", stageUpgrades},
		{"Language runtime", stageRuntime},
		{"Extension modules", stageModules},
		{"Profile updates", stageProfile},
		{"Final verification", stageVerify},
		{"Restart", stageRestart},
	}
}

// RunPipeline executes every stage in order. No stage is retried and no
// failure aborts the run; an interrupt stops before the next stage begins.
func (a *App) RunPipeline() {
	for _, s := range Stages() {
		if a.Ctx.Err() != nil {
			cPrintln(colWarn, "Run cancelled; remaining stages skipped.")
			return
		}
		fmt.Fprintln(stdout())
		stepf("=== %s ===", s.Name)
		if err := s.Run(a); err != nil {
			cPrintf(colError, "Stage %q failed: %v\n", s.Name, err)
		}
	}
}

// reportResult prints the uniform per-invocation outcome line.
func reportResult(label string, res ExecutionResult) {
	switch {
	case res.ElevationFailed:
		cPrintf(colWarn, "%s: elevation declined or unavailable\n", label)
	case res.Succeeded:
		stepf("%s: done", label)
	default:
		cPrintf(colWarn, "%s: exited with code %d\n", label, res.ExitCode)
	}
}
