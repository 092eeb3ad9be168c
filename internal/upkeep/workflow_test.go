package upkeep

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, rec *processRecorder, input string) *App {
	t.Helper()
	cat := testCatalog(t)

	// Keep the profile stage away from the real home directory.
	dir := t.TempDir()
	cat.Profile.Candidates = []string{filepath.Join(dir, ".bashrc")}
	cat.Restore.Config = filepath.Join(dir, "timeshift.json")

	priv := &PrivilegeContext{IsAdmin: true, ShellPath: "/bin/sh"}
	e := newTestExecutor(priv, rec)

	var prompt *Prompter
	if input == "" {
		prompt = &Prompter{In: &failingReader{}, AutoConfirm: true}
	} else {
		prompt = &Prompter{In: strings.NewReader(input)}
	}

	return &App{
		Ctx:     context.Background(),
		Cfg:     &Config{Values: map[string]string{}},
		Catalog: cat,
		Prompt:  prompt,
		Exec:    e,
		Checks:  NewCheckers(e, cat),
	}
}

func calledArgv0(rec *processRecorder) []string {
	var names []string
	for _, args := range rec.calls {
		names = append(names, args[0])
	}
	return names
}

func TestStageRestartDefaultsToNo(t *testing.T) {
	rec := &processRecorder{}
	a := newTestApp(t, rec, "\n")

	require.NoError(t, stageRestart(a))
	assert.Empty(t, rec.calls, "an empty reply must not reboot the machine")
}

func TestStageRestartConfirmed(t *testing.T) {
	rec := &processRecorder{codes: []int{0}}
	a := newTestApp(t, rec, "y\n")

	require.NoError(t, stageRestart(a))
	require.Len(t, rec.calls, 1)
	assert.Equal(t, []string{"systemctl", "reboot"}, rec.calls[0])
}

func TestStageUpgradesDeclined(t *testing.T) {
	fakePath(t, "flatpak")
	rec := &processRecorder{outs: []string{"org.example.App\tstable\n"}}
	a := newTestApp(t, rec, "n\n")

	require.NoError(t, stageUpgrades(a))
	// Only the read-only preview ran.
	require.Len(t, rec.calls, 1)
	assert.Equal(t, a.Catalog.PackageManager.Preview, rec.calls[0])
}

func TestStageUpgradesAppliesInBulk(t *testing.T) {
	fakePath(t, "flatpak")
	rec := &processRecorder{outs: []string{"org.example.App\tstable\n"}}
	a := newTestApp(t, rec, "y\n")

	require.NoError(t, stageUpgrades(a))
	require.Len(t, rec.calls, 2)
	assert.Equal(t, a.Catalog.PackageManager.UpgradeAll, rec.calls[1])
}

func TestStageModulesSkipsPresent(t *testing.T) {
	fakePath(t, "python3")
	// One successful query per module name means everything is installed.
	rec := &processRecorder{codes: []int{0, 0}}
	a := newTestApp(t, rec, "")

	require.NoError(t, stageModules(a))
	require.Len(t, rec.calls, len(a.Catalog.Modules.Names), "present modules trigger queries only")
	for _, args := range rec.calls {
		assert.Equal(t, "python3", args[0])
	}
}

func TestStageModulesTwoGates(t *testing.T) {
	fakePath(t, "python3")
	a := newTestApp(t, nil, "")
	a.Catalog.Modules.Names = []string{"pipx"}

	// Query fails (absent), then simulate, then install.
	rec := &processRecorder{codes: []int{1, 0, 0}}
	a.Exec.runProcess = rec.run
	a.Checks = NewCheckers(a.Exec, a.Catalog)
	a.Prompt = &Prompter{In: strings.NewReader("y\ny\n")}

	require.NoError(t, stageModules(a))
	require.Len(t, rec.calls, 3)
	assert.Contains(t, rec.calls[1], "--dry-run")
	assert.NotContains(t, rec.calls[2], "--dry-run")
	assert.Equal(t, "pipx", rec.calls[2][len(rec.calls[2])-1])
}

func TestStageModulesDeclineSimulationSkipsInstall(t *testing.T) {
	fakePath(t, "python3")
	a := newTestApp(t, nil, "")
	a.Catalog.Modules.Names = []string{"pipx"}

	rec := &processRecorder{codes: []int{1}}
	a.Exec.runProcess = rec.run
	a.Checks = NewCheckers(a.Exec, a.Catalog)
	a.Prompt = &Prompter{In: strings.NewReader("n\n")}

	require.NoError(t, stageModules(a))
	// Only the presence query ran.
	require.Len(t, rec.calls, 1)
}

func TestStageIntegrityRunsAllActions(t *testing.T) {
	rec := &processRecorder{}
	a := newTestApp(t, rec, "")

	require.NoError(t, stageIntegrity(a))
	require.Len(t, rec.calls, len(a.Catalog.Maintenance))
	assert.Contains(t, calledArgv0(rec), "dpkg")
	assert.Contains(t, calledArgv0(rec), "debsums")
}

func TestStageToolsInstallsMissingWithoutPrompt(t *testing.T) {
	fakePath(t, "flatpak")
	rec := &processRecorder{outs: []string{"", "", ""}}
	a := newTestApp(t, rec, "")
	a.Prompt = &Prompter{In: &failingReader{}} // any prompt would fail the test

	require.NoError(t, stageTools(a))

	// One listing plus one install per tool.
	require.Len(t, rec.calls, 2*len(a.Catalog.Tools))
	install := rec.calls[1]
	assert.Equal(t, "flatpak", install[0])
	assert.Contains(t, install, "install")
	assert.Equal(t, a.Catalog.Tools[0].ID, install[len(install)-1])
}

func TestRunPipelineCancelledBeforeStart(t *testing.T) {
	rec := &processRecorder{}
	a := newTestApp(t, rec, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a.Ctx = ctx
	a.Exec.Context = ctx

	a.RunPipeline()
	assert.Empty(t, rec.calls, "a cancelled run must not start any stage")
}

func TestRunPipelineAutoConfirmCompletes(t *testing.T) {
	fakePath(t, "flatpak", "python3", "timeshift", "bash")
	rec := &processRecorder{}
	a := newTestApp(t, rec, "")

	a.RunPipeline()

	// The restart stage defaults to no even under auto-confirm.
	for _, args := range rec.calls {
		assert.NotEqual(t, "systemctl", args[0], "auto-confirm must not reboot")
	}
	assert.NotEmpty(t, rec.calls)
}

func TestStagesOrder(t *testing.T) {
	names := []string{}
	for _, s := range Stages() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{
		"Restore point",
		"System integrity",
		"Required tools",
		"Upgrades",
		"Language runtime",
		"Extension modules",
		"Profile updates",
		"Final verification",
		"Restart",
	}, names)
}

func TestReportResultElevationDeclined(t *testing.T) {
	// Smoke check: must not panic on any shape.
	reportResult("x", ExecutionResult{ElevationFailed: true})
	reportResult("x", ExecutionResult{Succeeded: true})
	reportResult("x", ExecutionResult{ExitCode: 3})
}
