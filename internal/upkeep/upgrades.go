package upkeep

import (
	"fmt"
	"strings"
)

// stageUpgrades previews available upgrades (best effort), then applies them
// in bulk after a single confirmation. A failing preview is reported but
// never fatal: the confirmation is still offered.
func stageUpgrades(a *App) error {
	pm := a.Catalog.PackageManager

	stepf("Checking for available upgrades via %s", pm.Name)
	var preview ExecutionResult
	err := withSpinner("querying "+pm.Name, func() error {
		preview = a.Exec.RunQuery(pm.Preview...)
		if !preview.Succeeded {
			return fmt.Errorf("preview exited with code %d", preview.ExitCode)
		}
		return nil
	})

	switch {
	case err != nil:
		cPrintf(colWarn, "Upgrade preview unavailable: %v\n", err)
		if msg := strings.TrimSpace(preview.Stderr); msg != "" {
			debugf("preview stderr: %s\n", msg)
		}
	case strings.TrimSpace(preview.Stdout) == "":
		stepf("No pending upgrades reported")
	default:
		cPrintln(colInfo, "Available upgrades:")
		for _, line := range strings.Split(strings.TrimRight(preview.Stdout, "\n"), "\n") {
			cPrintf(nil, "  %s\n", line)
		}
	}

	if !a.Prompt.Confirm(colNote, true, "Apply all available upgrades?") {
		cPrintln(colNote, "Upgrades skipped.")
		return nil
	}
	res := a.Exec.Run(WorkItem{Label: "apply upgrades", Argv: pm.UpgradeAll})
	reportResult("Upgrade", res)
	return nil
}
