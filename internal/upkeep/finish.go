package upkeep

import "strings"

// stageVerify runs the closing health checks. Everything here is best effort
// and nothing prompts; failures are reported and the run moves on.
func stageVerify(a *App) error {
	rt := a.Catalog.Runtime
	if len(rt.Version) > 0 {
		res := a.Exec.RunQuery(rt.Version...)
		if res.Succeeded {
			out := strings.TrimSpace(res.Stdout)
			if out == "" {
				out = strings.TrimSpace(res.Stderr)
			}
			stepf("%s reports %s", rt.Name, out)
		} else {
			cPrintf(colWarn, "%s version check failed (exit %d).\n", rt.Name, res.ExitCode)
		}
	}

	for _, act := range a.Catalog.Verify {
		if err := a.Ctx.Err(); err != nil {
			return err
		}
		res := a.Exec.RunElevated(WorkItem{Label: act.Label, Argv: act.Argv})
		switch {
		case res.ElevationFailed:
			cPrintf(colWarn, "%s skipped: elevation declined or unavailable.\n", act.Label)
		case res.ExitCode == 0:
			stepf("%s passed", act.Label)
		case act.Accepts(res.ExitCode):
			cPrintf(colNote, "%s completed with findings (exit %d).\n", act.Label, res.ExitCode)
		default:
			cPrintf(colWarn, "%s exited with code %d.\n", act.Label, res.ExitCode)
		}
	}
	return nil
}

// stageRestart offers a reboot so kernel and service updates take effect.
// The default answer is no; declining is the normal path.
func stageRestart(a *App) error {
	if len(a.Catalog.Restart) == 0 {
		return nil
	}
	if !a.Prompt.Confirm(colWarn, false, "Restart the system now?") {
		cPrintln(colNote, "Restart skipped. Reboot later to finish applying updates.")
		return nil
	}
	res := a.Exec.RunElevated(WorkItem{Label: "system restart", Argv: a.Catalog.Restart})
	reportResult("Restart", res)
	return nil
}
