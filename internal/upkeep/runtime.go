package upkeep

// stageRuntime installs the language runtime when absent (after one
// confirmation), or refreshes its package manager and the fixed base package
// set through the gateway when present. The refresh is bulk: one decision
// covers the whole set.
func stageRuntime(a *App) error {
	rt := a.Catalog.Runtime

	switch a.Checks.RuntimePresent() {
	case CheckPresent:
		stepf("%s present; refreshing its package manager and base packages", rt.Name)
		argv := append(append([]string{}, rt.Bootstrap...), rt.Packages...)
		res := a.Exec.RunElevated(WorkItem{Label: rt.Name + " package refresh", Argv: argv})
		reportResult("Package refresh", res)
		return nil
	case CheckUnknown:
		cPrintf(colWarn, "Treating %s as missing and offering installation.\n", rt.Name)
	}

	if !a.Prompt.Confirm(colNote, true, "Install %s?", rt.Name) {
		cPrintln(colNote, rt.Name+" installation skipped.")
		return nil
	}
	res := a.Exec.RunElevated(WorkItem{Label: "install " + rt.Name, Argv: rt.Install})
	reportResult(rt.Name+" install", res)
	return nil
}
