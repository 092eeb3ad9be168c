package upkeep

// stageTools makes sure every cataloged tool is installed. Missing tools are
// installed in bulk, each as its own foreground process, without per-tool
// confirmation and without the gateway (the package manager operates in user
// scope).
func stageTools(a *App) error {
	pm := a.Catalog.PackageManager
	for _, tool := range a.Catalog.Tools {
		if a.Ctx.Err() != nil {
			return a.Ctx.Err()
		}
		switch a.Checks.PackageInstalled(tool.ID) {
		case CheckPresent:
			stepf("%s (%s) already installed", tool.Name, tool.ID)
			continue
		case CheckUnknown:
			cPrintf(colWarn, "Treating %s as missing and offering installation.\n", tool.Name)
		}

		stepf("Installing %s", tool.Name)
		argv := append(append([]string{}, pm.Install...), tool.ID)
		res := a.Exec.Run(WorkItem{Label: "install " + tool.Name, Argv: argv})
		reportResult(tool.Name, res)
	}
	return nil
}
