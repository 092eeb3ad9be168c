package upkeep

// stageModules installs runtime extension modules that are not already
// present. Each missing module goes through two gates: a simulated install is
// offered first, and only after its preview does the real install get its own
// confirmation.
func stageModules(a *App) error {
	mods := a.Catalog.Modules
	if len(mods.Names) == 0 {
		return nil
	}

	for _, name := range mods.Names {
		if err := a.Ctx.Err(); err != nil {
			return err
		}

		switch a.Checks.ModulePresent(name) {
		case CheckPresent:
			stepf("module %s already installed", name)
			continue
		case CheckUnknown:
			cPrintf(colWarn, "Treating module %s as missing.\n", name)
		}

		if modulesTwoPhaseConfirm {
			if !a.Prompt.Confirm(colNote, true, "Simulate installation of %s first?", name) {
				cPrintf(colNote, "Module %s skipped.\n", name)
				continue
			}
			argv := append(append([]string{}, mods.Simulate...), name)
			res := a.Exec.Run(WorkItem{Label: "simulate " + name, Argv: argv})
			if !res.Succeeded {
				cPrintf(colWarn, "Simulation for %s exited with code %d.\n", name, res.ExitCode)
			}
		}

		if !a.Prompt.Confirm(colNote, true, "Install %s now?", name) {
			cPrintf(colNote, "Module %s skipped.\n", name)
			continue
		}
		argv := append(append([]string{}, mods.Install...), name)
		res := a.Exec.Run(WorkItem{Label: "install " + name, Argv: argv})
		reportResult("Module "+name, res)
	}
	return nil
}
