package upkeep

// stageRestore checks the restore-point facility, optionally enables it, and
// always offers to create a restore point before the destructive stages run.
func stageRestore(a *App) error {
	rest := a.Catalog.Restore

	if a.Checks.RestoreConfigured() == CheckPresent {
		stepf("Restore facility (%s) is configured", rest.Check[0])
	} else {
		cPrintln(colNote, "Restore facility not detected or not configured.")
		if a.Prompt.Confirm(colNote, true, "Run the restore facility setup check (%s)?", rest.Check[0]) {
			res := a.Exec.RunElevated(WorkItem{Label: "restore facility check", Argv: rest.Check})
			reportResult("Restore facility check", res)
		}
	}

	if free, err := freeSpace("/"); err == nil {
		stepf("Free space on /: %s", humanSize(free))
	}

	// Offered regardless of the outcome above.
	if !a.Prompt.Confirm(colNote, true, "Create a restore point before continuing?") {
		cPrintln(colNote, "Restore point skipped.")
		return nil
	}
	res := a.Exec.RunElevated(WorkItem{Label: "create restore point", Argv: rest.Create})
	reportResult("Restore point", res)
	return nil
}
