package upkeep

import (
	"bufio"
	"os"
	"strings"
)

// CheckState is the answer an idempotent checker gives. Unknown means the
// query tool itself was unusable; the workflow treats that as absent so
// remediation is still offered, but it is logged distinctly.
type CheckState int

const (
	CheckPresent CheckState = iota
	CheckAbsent
	CheckUnknown
)

// Checkers answers present/absent questions by running read-only external
// queries. Checkers never elevate and never mutate anything.
type Checkers struct {
	exec *Executor
	cat  *Catalog
}

// NewCheckers wires the checker family to the gateway's query runner.
func NewCheckers(exec *Executor, cat *Catalog) *Checkers {
	return &Checkers{exec: exec, cat: cat}
}

// CommandOnPath reports whether a binary is reachable.
func (c *Checkers) CommandOnPath(name string) bool {
	_, err := lookPath(name)
	return err == nil
}

// PackageInstalled asks the package manager whether the given id is
// installed by listing and scanning for it.
func (c *Checkers) PackageInstalled(id string) CheckState {
	list := c.cat.PackageManager.List
	if len(list) == 0 || !c.CommandOnPath(list[0]) {
		cPrintf(colWarn, "Cannot determine state of %s: %s unavailable\n", id, c.cat.PackageManager.Name)
		return CheckUnknown
	}
	res := c.exec.RunQuery(list...)
	if !res.Succeeded {
		cPrintf(colWarn, "Cannot determine state of %s: listing failed (exit %d)\n", id, res.ExitCode)
		return CheckUnknown
	}
	if containsLine(res.Stdout, id) {
		return CheckPresent
	}
	return CheckAbsent
}

// RuntimePresent probes the language runtime.
func (c *Checkers) RuntimePresent() CheckState {
	if !c.CommandOnPath(c.cat.Runtime.Command) {
		return CheckAbsent
	}
	res := c.exec.RunQuery(c.cat.Runtime.Version...)
	if !res.Succeeded {
		cPrintf(colWarn, "Cannot determine %s state: version query failed (exit %d)\n", c.cat.Runtime.Name, res.ExitCode)
		return CheckUnknown
	}
	return CheckPresent
}

// ModulePresent asks the module manager whether the named module is already
// available.
func (c *Checkers) ModulePresent(name string) CheckState {
	query := c.cat.Modules.Query
	if len(query) == 0 || !c.CommandOnPath(query[0]) {
		cPrintf(colWarn, "Cannot determine state of module %s: query tool unavailable\n", name)
		return CheckUnknown
	}
	res := c.exec.RunQuery(append(append([]string{}, query...), name)...)
	if res.Succeeded {
		return CheckPresent
	}
	return CheckAbsent
}

// RestoreConfigured reports whether the restore-point facility is installed
// and configured. Reading the config file needs no elevation.
func (c *Checkers) RestoreConfigured() CheckState {
	if !c.CommandOnPath(c.cat.Restore.Check[0]) {
		return CheckAbsent
	}
	if _, err := os.Stat(c.cat.Restore.Config); err != nil {
		return CheckAbsent
	}
	return CheckPresent
}

// ProfileContains scans a profile file for the marker. A missing file simply
// lacks the marker.
func ProfileContains(path, marker string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if strings.Contains(scanner.Text(), marker) {
			return true, nil
		}
	}
	return false, scanner.Err()
}

// containsLine reports whether any whitespace-trimmed line of s equals or
// contains the needle.
func containsLine(s, needle string) bool {
	for _, line := range strings.Split(s, "\n") {
		if strings.Contains(strings.TrimSpace(line), needle) {
			return true
		}
	}
	return false
}
