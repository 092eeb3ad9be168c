package upkeep

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lukechampine.com/blake3"
)

// stageProfile makes sure the shell profiles carry the completion hook and
// the PATH extension for user-installed tools. The completion hook lands in
// the first usable profile only; the PATH line is kept in every candidate.
func stageProfile(a *App) error {
	prof := a.Catalog.Profile

	stepf("checking shell completion hook")
	if err := augmentProfiles(a.Prompt, prof.Candidates, prof.ImportMarker, prof.ImportLine, importLineStopAfterFirst); err != nil {
		return err
	}

	stepf("checking PATH setup for user installs")
	return augmentProfiles(a.Prompt, prof.Candidates, prof.InitMarker, prof.InitLine, initLineStopAfterFirst)
}

// augmentProfiles appends line to each candidate profile whose content does
// not already mention marker, asking before every append. Candidates that do
// not exist are skipped rather than created. With stopAfterFirst set, the
// first profile that carries the marker, whether found or just appended, ends
// the scan.
func augmentProfiles(prompt *Prompter, candidates []string, marker, line string, stopAfterFirst bool) error {
	for _, cand := range candidates {
		path, err := expandHome(cand)
		if err != nil {
			return err
		}

		if _, err := os.Stat(path); err != nil {
			debugf("profile %s not present, skipping", path)
			continue
		}

		found, err := ProfileContains(path, marker)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		if found {
			cPrintf(colSuccess, "%s already set up.\n", path)
			if stopAfterFirst {
				return nil
			}
			continue
		}

		if !prompt.Confirm(colNote, true, "Add %q to %s?", line, path) {
			cPrintf(colNote, "%s left unchanged.\n", path)
			continue
		}
		if err := appendLine(path, line); err != nil {
			return fmt.Errorf("updating %s: %w", path, err)
		}
		cPrintf(colSuccess, "Updated %s.\n", path)
		if Debug {
			if sum, err := fileDigest(path); err == nil {
				debugf("%s blake3 %s", path, sum)
			}
		}
		if stopAfterFirst {
			return nil
		}
	}
	return nil
}

func expandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}

// appendLine adds line to the end of path, inserting a separating newline
// when the file does not already end with one.
func appendLine(path, line string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if len(data) > 0 && data[len(data)-1] != '\n' {
		if _, err := f.WriteString("\n"); err != nil {
			return err
		}
	}
	_, err = f.WriteString(line + "\n")
	return err
}

func fileDigest(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := blake3.Sum256(data)
	return fmt.Sprintf("%x", sum), nil
}
