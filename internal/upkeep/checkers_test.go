package upkeep

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePath swaps the lookPath seam for the duration of a test. Names listed
// in found resolve; everything else is missing.
func fakePath(t *testing.T, found ...string) {
	t.Helper()
	orig := lookPath
	lookPath = func(name string) (string, error) {
		for _, f := range found {
			if f == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
	t.Cleanup(func() { lookPath = orig })
}

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	cat, err := LoadCatalog("")
	require.NoError(t, err)
	return cat
}

func newTestCheckers(t *testing.T, rec *processRecorder) (*Checkers, *Catalog) {
	cat := testCatalog(t)
	e := newTestExecutor(&PrivilegeContext{ShellPath: "/bin/sh"}, rec)
	return NewCheckers(e, cat), cat
}

func TestPackageInstalled(t *testing.T) {
	fakePath(t, "flatpak")

	tests := []struct {
		name string
		rec  *processRecorder
		id   string
		want CheckState
	}{
		{
			name: "present",
			rec:  &processRecorder{outs: []string{"Flatseal\tcom.github.tchx84.Flatseal\t2.3.0\n"}},
			id:   "com.github.tchx84.Flatseal",
			want: CheckPresent,
		},
		{
			name: "absent",
			rec:  &processRecorder{outs: []string{"Something Else\torg.example.Other\t1.0\n"}},
			id:   "com.github.tchx84.Flatseal",
			want: CheckAbsent,
		},
		{
			name: "listing failed",
			rec:  &processRecorder{codes: []int{1}},
			id:   "com.github.tchx84.Flatseal",
			want: CheckUnknown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCheckers(t, tt.rec)
			assert.Equal(t, tt.want, c.PackageInstalled(tt.id))
		})
	}
}

func TestPackageInstalledToolMissing(t *testing.T) {
	fakePath(t) // nothing on PATH
	rec := &processRecorder{}
	c, _ := newTestCheckers(t, rec)

	assert.Equal(t, CheckUnknown, c.PackageInstalled("com.github.tchx84.Flatseal"))
	assert.Empty(t, rec.calls, "no query may run when the tool is missing")
}

func TestRuntimePresent(t *testing.T) {
	fakePath(t, "python3")
	c, _ := newTestCheckers(t, &processRecorder{outs: []string{"Python 3.12.4\n"}})
	assert.Equal(t, CheckPresent, c.RuntimePresent())
}

func TestRuntimeAbsentWhenCommandMissing(t *testing.T) {
	fakePath(t)
	rec := &processRecorder{}
	c, _ := newTestCheckers(t, rec)
	assert.Equal(t, CheckAbsent, c.RuntimePresent())
	assert.Empty(t, rec.calls)
}

func TestRuntimeUnknownWhenVersionQueryFails(t *testing.T) {
	fakePath(t, "python3")
	c, _ := newTestCheckers(t, &processRecorder{codes: []int{1}})
	assert.Equal(t, CheckUnknown, c.RuntimePresent())
}

func TestModulePresent(t *testing.T) {
	fakePath(t, "python3")

	c, _ := newTestCheckers(t, &processRecorder{outs: []string{"Name: pipx\n"}})
	assert.Equal(t, CheckPresent, c.ModulePresent("pipx"))

	c, _ = newTestCheckers(t, &processRecorder{codes: []int{1}})
	assert.Equal(t, CheckAbsent, c.ModulePresent("pipx"))
}

func TestRestoreConfigured(t *testing.T) {
	fakePath(t, "timeshift")
	rec := &processRecorder{}
	c, cat := newTestCheckers(t, rec)

	// Config file absent.
	cat.Restore.Config = filepath.Join(t.TempDir(), "missing.json")
	assert.Equal(t, CheckAbsent, c.RestoreConfigured())

	// Config file present.
	cfg := filepath.Join(t.TempDir(), "timeshift.json")
	require.NoError(t, os.WriteFile(cfg, []byte("{}"), 0o644))
	cat.Restore.Config = cfg
	assert.Equal(t, CheckPresent, c.RestoreConfigured())
}

func TestRestoreConfiguredToolMissing(t *testing.T) {
	fakePath(t)
	c, _ := newTestCheckers(t, &processRecorder{})
	assert.Equal(t, CheckAbsent, c.RestoreConfigured())
}

func TestProfileContains(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".bashrc")
	require.NoError(t, os.WriteFile(path, []byte("export PATH=\"$HOME/.local/bin:$PATH\"\nalias ll='ls -l'\n"), 0o644))

	found, err := ProfileContains(path, ".local/bin")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = ProfileContains(path, "register-python-argcomplete")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestProfileContainsMissingFile(t *testing.T) {
	found, err := ProfileContains(filepath.Join(t.TempDir(), "nope"), "x")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestContainsLine(t *testing.T) {
	out := "  foo\nbar baz\n"
	assert.True(t, containsLine(out, "foo"))
	assert.True(t, containsLine(out, "bar"))
	assert.False(t, containsLine(out, "qux"))
}
