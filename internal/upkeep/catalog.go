package upkeep

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// ToolRequirement describes one installable dependency: the package-manager
// id and the human label used in prompts. Read-only, never mutated at runtime.
type ToolRequirement struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// ActionSpec is one fixed maintenance invocation. OKExit lists the exit codes
// that count as success for tools that encode partial success in nonzero
// codes; empty means only 0.
type ActionSpec struct {
	Label  string   `yaml:"label"`
	Argv   []string `yaml:"argv"`
	OKExit []int    `yaml:"ok_exit"`
}

// Accepts reports whether the given exit code counts as success for this action.
func (a ActionSpec) Accepts(code int) bool {
	if len(a.OKExit) == 0 {
		return code == 0
	}
	return slices.Contains(a.OKExit, code)
}

// PackageManagerSpec holds the argv templates for the host package manager.
// The id is appended to List and Install.
type PackageManagerSpec struct {
	Name       string   `yaml:"name"`
	List       []string `yaml:"list"`
	Install    []string `yaml:"install"`
	Preview    []string `yaml:"preview"`
	UpgradeAll []string `yaml:"upgrade_all"`
}

// RuntimeSpec describes the language runtime stage: how to detect it, install
// it, and upgrade its package manager plus a fixed package set.
type RuntimeSpec struct {
	Name      string   `yaml:"name"`
	Command   string   `yaml:"command"`
	Version   []string `yaml:"version"`
	Install   []string `yaml:"install"`
	Bootstrap []string `yaml:"bootstrap"` // package names are appended
	Packages  []string `yaml:"packages"`
}

// ModuleSpec describes the extension-module stage. The module name is
// appended to Query, Simulate and Install.
type ModuleSpec struct {
	Query    []string `yaml:"query"`
	Simulate []string `yaml:"simulate"`
	Install  []string `yaml:"install"`
	Names    []string `yaml:"names"`
}

// RestoreSpec describes the restore-point facility.
type RestoreSpec struct {
	Check  []string `yaml:"check"`
	Create []string `yaml:"create"`
	Config string   `yaml:"config"`
}

// ProfileSpec lists the candidate shell-profile files and the two marker
// lines the profile stage may append.
type ProfileSpec struct {
	Candidates   []string `yaml:"candidates"`
	ImportLine   string   `yaml:"import_line"`
	ImportMarker string   `yaml:"import_marker"`
	InitLine     string   `yaml:"init_line"`
	InitMarker   string   `yaml:"init_marker"`
}

// Catalog is the full declarative table of external collaborators. The core
// never hardcodes collaborator semantics; everything it runs comes from here.
type Catalog struct {
	PackageManager PackageManagerSpec `yaml:"package_manager"`
	Tools          []ToolRequirement  `yaml:"tools"`
	Runtime        RuntimeSpec        `yaml:"runtime"`
	Modules        ModuleSpec         `yaml:"modules"`
	Maintenance    []ActionSpec       `yaml:"maintenance"`
	Verify         []ActionSpec       `yaml:"verify"`
	Restore        RestoreSpec        `yaml:"restore"`
	Profile        ProfileSpec        `yaml:"profile"`
	Restart        []string           `yaml:"restart"`
}

// LoadCatalog parses the catalog at path, falling back to the embedded
// default when the file is absent. An override file replaces the embedded
// catalog wholesale.
func LoadCatalog(path string) (*Catalog, error) {
	data := defaultCatalog
	if path != "" {
		if b, err := os.ReadFile(path); err == nil {
			data = b
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
		}
	}

	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return &cat, nil
}
