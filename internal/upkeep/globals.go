package upkeep

import (
	"runtime"

	"github.com/gookit/color"
)

// Global variables
var (
	ConfigFile  = "/etc/upkeep.conf"
	CatalogFile = "/etc/upkeep/catalog.yaml"

	Debug       bool
	AutoConfirm bool // every confirmation returns its default without prompting
	SilentExit  bool // skip the final key-press wait

	version   = "dev" // overridden at build time
	arch      = runtime.GOARCH
	buildDate = "unknown" // overridden at build time

	// Assigned in Main
	Sink *Transcript
	Priv *PrivilegeContext
)

// color helpers
var (
	colInfo    = color.Info // style provided by gookit/color
	colWarn    = color.Warn
	colError   = color.Error
	colSuccess = color.HEX("#1976D2")
	colArrow   = color.HEX("#FFEB3B")
	colNote    = color.Tag("notice")
)
