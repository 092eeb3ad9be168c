package upkeep

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gookit/color"
	flag "github.com/spf13/pflag"
)

// printHelp prints the commands table
func printHelp() {
	colSuccess.Println("Usage: upkeep [flags] [command]")
	colSuccess.Println("Running without a command starts a maintenance session")
	fmt.Println()
	color.Info.Println("Available Commands:")

	type cmdInfo struct {
		Cmd  string
		Desc string
	}
	cmds := []cmdInfo{
		{"version, --version", "Version information"},
		{"log", "TUI session transcript viewer"},
		{"upload", "Bundle archived transcripts and upload them"},
		{"help", "Show this help"},
	}

	maxLen := 0
	for _, c := range cmds {
		if len(c.Cmd) > maxLen {
			maxLen = len(c.Cmd)
		}
	}
	columnWidth := maxLen + 4

	for _, c := range cmds {
		fmt.Print("  ")
		color.Bold.Print(c.Cmd)
		pad := columnWidth - len(c.Cmd)
		if pad < 1 {
			pad = 1
		}
		fmt.Print(spaces(pad))
		color.Info.Println(c.Desc)
	}

	fmt.Println()
	color.Info.Println("Flags:")
	fmt.Println(flag.CommandLine.FlagUsages())
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

// Main is the CLI entrypoint for cmd/upkeep.
func Main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	flag.BoolVarP(&AutoConfirm, "auto-confirm", "y", false, "answer every confirmation with its default")
	flag.BoolVarP(&SilentExit, "silent", "s", false, "skip the final key-press wait")
	flag.BoolVar(&Debug, "debug", false, "verbose diagnostics")
	flag.Parse()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	// Interrupts cancel the run but still count as a normal end of session:
	// the transcript is closed and the process exits 0. A second interrupt
	// forces an immediate exit.
	go func() {
		for {
			select {
			case sig := <-sigs:
				colArrow.Print("\n-> ")
				color.Danger.Printf("Received %v. Cancelling the session\n", sig)
				cancel()

				// Give the running command a moment to die and flush.
				time.Sleep(100 * time.Millisecond)

				select {
				case <-sigs:
					colArrow.Print("\n-> ")
					color.Danger.Printf("Second interrupt received. Forcing immediate exit.")
					if Sink != nil {
						Sink.Close()
					}
					os.Exit(130)
				case <-time.After(2 * time.Second):
					if Sink != nil {
						Sink.Close()
					}
					os.Exit(0)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	if ctx.Err() != nil {
		return
	}

	cfg, err := loadConfig(ConfigFile)
	if err != nil {
		debugf("config load: %v", err)
	}
	mergeEnvOverrides(cfg)
	initConfig(cfg)

	cmd := ""
	if flag.NArg() > 0 {
		cmd = flag.Arg(0)
	}

	switch cmd {
	case "version", "--version":
		colNote.Printf("upkeep %s (%s) built %s\n", version, arch, buildDate)

	case "log":
		if err := viewTranscripts(transcriptPath(cfg)); err != nil {
			fmt.Fprintf(os.Stderr, "Log viewer failed: %v\n", err)
			os.Exit(1)
		}

	case "upload":
		if err := handleUploadCommand(ctx, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Upload failed: %v\n", err)
			os.Exit(1)
		}

	case "help", "-h", "--help":
		printHelp()

	case "":
		runSession(ctx, cfg)

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printHelp()
		os.Exit(1)
	}
}

// runSession is the default command: open the transcript, confirm, and walk
// the maintenance stages.
func runSession(ctx context.Context, cfg *Config) {
	priv, err := ProbePrivileges()
	if err != nil {
		if errors.Is(err, errNoShell) {
			fmt.Fprintln(os.Stderr, "No usable shell found; cannot run maintenance commands.")
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Privilege probe failed: %v\n", err)
		os.Exit(1)
	}
	if s := cfg.Values["UPKEEP_SHELL"]; s != "" {
		if _, statErr := os.Stat(s); statErr == nil {
			priv.ShellPath = s
		} else {
			fmt.Fprintf(os.Stderr, "Configured shell %s not found, using %s\n", s, priv.ShellPath)
		}
	}
	Priv = priv

	cat, err := LoadCatalog(catalogPath(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Catalog load failed: %v\n", err)
		os.Exit(1)
	}

	prompt := NewPrompter(AutoConfirm)

	logPath := transcriptPath(cfg)
	overwrite := false
	if _, statErr := os.Stat(logPath); statErr == nil {
		// Declining appends to the existing transcript.
		overwrite = isYes(prompt.Ask(colNote, "A previous transcript exists. Archive it and start fresh?", false))
	}
	sink, err := OpenTranscript(logPath, overwrite)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot open transcript %s: %v\n", logPath, err)
		os.Exit(1)
	}
	Sink = sink
	defer Sink.Close()

	// Route colored output through the transcript tee as well.
	color.SetOutput(Sink)
	defer color.ResetOutput()

	cPrintln(colSuccess, "upkeep "+version)
	cPrintln(colInfo, hostBanner())
	cPrintln(colInfo, Priv.describe())
	cPrintln(colNote, "Transcript: "+logPath)
	fmt.Fprintln(stdout())

	if !prompt.Confirm(colNote, true, "Start the maintenance session?") {
		cPrintln(colNote, "Session cancelled.")
		Sink.Close()
		return
	}

	exec := NewExecutor(ctx, Priv)
	app := &App{
		Ctx:     ctx,
		Cfg:     cfg,
		Catalog: cat,
		Prompt:  prompt,
		Exec:    exec,
		Checks:  NewCheckers(exec, cat),
	}
	app.RunPipeline()

	fmt.Fprintln(stdout())
	cPrintln(colSuccess, "Maintenance session finished.")
	Sink.Close()

	if !SilentExit {
		pressAnyKey()
	}
}

func catalogPath(cfg *Config) string {
	if cfg != nil {
		if p := cfg.Values["UPKEEP_CATALOG"]; p != "" {
			return p
		}
	}
	return CatalogFile
}
