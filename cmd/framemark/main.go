//  BYZRA ⸻ cmd/main.go <>
// +---------------------------------------------------------------------+
//  8888888 88888b.  ,8b.   88b   d88 8888888 88b   d88  ,8b.   88888b. 888 d8P |
//  888     888  88b 88'8o  888b d888 888     888b d888  88'8o  888  88b 888d8P  |____________________
//  888PPP  88888P'  88PPY8.888Y8P888 888PPP  888Y8P888  88PPY8.88888P'  8888K   .go <--| CLI entrypoint +
//  888     888 T88b 8b   `Y'888 Y 888 8888888 888 Y 888 8b   `Y'888 T88b 888 Y88b

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"framemark/internal/analyse"
	"framemark/internal/batch"
	"framemark/internal/config"
	"framemark/internal/daemon"
	"framemark/internal/logging"
	"framemark/internal/render"
	"framemark/internal/util"
)

func main() {
	util.Wiper()

	printHeader()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "render", "frame":
		handleRenderCommand(os.Args[2:])
	case "batch":
		handleBatchCommand(os.Args[2:])
	case "info", "analyse", "analyze":
		handleInfoCommand(os.Args[2:])
	case "daemon":
		handleDaemonCommand(os.Args[2:])
	case "config":
		handleConfigCommand(os.Args[2:])
	case "help":
		util.Wiper()
		printUsage()
	case "version":
		printVersion()
	default:
		util.Wiper()
		fmt.Println(util.LBL.Render("[!] Unknown command: " + command))
		printUsage()
		os.Exit(1)
	}
}

// ╭─ ARGS ──────────────────────────────────────╮
type cliArgs struct {
	positional []string
	output     string
	profile    string
	jobs       int
	strict     bool
	verbose    bool
	keep       bool
	last       bool
}

func parseArgs(args []string) (*cliArgs, error) {
	a := &cliArgs{}

	value := func(i int, name string) (string, error) {
		if i+1 >= len(args) {
			return "", fmt.Errorf("%s requires a value", name)
		}
		return args[i+1], nil
	}

	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "-o", "--output":
			v, err := value(i, arg)
			if err != nil {
				return nil, err
			}
			a.output = v
			i++
		case "-p", "--profile":
			v, err := value(i, arg)
			if err != nil {
				return nil, err
			}
			a.profile = v
			i++
		case "-j", "--jobs":
			v, err := value(i, arg)
			if err != nil {
				return nil, err
			}
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("invalid job count: %s", v)
			}
			a.jobs = n
			i++
		case "--strict":
			a.strict = true
		case "--keep":
			a.keep = true
		case "--last":
			a.last = true
		case "-v", "--verbose":
			a.verbose = true
		default:
			if strings.HasPrefix(arg, "-") {
				return nil, fmt.Errorf("unknown option: %s", arg)
			}
			a.positional = append(a.positional, arg)
		}
	}

	return a, nil
}

func fail(msg string) {
	fmt.Println(util.LBL.Render("[X] " + msg))
	os.Exit(1)
}

// config + optional profile, and a renderer built from both
func setup(a *cliArgs) (*config.Config, *render.Renderer, *logging.Logger) {
	cfg, err := config.LoadConfig()
	if err != nil {
		fail("Config error: " + err.Error())
	}

	if a.profile != "" {
		profile, err := config.LoadProfile(a.profile)
		if err != nil {
			fail("Profile error: " + err.Error())
		}
		if err := profile.Apply(cfg); err != nil {
			fail("Profile error: " + err.Error())
		}
	}

	level := logging.LevelWarning
	if a.verbose {
		level = logging.LevelDebug
	}
	logger := logging.NewWriterLogger(os.Stderr, level)

	opts := render.OptionsFromConfig(cfg)
	if a.output != "" {
		opts.OutputDir = config.ExpandHome(a.output)
	}
	if a.strict {
		opts.Strict = true
	}
	if a.keep {
		opts.Overwrite = false
	}

	r, err := render.NewRenderer(cfg, opts, logger)
	if err != nil {
		fail("Config error: " + err.Error())
	}

	return cfg, r, logger
}

// ╭─ RENDER ────────────────────────────────────╮
func handleRenderCommand(args []string) {
	util.Wiper()

	a, err := parseArgs(args)
	if err != nil {
		fail(err.Error())
	}

	if len(a.positional) < 1 {
		fmt.Println(util.LBL.Render("[X] No image specified for framing"))
		fmt.Println(util.SUB.Render("Usage: framemark render <image> [options]"))
		os.Exit(1)
	}

	_, r, _ := setup(a)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	failed := false
	for _, path := range a.positional {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			fmt.Println(util.LBL.Render("[X] File not found: " + path))
			failed = true
			continue
		}

		fmt.Println(util.NSH.Render("[~] Framing: " + path))

		out, err := util.SpinWhile("[~] Compositing", func() (string, error) {
			result, err := r.RenderFile(ctx, path)
			if err != nil {
				return "", err
			}
			return render.FormatRenderResult(result), nil
		})
		if err != nil {
			fmt.Println(util.LBL.Render("[X] Render failed: " + err.Error()))
			if render.IsMetadataError(err) {
				fmt.Println(util.SUB.Render("    drop --strict to frame with blank fields"))
			}
			failed = true
			continue
		}

		fmt.Println(out)
	}

	if failed {
		os.Exit(1)
	}
}

// ╭─ BATCH ─────────────────────────────────────╮
func handleBatchCommand(args []string) {
	util.Wiper()

	a, err := parseArgs(args)
	if err != nil {
		fail(err.Error())
	}

	cfg, r, logger := setup(a)

	history, err := config.LoadHistory(config.DefaultHistoryPath(), cfg.MaxFolderHistory)
	if err != nil {
		logger.Warningf("[!] Ignoring folder history: %v", err)
		history = config.NewHistory(config.DefaultHistoryPath(), cfg.MaxFolderHistory)
	}

	var dir string
	switch {
	case len(a.positional) > 0:
		dir = a.positional[0]
	case a.last:
		last, ok := history.Last()
		if !ok {
			fail("No folder history yet")
		}
		dir = last
	default:
		fmt.Println(util.LBL.Render("[X] No folder specified"))
		fmt.Println(util.SUB.Render("Usage: framemark batch <folder>|--last [options]"))
		os.Exit(1)
	}

	paths, err := batch.ListImages(dir)
	if err != nil {
		fail(err.Error())
	}
	if len(paths) == 0 {
		fmt.Println(util.NSH.Render("[!] No supported images in " + dir))
		return
	}

	history.Add(dir)
	if err := history.Save(); err != nil {
		logger.Warningf("[!] Could not save folder history: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(util.NSH.Render(fmt.Sprintf("[~] Framing %d images in %s", len(paths), dir)))

	line := util.NewProgressLine(len(paths))
	summary := batch.Run(ctx, r, paths, batch.Options{
		Workers:  a.jobs,
		Progress: func(it batch.Item) { line.Step(filepath.Base(it.Path)) },
	})
	line.Finish()

	fmt.Print(batch.FormatSummary(summary))

	if summary.Failed > 0 || summary.Cancelled > 0 {
		os.Exit(1)
	}
}

// ╭─ INFO ──────────────────────────────────────╮
func handleInfoCommand(args []string) {
	util.Wiper()

	plain := false
	var paths []string
	for _, arg := range args {
		if arg == "--plain" {
			plain = true
			continue
		}
		paths = append(paths, arg)
	}

	if len(paths) < 1 {
		fmt.Println(util.LBL.Render("[X] No file specified for analysis"))
		fmt.Println(util.SUB.Render("Usage: framemark info <image>... [--plain]"))
		os.Exit(1)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			fail("File not found: " + path)
		}
	}

	if plain {
		for _, report := range analyse.AnalyzeFiles(context.Background(), paths) {
			fmt.Println(analyse.GenerateSimplifiedReport(report))
		}
		return
	}

	fmt.Println(util.NSH.Render("[~] Analyzing: " + strings.Join(paths, ", ")))

	result, err := util.SpinWhile("[~] Reading metadata", func() (string, error) {
		var sb strings.Builder
		for _, report := range analyse.AnalyzeFiles(context.Background(), paths) {
			if report.FileType.Format == "error" {
				return "", fmt.Errorf("%s: %w", report.Path, report.ExtractErr)
			}
			sb.WriteString(analyse.GenerateReport(report))
		}
		return sb.String(), nil
	})
	if err != nil {
		fail("Analysis failed: " + err.Error())
	}

	fmt.Println(util.LBL.Render("[✓] Analysis completed successfully"))
	fmt.Println(result)
}

// ╭─ DAEMON ────────────────────────────────────╮
func handleDaemonCommand(args []string) {
	util.Wiper()

	if len(args) < 1 {
		fmt.Println(util.LBL.Render("[X] Daemon mode requires a subcommand"))
		fmt.Println(util.SUB.Render("Usage: framemark daemon [on|off|status]"))
		os.Exit(1)
	}

	pidFile := daemon.PIDPath()

	switch subcommand := args[0]; subcommand {
	case "on", "start":
		if pid, ok := runningPID(pidFile); ok {
			fmt.Println(util.NSH.Render(fmt.Sprintf("[!] Daemon is already running (PID %d)", pid)))
			os.Exit(0)
		}

		a, err := parseArgs(args[1:])
		if err != nil {
			fail(err.Error())
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			fail("Config error: " + err.Error())
		}
		if a.profile != "" {
			profile, err := config.LoadProfile(a.profile)
			if err == nil {
				err = profile.Apply(cfg)
			}
			if err != nil {
				fail("Profile error: " + err.Error())
			}
		}

		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			fail(err.Error())
		}
		logger, err := logging.NewLogger(daemon.LogPath(), level)
		if err != nil {
			fail("Failed to open log: " + err.Error())
		}
		defer logger.Close()

		fmt.Println(util.NSH.Render("[~] Starting daemon..."))

		d, err := daemon.NewDaemon(cfg, logger)
		if err != nil {
			fail("Failed to create daemon: " + err.Error())
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := d.Start(ctx); err != nil {
			fail("Failed to start daemon: " + err.Error())
		}

		if err := os.MkdirAll(filepath.Dir(pidFile), 0755); err != nil {
			fmt.Println(util.LBL.Render("[!] Could not create daemon directory"))
		}
		if err := os.WriteFile(pidFile, fmt.Appendf(nil, "%d", os.Getpid()), 0644); err != nil {
			fmt.Println(util.LBL.Render("[!] Could not write PID file"))
		}
		defer os.Remove(pidFile)

		fmt.Println(util.NSH.Render("[✓] Daemon started successfully"))
		for _, dir := range cfg.Daemon.Paths {
			fmt.Println(util.SUB.Render("    watching " + dir))
		}

		<-ctx.Done()

		st := d.Status()
		d.Stop()
		fmt.Println(util.NSH.Render(fmt.Sprintf("[✓] Daemon stopped: %d framed, %d errors", st.ProcessedFiles, st.ErrorCount)))

	case "off", "stop":
		pid, ok := runningPID(pidFile)
		if !ok {
			fmt.Println(util.NSH.Render("[!] Daemon is not running"))
			os.Exit(0)
		}

		fmt.Println(util.NSH.Render(fmt.Sprintf("[~] Stopping daemon (PID %d)...", pid)))

		proc, err := os.FindProcess(pid)
		if err == nil {
			err = proc.Signal(syscall.SIGTERM)
		}
		if err != nil {
			fmt.Println(util.LBL.Render("[!] Could not signal daemon: " + err.Error()))
			os.Remove(pidFile)
			os.Exit(1)
		}

		fmt.Println(util.NSH.Render("[✓] Daemon stopped"))

	case "status":
		if pid, ok := runningPID(pidFile); ok {
			fmt.Println(util.NSH.Render(fmt.Sprintf("[...] Daemon is running (PID %d)", pid)))
			fmt.Println(util.SUB.Render("      log: " + daemon.LogPath()))
		} else {
			fmt.Println(util.NSH.Render("[...] Daemon is not running"))
		}

	default:
		fmt.Println(util.LBL.Render("[X] Unknown daemon command: " + subcommand))
		fmt.Println(util.SUB.Render("Usage: framemark daemon [on|off|status]"))
		os.Exit(1)
	}
}

// pid from the pid file, if that process is still alive
func runningPID(pidFile string) (int, bool) {
	data, err := os.ReadFile(pidFile)
	if err != nil {
		return 0, false
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return 0, false
	}
	if err := proc.Signal(syscall.Signal(0)); err != nil && !errors.Is(err, os.ErrPermission) {
		os.Remove(pidFile) // stale
		return 0, false
	}
	return pid, true
}

// ╭─ CONFIG ────────────────────────────────────╮
func handleConfigCommand(args []string) {
	util.Wiper()

	if len(args) < 1 || args[0] != "init" {
		fmt.Println(util.SUB.Render("Usage: framemark config init [--force]"))
		os.Exit(1)
	}

	force := len(args) > 1 && args[1] == "--force"

	dir, err := config.SetupConfigDir()
	if err != nil {
		fail(err.Error())
	}

	path := filepath.Join(dir, config.FileName)
	if err := config.WriteDefaultConfig(path, force); err != nil {
		fail(err.Error())
	}

	fmt.Println(util.LBL.Render("[✓] Wrote " + path))
}

func printHeader() {
	const art = `
	8888888 88888b.  ,8b.   88b   d88 8888888 88b   d88  ,8b.   88888b. 888 d8P
	888     888  88b 88'8o  888b d888 888     888b d888  88'8o  888  88b 888d8P
	888PPP  88888P'  88PPY8.888Y8P888 888PPP  888Y8P888  88PPY8.88888P'  8888K
	888     888 T88b 8b   ´Y'888 Y 888 8888888 888 Y 888 8b   ´Y'888 T88b 888 Y88b
`

	fmt.Printf("\n%s\n", util.LBL.Render(art))
	fmt.Printf("%s %s\n\n",
		util.NSH.Render("	→"),
		util.SHE.Render("Photo Frame & Metadata Watermark Utility"))
}

func printUsage() {
	fmt.Println(util.LBL.Render("USAGE"))
	fmt.Println("  framemark <command> [options]")
	fmt.Println("")
	fmt.Println(util.LBL.Render("COMMANDS"))
	fmt.Println("  render <image>...        frame photos into the export folder")
	fmt.Println("  batch <folder>|--last    frame every photo in a folder")
	fmt.Println("  info <image>... [--plain] show the metadata a frame would use")
	fmt.Println("  daemon <on|off|status>   frame new photos in watched folders")
	fmt.Println("  config init [--force]    write the default config file")
	fmt.Println("  help                     show this help information")
	fmt.Println("  version                  show version information")
	fmt.Println("")
	fmt.Println(util.LBL.Render("OPTIONS"))
	fmt.Println("  -o, --output <dir>       export folder (default <folder>/export)")
	fmt.Println("  -p, --profile <name>     apply a lua style profile")
	fmt.Println("  -j, --jobs <n>           concurrent renders for batch")
	fmt.Println("  --strict                 fail on missing metadata")
	fmt.Println("  --keep                   skip photos already exported")
	fmt.Println("  -v, --verbose            log to stderr")
}

func printVersion() {
	util.Wiper()

	fmt.Println(util.LBL.Render("FRAMEMARK v1.0.0"))
	fmt.Println(util.LBL.Render("→ Frames photos with a camera metadata strip"))
	fmt.Println("")
	fmt.Println(util.NSH.Render("Copyright (c) 2025 bxavaby"))
}
