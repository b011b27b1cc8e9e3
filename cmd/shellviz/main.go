package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/jskopek/shellviz"
	"github.com/jskopek/shellviz/modules/platform/config"
	"github.com/jskopek/shellviz/modules/platform/logger"
)

const (
	Version   = "0.1.0"
	BuildDate = "development"
)

func main() {
	args := os.Args[1:]
	configPath := ""
	port := 0
	verbose := false

	// Extract global flags
	var cmdArgs []string
	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case arg == "--config" || arg == "-c":
			if i+1 < len(args) {
				configPath = args[i+1]
				i++
			}
		case strings.HasPrefix(arg, "--config="):
			configPath = strings.TrimPrefix(arg, "--config=")
		case arg == "--port" || arg == "-p":
			if i+1 < len(args) {
				fmt.Sscanf(args[i+1], "%d", &port)
				i++
			}
		case strings.HasPrefix(arg, "--port="):
			fmt.Sscanf(strings.TrimPrefix(arg, "--port="), "%d", &port)
		case arg == "--verbose" || arg == "-v":
			verbose = true
		case arg == "--version" || arg == "-V":
			printVersion()
			return
		case arg == "--help" || arg == "-h":
			printHelp()
			return
		default:
			cmdArgs = append(cmdArgs, arg)
		}
	}

	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.DefaultConfig()
	}
	if port != 0 {
		cfg.Port = port
	}

	setupLogger(cfg, verbose)

	// No command: stream piped stdin to the log, or serve when
	// attached to a terminal.
	if len(cmdArgs) == 0 {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			cmdArgs = []string{"serve"}
		} else {
			cmdArgs = []string{"pipe"}
		}
	}

	cmdName := cmdArgs[0]
	cmdRemainingArgs := cmdArgs[1:]

	switch cmdName {
	case "version":
		printVersion()
	case "help":
		printHelp()
	case "serve":
		err = runServe(cfg)
	case "pipe":
		err = runPipe(cfg, cmdRemainingArgs)
	case "repl":
		err = runRepl(cfg)
	case "stats":
		err = runStats(cfg)
	case "clear":
		err = runClear(cfg)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmdName)
		fmt.Fprintf(os.Stderr, "Run 'shellviz help' for usage.\n")
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogger applies the config's logger section to the shared
// logger. --verbose forces DEBUG regardless of config.
func setupLogger(cfg *config.Config, verbose bool) {
	level := logger.INFO
	outputs := []io.Writer{os.Stderr}

	if cfg.Logger != nil {
		level = logger.ParseLevel(cfg.Logger.Level)
		if cfg.Logger.FilePath != "" {
			if file, err := logger.CreateLogFile(cfg.Logger.FilePath, cfg.Logger.MaxSizeMB); err == nil {
				outputs = append(outputs, file)
			} else {
				fmt.Fprintf(os.Stderr, "Warning: failed to open log file: %v\n", err)
			}
		}
	}
	if verbose {
		level = logger.DEBUG
	}

	logger.SetGlobalLogger(logger.NewLogger(level, outputs))
}

// runServe hosts a server in the foreground until interrupted.
func runServe(cfg *config.Config) error {
	client, err := shellviz.New(cfg)
	if err != nil {
		return err
	}
	defer client.Stop()

	if client.Mode() == shellviz.ModeRemote {
		fmt.Printf("Shellviz already running on %s\n", client.URL())
		return nil
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	fmt.Println("\nShutting down...")
	return nil
}

// runPipe streams stdin lines into a log entry, one line at a time.
func runPipe(cfg *config.Config, args []string) error {
	id := "log"
	if len(args) > 0 {
		id = args[0]
	}

	client, err := shellviz.New(cfg)
	if err != nil {
		return err
	}
	defer client.Stop()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		client.Log(scanner.Text(), map[string]any{"id": id})
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	// Let the last lines reach any connected viewer before the
	// hosting server dies with this process.
	client.Wait()
	return nil
}

// runClear wipes all entries on the running server.
func runClear(cfg *config.Config) error {
	client, err := shellviz.New(cfg)
	if err != nil {
		return err
	}
	defer client.Stop()
	return client.Clear()
}

func printVersion() {
	fmt.Printf("shellviz version %s\n", Version)
	fmt.Printf("Build: %s\n", BuildDate)
}

func printHelp() {
	fmt.Println("shellviz - print to the browser")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  shellviz [flags] [command]")
	fmt.Println("  some-program | shellviz [flags] [pipe [id]]")
	fmt.Println()
	fmt.Println("Global Flags:")
	fmt.Println("  -c, --config <path>    Path to config file")
	fmt.Println("  -p, --port <port>      Server port (default 5544)")
	fmt.Println("  -v, --verbose          Verbose output")
	fmt.Println("  -V, --version          Print version")
	fmt.Println("  -h, --help             Print help")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve        Host the viewer server (default on a terminal)")
	fmt.Println("  pipe [id]    Stream stdin lines to a log entry (default on a pipe)")
	fmt.Println("  repl         Interactive shell for sending data by hand")
	fmt.Println("  stats        Stream live system metrics to the viewer")
	fmt.Println("  clear        Wipe all entries on the running server")
	fmt.Println("  version      Print version")
	fmt.Println("  help         Print help")
}
