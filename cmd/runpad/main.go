// Package main is the entry point for the runpad script runner.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dshills/runpad/internal/app"
	"github.com/dshills/runpad/internal/language"
	"github.com/dshills/runpad/internal/run"
	"github.com/dshills/runpad/internal/watch"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(runMain())
}

type options struct {
	lang      string
	languages string
	list      bool
	watchMode bool
	timeout   time.Duration
	verbose   bool
}

func runMain() int {
	opts := parseFlags()

	logLevel := "info"
	if opts.verbose {
		logLevel = "debug"
	}

	application, err := app.New(app.Options{
		LanguagesPath: opts.languages,
		LogLevel:      logLevel,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Ensure scratch cleanup on all exit paths.
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = application.Shutdown(ctx)
	}()

	if opts.list {
		listLanguages(application.Languages())
		return 0
	}

	source, path, err := loadSource()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	langID := opts.lang
	if langID == "" {
		if langID = inferLanguage(application.Languages(), path); langID == "" {
			fmt.Fprintln(os.Stderr, "Error: no language selected (use -lang or a recognizable file extension)")
			return 1
		}
	}

	sig := make(chan os.Signal, 2)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	if opts.watchMode {
		if path == "" {
			fmt.Fprintln(os.Stderr, "Error: -watch requires a script file, not stdin")
			return 1
		}
		return watchLoop(application, path, langID, opts.timeout, sig)
	}

	code, _ := executeOnce(application, source, langID, opts.timeout, sig)
	return code
}

// executeOnce runs one script to completion, printing its event
// stream, and returns the exit code plus whether a signal interrupted
// the run.
func executeOnce(application *app.Application, source, langID string, timeout time.Duration, sig <-chan os.Signal) (int, bool) {
	sink := run.NewChannelSink(64)
	if _, err := application.Execute(source, langID, sink); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1, false
	}

	var timeoutCh <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	interrupted := false
	for {
		select {
		case ev := <-sink.Events():
			switch ev.Kind {
			case run.EventOutput:
				fmt.Println(ev.Line.Text)
			case run.EventDiagnostic:
				fmt.Printf(">> %s\n", ev.Line.Text)
			case run.EventCompleted:
				return exitCode(ev.Result), interrupted
			}

		case <-sig:
			interrupted = true
			application.Stop()

		case <-timeoutCh:
			timeoutCh = nil
			fmt.Printf("[timeout after %s]\n", timeout)
			application.Stop()
		}
	}
}

// exitCode reports a run result and maps it to a process exit code.
func exitCode(res run.Result) int {
	switch res.State {
	case run.StateFailed:
		fmt.Fprintf(os.Stderr, "Error: %v\n", res.Err)
		return 1
	case run.StateStopped:
		fmt.Println("[process terminated]")
		if res.ExitCode > 0 {
			return res.ExitCode
		}
		return 1
	default:
		if res.ExitCode >= 0 {
			return res.ExitCode
		}
		return 1
	}
}

// watchLoop reruns the script after every saved change until a signal
// arrives.
func watchLoop(application *app.Application, path, langID string, timeout time.Duration, sig <-chan os.Signal) int {
	w, err := watch.New(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer w.Close()

	log := application.Logger().WithComponent("watch")
	fmt.Printf("watching %s\n", w.Path())

	for {
		source, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}

		if _, interrupted := executeOnce(application, string(source), langID, timeout, sig); interrupted {
			return 130
		}

		select {
		case <-w.Changes():
		case err := <-w.Errors():
			log.Warn("%v", err)
		case <-sig:
			return 0
		}
	}
}

// loadSource reads the script from the file argument, or stdin when
// no argument is given. The path is empty for stdin.
func loadSource() (string, string, error) {
	if flag.NArg() > 1 {
		return "", "", fmt.Errorf("expected at most one script file, got %d", flag.NArg())
	}

	if flag.NArg() == 1 {
		path := flag.Arg(0)
		data, err := os.ReadFile(path)
		if err != nil {
			return "", "", err
		}
		return string(data), path, nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), "", nil
}

// inferLanguage matches the file extension against the registry.
func inferLanguage(reg *language.Registry, path string) string {
	if path == "" {
		return ""
	}

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	for _, desc := range reg.List() {
		if desc.Extension == ext {
			return desc.ID
		}
	}
	return ""
}

func listLanguages(reg *language.Registry) {
	fmt.Printf("%-10s %-12s %-6s %s\n", "ID", "NAME", "EXT", "COMMAND")
	for _, desc := range reg.List() {
		fmt.Printf("%-10s %-12s %-6s %s\n",
			desc.ID, desc.Name, desc.Extension, strings.Join(desc.Command, " "))
	}
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.lang, "lang", "", "Language id to run the script with")
	flag.StringVar(&opts.lang, "l", "", "Language id to run the script with (shorthand)")
	flag.StringVar(&opts.languages, "languages-config", "", "Path to a TOML file with additional languages")
	flag.StringVar(&opts.languages, "c", "", "Path to a TOML file with additional languages (shorthand)")
	flag.BoolVar(&opts.list, "list", false, "List configured languages and exit")
	flag.BoolVar(&opts.list, "L", false, "List configured languages and exit (shorthand)")
	flag.BoolVar(&opts.watchMode, "watch", false, "Rerun the script whenever the file changes")
	flag.BoolVar(&opts.watchMode, "w", false, "Rerun the script whenever the file changes (shorthand)")
	flag.DurationVar(&opts.timeout, "timeout", 0, "Force-terminate a run after this duration (0 disables)")
	flag.DurationVar(&opts.timeout, "t", 0, "Force-terminate a run after this duration (shorthand)")
	flag.BoolVar(&opts.verbose, "verbose", false, "Enable debug logging")
	flag.BoolVar(&opts.verbose, "v", false, "Enable debug logging (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Runpad - scratch-pad runner for script languages\n\n")
		fmt.Fprintf(os.Stderr, "Usage: runpad [options] [script-file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  runpad script.swift               Run a Swift script\n")
		fmt.Fprintf(os.Stderr, "  runpad -l kotlin snippet.txt      Force the language\n")
		fmt.Fprintf(os.Stderr, "  echo 'print(1)' | runpad -l swift Run from stdin\n")
		fmt.Fprintf(os.Stderr, "  runpad -w script.swift            Rerun on every save\n")
		fmt.Fprintf(os.Stderr, "  runpad -t 30s script.kts          Bound the run to 30s\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Runpad %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	return opts
}
