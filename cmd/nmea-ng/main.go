package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"nmea-ng/internal/config"
)

const (
	exitOK      = 0
	exitFailed  = 1
	exitUsage   = 2
	programName = "nmea-ng"
)

// env carries what every subcommand needs.
type env struct {
	cfg    config.Config
	log    *slog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, e *env, args []string) error
}

var commands = []command{
	{"encode", "encode one sentence from field values", runEncode},
	{"decode", "decode one sentence per input line", runDecode},
	{"record", "validate sentences and append them to a capture log", runRecord},
	{"replay", "play a capture log with its original timing", runReplay},
	{"summary", "print statistics about a capture log", runSummary},
}

// errUsage marks errors caused by bad invocation rather than bad data.
var errUsage = errors.New("usage error")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet(programName, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SetInterspersed(false)
	configPath := fs.StringP("config", "c", "", "Path to YAML config.")
	logLevel := fs.StringP("log-level", "l", "", "Log level: debug, info, warn or error. Overrides log.level.")
	fs.Usage = func() { usage(stderr, fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "config load failed: %v\n", err)
			return exitFailed
		}
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	logger, err := newLogger(stderr, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return exitUsage
	}

	rest := fs.Args()
	if len(rest) == 0 {
		usage(stderr, fs)
		return exitUsage
	}
	cmd, ok := lookupCommand(rest[0])
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", rest[0])
		usage(stderr, fs)
		return exitUsage
	}

	e := &env{cfg: cfg, log: logger.With("cmd", cmd.name), stdin: stdin, stdout: stdout, stderr: stderr}
	if err := cmd.run(ctx, e, rest[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		if errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "%s %s: %v\n", programName, cmd.name, err)
			return exitUsage
		}
		e.log.Error("command failed", "err", err)
		return exitFailed
	}
	return exitOK
}

func lookupCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func usage(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintf(w, "Usage: %s [flags] <command> [command flags] [args]\n\nCommands:\n", programName)
	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.summary)
	}
	fmt.Fprintf(w, "\nFlags:\n%s", fs.FlagUsages())
}

// newLogger returns a slog logger backed by a charmbracelet/log handler.
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	h := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          programName,
		ReportTimestamp: true,
	})
	return slog.New(h), nil
}

// newFlagSet returns a subcommand flag set that reports errors instead of
// exiting. Usage goes to stderr.
func newFlagSet(e *env, name, argsUsage string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(programName+" "+name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {
		fmt.Fprintf(e.stderr, "Usage: %s %s [flags] %s\n\nFlags:\n%s", programName, name, argsUsage, fs.FlagUsages())
	}
	return fs
}

func parseFlags(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}
