// Command algo-vocal runs vocal takes through the mastering chain and
// calibrates stem levels against a master mix.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/cwbudde/algo-vocal/dsp/vocalchain"
	"github.com/cwbudde/algo-vocal/internal/cli"
)

// Set at build time.
var version = "dev"

type versionFlag bool

func (versionFlag) BeforeReset(app *kong.Kong, vars kong.Vars) error {
	cli.PrintVersion(app.Stdout, vars["version"])
	app.Exit(0)
	return nil
}

// globals are shared by every command.
type globals struct {
	Version versionFlag `help:"Show version information."`
	Verbose bool        `short:"v" help:"Enable debug logging."`
	LogFile string      `name:"log-file" placeholder:"PATH" help:"Write logs to a file instead of stderr."`
}

type rootCmd struct {
	Globals globals `embed:""`

	Process   processCmd   `cmd:"" help:"Run vocal takes through the mastering chain."`
	Calibrate calibrateCmd `cmd:"" help:"Suggest gain adjustments that match stems to a master mix."`
	Preset    presetCmd    `cmd:"" help:"Print the default chain configuration as JSON."`
}

// runContext carries what commands need beyond their own flags.
type runContext struct {
	ctx    context.Context
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

func main() {
	var root rootCmd
	kctx := kong.Parse(&root,
		kong.Name("algo-vocal"),
		kong.Description("Vocal mastering chain."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
		kong.Configuration(kong.JSON, ".algo-vocal.json", "~/.config/algo-vocal/config.json"),
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger, closeLog, err := newLogger(root.Globals, os.Stderr)
	if err != nil {
		cli.PrintError(os.Stderr, err.Error())
		os.Exit(1)
	}

	rc := &runContext{ctx: ctx, logger: logger, stdout: os.Stdout, stderr: os.Stderr}
	err = kctx.Run(rc, &root.Globals)
	closeLog()
	if err != nil {
		cli.PrintError(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// newLogger builds the slog logger for g. Without a log file it writes to
// fallback.
func newLogger(g globals, fallback io.Writer) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if g.Verbose {
		level = slog.LevelDebug
	}

	w := fallback
	closeFn := func() {}
	if g.LogFile != "" {
		f, err := os.OpenFile(g.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		w = f
		closeFn = func() { f.Close() }
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closeFn, nil
}

func writeConfigFile(path string, cfg vocalchain.Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := vocalchain.WriteConfig(f, cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
