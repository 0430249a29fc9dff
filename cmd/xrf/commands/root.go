// Package commands defines the xrf command tree.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/meigma/xrf/cmd/xrf/cli"
)

// App holds the process environment commands run in.
type App struct {
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
}

// Root returns the top level command.
func Root(app *App) *cli.Command {
	return &cli.Command{
		Name:    "xrf",
		Summary: "Read, convert and verify X-Ray engine game data",
		Help:    app.Stderr,
		Subcommands: []*cli.Command{
			app.unpackSpawn(),
			app.packSpawn(),
			app.repackSpawn(),
			app.verifySpawn(),
			app.infoSpawn(),
			app.unpackParticles(),
			app.packParticles(),
			app.repackParticles(),
			app.verifyParticles(),
			app.infoParticles(),
			app.unpackArchive(),
			app.infoArchive(),
			app.readArchive(),
			app.verifyLtx(),
			app.formatLtx(),
			app.infoOgf(),
			app.infoOmf(),
		},
	}
}

// env is what a leaf command runs with once its flags are resolved.
type env struct {
	*App
	*cli.Globals
	logger *slog.Logger
	start  time.Time
}

// summary prints the one-line result of a command with the time it took.
func (e *env) summary(format string, args ...any) {
	if e.Silent {
		return
	}
	elapsed := time.Since(e.start).Round(time.Millisecond)
	fmt.Fprintf(e.Stdout, format+" in %s\n", append(args, elapsed)...)
}

// command builds a leaf command taking the shared flags plus those added
// by bind.
func (a *App) command(name, summary string, bind func(flags *pflag.FlagSet), run func(ctx context.Context, e *env) error) *cli.Command {
	var globals cli.Globals
	return &cli.Command{
		Name:    name,
		Summary: summary,
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
			globals = cli.Globals{}
			globals.AddFlags(flags)
			if bind != nil {
				bind(flags)
			}
			return flags
		},
		Run: func(ctx context.Context, flags *pflag.FlagSet, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("%s: unexpected arguments %q", name, args)
			}
			if err := globals.Resolve(flags, a.Getenv); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			e := &env{App: a, Globals: &globals, logger: globals.Logger(a.Stderr), start: time.Now()}
			return run(ctx, e)
		},
	}
}

func pathFlag(flags *pflag.FlagSet, p *string, usage string) {
	flags.StringVarP(p, "path", "p", "", usage)
}

func destFlag(flags *pflag.FlagSet, p *string, value, usage string) {
	flags.StringVarP(p, "dest", "d", value, usage)
}

func forceFlag(flags *pflag.FlagSet, p *bool, usage string) {
	flags.BoolVarP(p, "force", "f", false, usage)
}

func required(name, value string) error {
	if value == "" {
		return fmt.Errorf("--%s is required", name)
	}
	return nil
}

// prepareDir makes dir usable as an unpack destination. An existing
// directory is removed with force and rejected without it.
func prepareDir(dir string, force bool) error {
	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return err
	case !info.IsDir():
		return fmt.Errorf("%s exists and is not a directory", dir)
	case !force:
		return fmt.Errorf("%s already exists, use --force to replace it", dir)
	}
	return os.RemoveAll(dir)
}

// prepareFile rejects an existing output file unless force is set.
func prepareFile(path string, force bool) error {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return err
	case info.IsDir():
		return fmt.Errorf("%s is a directory", path)
	case !force:
		return fmt.Errorf("%s already exists, use --force to overwrite it", path)
	}
	return nil
}

// findings prints problems found by a verify command. They fail the
// command when strict is set or when fatal is true.
func (e *env) findings(items []string, fatal bool) error {
	for _, item := range items {
		fmt.Fprintf(e.Stdout, "  %s\n", item)
	}
	if len(items) > 0 && (fatal || e.Strict) {
		return &cli.ExitError{Code: 1}
	}
	return nil
}
