package cli

import (
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/term"
)

// Output formats of the info commands.
const (
	FormatText = "text"
	FormatYAML = "yaml"
)

// Globals are the flags every command accepts.
type Globals struct {
	Config    string
	Silent    bool
	Verbose   bool
	Strict    bool
	Workers   int
	Format    string
	ByteOrder string

	order binary.ByteOrder
}

// AddFlags registers the shared flags on flags.
func (g *Globals) AddFlags(flags *pflag.FlagSet) {
	flags.StringVar(&g.Config, "config", "", "config file, .yaml or .jsonc (default $"+ConfigEnv+")")
	flags.BoolVar(&g.Silent, "silent", false, "disable logging and summary lines")
	flags.BoolVar(&g.Verbose, "verbose", false, "log debug messages")
	flags.BoolVar(&g.Strict, "strict", false, "fail on findings that are otherwise only reported")
	flags.IntVar(&g.Workers, "workers", 0, "parallel workers; 0 selects the default, <0 runs serially")
	flags.StringVar(&g.Format, "format", FormatText, "output format of info commands: text or yaml")
	flags.StringVar(&g.ByteOrder, "byte-order", "little", "byte order of binary files: little or big")
}

// Resolve fills every flag that was not given on the command line from
// the config file, when one is named by --config or $XRF_CONFIG, and
// validates the result.
func (g *Globals) Resolve(flags *pflag.FlagSet, getenv func(string) string) error {
	path := g.Config
	if path == "" && getenv != nil {
		path = getenv(ConfigEnv)
	}
	if path != "" {
		c, err := LoadConfig(path)
		if err != nil {
			return err
		}
		g.apply(flags, c)
	}

	if g.Format != FormatText && g.Format != FormatYAML {
		return fmt.Errorf("--format %q, expected %s or %s", g.Format, FormatText, FormatYAML)
	}
	order, err := ParseByteOrder(g.ByteOrder)
	if err != nil {
		return err
	}
	g.order = order
	return nil
}

func (g *Globals) apply(flags *pflag.FlagSet, c *Config) {
	unset := func(name string) bool {
		return !flags.Changed(name)
	}
	if c.Workers != nil && unset("workers") {
		g.Workers = *c.Workers
	}
	if c.Strict != nil && unset("strict") {
		g.Strict = *c.Strict
	}
	if c.Verbose != nil && unset("verbose") {
		g.Verbose = *c.Verbose
	}
	if c.Silent != nil && unset("silent") {
		g.Silent = *c.Silent
	}
	if c.ByteOrder != "" && unset("byte-order") {
		g.ByteOrder = c.ByteOrder
	}
}

// Order returns the resolved byte order.
func (g *Globals) Order() binary.ByteOrder {
	if g.order == nil {
		return binary.LittleEndian
	}
	return g.order
}

// Logger builds the command logger writing to w.
func (g *Globals) Logger(w io.Writer) *slog.Logger {
	return NewLogger(w, g.Silent, g.Verbose)
}

// NewLogger returns a logger on w. Terminals get text output and
// everything else JSON lines. silent discards all records and verbose
// enables debug records.
func NewLogger(w io.Writer, silent, verbose bool) *slog.Logger {
	if silent {
		return slog.New(slog.DiscardHandler)
	}
	options := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		options.Level = slog.LevelDebug
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // file descriptors fit in int
		return slog.New(slog.NewTextHandler(w, options))
	}
	return slog.New(slog.NewJSONHandler(w, options))
}
