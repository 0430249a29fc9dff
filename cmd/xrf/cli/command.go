// Package cli is the small command framework behind the xrf binary:
// a tree of commands with pflag flag sets, the flags every command
// shares, config file loading and output rendering.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

// Command is a CLI command or a group of subcommands.
type Command struct {
	// Name is the command name as typed by the user.
	Name string

	// Summary is the one-line description shown in the parent's listing.
	Summary string

	// Usage overrides the synthesized usage line.
	Usage string

	// Flags returns a fresh flag set for this command. Nil means the
	// command takes no flags.
	Flags func() *pflag.FlagSet

	// Subcommands are dispatched by the first positional argument.
	Subcommands []*Command

	// Run executes the command with the parsed flag set and the
	// remaining positional arguments.
	Run func(ctx context.Context, flags *pflag.FlagSet, args []string) error

	// Help receives help output. Nil discards it.
	Help io.Writer

	parent *Command
}

// Execute parses args and runs the matching command.
func (c *Command) Execute(ctx context.Context, args []string) error {
	if len(args) > 0 && isHelpFlag(args[0]) {
		c.PrintHelp(c.helpWriter())
		return nil
	}

	if len(c.Subcommands) > 0 {
		if len(args) == 0 || strings.HasPrefix(args[0], "-") {
			c.PrintHelp(c.helpWriter())
			return fmt.Errorf("%s: command required", c.fullName())
		}
		for _, sub := range c.Subcommands {
			if sub.Name == args[0] {
				sub.parent = c
				return sub.Execute(ctx, args[1:])
			}
		}
		return fmt.Errorf("unknown command %q\n\nRun '%s --help' for usage", args[0], c.fullName())
	}

	flags := pflag.NewFlagSet(c.Name, pflag.ContinueOnError)
	if c.Flags != nil {
		flags = c.Flags()
	}
	flags.SetOutput(io.Discard)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			c.PrintHelp(c.helpWriter())
			return nil
		}
		return fmt.Errorf("%w\n\nRun '%s --help' for usage", err, c.fullName())
	}
	if c.Run == nil {
		return fmt.Errorf("%s: no action defined", c.fullName())
	}
	return c.Run(ctx, flags, flags.Args())
}

// PrintHelp writes usage, subcommands and flags to w.
func (c *Command) PrintHelp(w io.Writer) {
	if c.Summary != "" {
		fmt.Fprintf(w, "%s\n\n", c.Summary)
	}
	switch {
	case c.Usage != "":
		fmt.Fprintf(w, "Usage:\n  %s\n", c.Usage)
	case len(c.Subcommands) > 0:
		fmt.Fprintf(w, "Usage:\n  %s <command> [flags]\n", c.fullName())
	default:
		fmt.Fprintf(w, "Usage:\n  %s [flags]\n", c.fullName())
	}

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nCommands:\n")
		tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
		for _, sub := range c.Subcommands {
			fmt.Fprintf(tw, "  %s\t%s\n", sub.Name, sub.Summary)
		}
		_ = tw.Flush() //nolint:errcheck // help output
		fmt.Fprintf(w, "\nRun '%s <command> --help' for more information on a command.\n", c.fullName())
	}

	if c.Flags != nil {
		var help strings.Builder
		flags := c.Flags()
		flags.SetOutput(&help)
		flags.PrintDefaults()
		if help.Len() > 0 {
			fmt.Fprintf(w, "\nFlags:\n%s", help.String())
		}
	}
}

func (c *Command) helpWriter() io.Writer {
	for cmd := c; cmd != nil; cmd = cmd.parent {
		if cmd.Help != nil {
			return cmd.Help
		}
	}
	return io.Discard
}

func (c *Command) fullName() string {
	if c.parent == nil {
		return c.Name
	}
	return c.parent.fullName() + " " + c.Name
}

func isHelpFlag(arg string) bool {
	return arg == "-h" || arg == "--help" || arg == "help"
}
