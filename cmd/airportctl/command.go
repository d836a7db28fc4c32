package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

// Command is one node of the airportctl command tree. Groups set
// Subcommands; leaves set Run.
type Command struct {
	Name    string
	Summary string
	// Usage lists the positional arguments, e.g. "<id> <field> <value>".
	Usage string
	// Flags is called once per invocation so every run starts from defaults.
	Flags       func() *pflag.FlagSet
	Subcommands []*Command
	Run         func(ctx context.Context, flags *pflag.FlagSet, args []string) error

	parent *Command
}

var errUsage = errors.New("usage")

// Execute dispatches args to the matching subcommand or runs c.
func (c *Command) Execute(ctx context.Context, out io.Writer, args []string) error {
	if len(args) > 0 && (args[0] == "-h" || args[0] == "--help" || args[0] == "help") {
		c.PrintHelp(out)
		return nil
	}

	if len(c.Subcommands) > 0 {
		if len(args) == 0 {
			c.PrintHelp(out)
			return fmt.Errorf("%w: %s requires a subcommand", errUsage, c.fullName())
		}
		for _, sub := range c.Subcommands {
			if sub.Name == args[0] {
				sub.parent = c
				return sub.Execute(ctx, out, args[1:])
			}
		}
		return fmt.Errorf("%w: unknown command %q, run '%s --help'", errUsage, args[0], c.fullName())
	}

	flags := pflag.NewFlagSet(c.fullName(), pflag.ContinueOnError)
	if c.Flags != nil {
		flags = c.Flags()
	}
	flags.SetOutput(io.Discard)
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w: %v, run '%s --help'", errUsage, err, c.fullName())
	}
	return c.Run(ctx, flags, flags.Args())
}

// PrintHelp writes the usage line, the subcommands and the flags of c.
func (c *Command) PrintHelp(w io.Writer) {
	if c.Summary != "" {
		fmt.Fprintf(w, "%s\n\n", c.Summary)
	}
	usage := c.fullName()
	if len(c.Subcommands) > 0 {
		usage += " <command>"
	}
	if c.Usage != "" {
		usage += " " + c.Usage
	}
	fmt.Fprintf(w, "Usage:\n  %s\n", usage)

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nCommands:\n")
		for _, sub := range c.Subcommands {
			fmt.Fprintf(w, "  %-10s %s\n", sub.Name, sub.Summary)
		}
	}
	if c.Flags != nil {
		if usages := c.Flags().FlagUsages(); strings.TrimSpace(usages) != "" {
			fmt.Fprintf(w, "\nFlags:\n%s", usages)
		}
	}
}

func (c *Command) fullName() string {
	if c.parent == nil {
		return c.Name
	}
	return c.parent.fullName() + " " + c.Name
}

// requireArgs checks the positional argument count of a leaf command.
func requireArgs(args []string, n int, usage string) error {
	if len(args) != n {
		return fmt.Errorf("%w: expected %s", errUsage, usage)
	}
	return nil
}
