package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/subcommands"
)

// info implements the name and documentation parts of
// subcommands.Command.
type info struct {
	name     string
	synopsis string
	usage    string
}

func newInfo(name, synopsis, usage string) info {
	if !strings.HasSuffix(usage, "\n") {
		usage += "\n"
	}
	return info{name: name, synopsis: synopsis, usage: usage}
}

func (i info) Name() string { return i.name }
func (i info) Synopsis() string { return i.synopsis }
func (i info) Usage() string { return i.usage + "\nOptions:\n" }
func (i info) SetFlags(*flag.FlagSet) {}
func (i info) Execute(context.Context, *flag.FlagSet, ...any) subcommands.ExitStatus {
	fmt.Print(i.usage)
	return subcommands.ExitSuccess
}

// fail logs msg and returns subcommands.ExitFailure.
func (i info) fail(msg string, args ...any) subcommands.ExitStatus {
	slog.Error(fmt.Sprintf(msg, args...), "command", i.name)
	return subcommands.ExitFailure
}
