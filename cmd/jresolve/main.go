// Binary jresolve checks fixtures of Java declarations and call sites:
// overload resolution, lambda and method reference target typing and
// member clash detection.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/google/subcommands"
)

var verbose = flag.Bool("v", false, "log pipeline stages to stderr")

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&checkCmd{info: newInfo("check", "report diagnostics of fixtures",
		"check [-json] [-db path] [-j n] fixture...")}, "")
	subcommands.Register(&expectCmd{info: newInfo("expect", "compare diagnostics with expect blocks",
		"expect [-j n] fixture...")}, "")
	subcommands.Register(&describeCmd{info: newInfo("describe", "print the functional descriptor or members of a type",
		"describe -type T fixture")}, "")
	subcommands.Register(&printCmd{info: newInfo("print", "print the declarations of fixtures as Java source",
		"print fixture...")}, "")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	os.Exit(int(subcommands.Execute(context.Background())))
}
