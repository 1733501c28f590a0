// Command financectl administers the trading simulator from the shell.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	e := newEnv(os.Stdout, os.Stderr, openApp)
	for _, c := range commands(e) {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func commands(e *env) []subcommands.Command {
	return []subcommands.Command{
		&migrateCmd{env: e},
		&quoteCmd{env: e},
		&summaryCmd{env: e},
		&historyCmd{env: e},
		&purgeCmd{env: e},
	}
}
