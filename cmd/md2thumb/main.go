package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// .env never overrides variables already set in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: loading .env: %v\n", err)
	}

	os.Exit(runMain(context.Background(), os.Args, DefaultEnv()))
}

// runMain dispatches to a command and returns the exit code.
// Arguments that are not a command name are titles for the default command;
// a title spelled like a command goes after "--".
func runMain(ctx context.Context, args []string, env *Environment) int {
	rest := args[1:]
	if len(rest) == 0 || !isCommand(rest[0]) {
		return runGenerate(ctx, rest, env)
	}

	switch rest[0] {
	case "version":
		fmt.Fprintf(env.Stdout, "md2thumb %s\n", Version)
		return ExitSuccess
	case "doctor":
		return runDoctorCmd(rest[1:], env)
	case "help":
		command := ""
		if len(rest) > 1 {
			command = rest[1]
		}
		if !printHelp(env.Stdout, command) {
			fmt.Fprintf(env.Stderr, "unknown command: %s\n\n", command)
			printUsage(env.Stderr)
			return ExitUsage
		}
		return ExitSuccess
	}
	return ExitGeneral
}

// isCommand reports whether arg names a subcommand.
func isCommand(arg string) bool {
	switch arg {
	case "version", "doctor", "help":
		return true
	}
	return false
}
