package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches to a command and returns the exit code.
// Anything that is not a command name is taken as convert arguments.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "docx2html %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		return runHelp(rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "config":
		return finish(runConfigCmd(rest, env), env)
	case "convert":
		return runConvertCmd(rest, env)
	default:
		return runConvertCmd(args[1:], env)
	}
}

// runConvertCmd parses flags, converts, and maps the outcome to an exit code.
func runConvertCmd(args []string, env *Environment) int {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		printError(env, fmt.Errorf("%w: %w", ErrUsage, err), "")
		return ExitUsage
	}
	if flags.version {
		fmt.Fprintf(env.Stdout, "docx2html %s\n", Version)
		return ExitSuccess
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	err = runConvert(ctx, positional, flags, env)
	var batchErr *batchError
	if err != nil && !errors.As(err, &batchErr) {
		printError(env, err, "")
	}
	return exitCodeFor(err)
}

// finish prints err, if any, and returns its exit code.
func finish(err error, env *Environment) int {
	if err != nil {
		printError(env, err, "")
	}
	return exitCodeFor(err)
}
