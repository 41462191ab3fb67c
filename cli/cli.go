// Package cli implements the config-cli commands: creating setting
// proposals and listing proposals and settings.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

const usage = `usage: config-cli <command> <subcommand> [flags]

commands:
  proposal create [-k key] [-o file | --url URL] <key>=<value>...
      create and sign proposals to change settings
  proposal list [--url URL] [--public-key KEY] [--filter PREFIX] [--format FORMAT]
      list proposed settings that are not yet active
  settings list [--url URL] [--filter PREFIX] [--format FORMAT]
      list the current settings

Run a subcommand with -h for its flags.
`

// ErrUsage is returned when no valid command is given.
var ErrUsage = errors.New("invalid command")

// Run executes the command in args, which excludes the program name.
// Listings are written to stdout; usage and progress go to stderr.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) < 2 {
		fmt.Fprint(stderr, usage)
		if len(args) == 1 && isHelp(args[0]) {
			return nil
		}
		return ErrUsage
	}

	var err error
	switch cmd := args[0] + " " + args[1]; cmd {
	case "proposal create":
		err = runProposalCreate(ctx, args[2:], stderr)
	case "proposal list":
		err = runProposalList(ctx, args[2:], stdout, stderr)
	case "settings list":
		err = runSettingsList(ctx, args[2:], stdout, stderr)
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("%w: %q", ErrUsage, cmd)
	}
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

func isHelp(arg string) bool {
	switch strings.TrimLeft(arg, "-") {
	case "h", "help":
		return true
	}
	return false
}

// setupLogging sends progress logs to stderr only when verbose is set.
func setupLogging(verbose bool, stderr io.Writer) {
	if verbose {
		if stderr == nil {
			stderr = os.Stderr
		}
		log.SetOutput(stderr)
		return
	}
	log.SetOutput(io.Discard)
}
