package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/errors"
)

// commands is a register of all available commands that can be executed by
// this program. The name is used to match with the first argument given.
//
// A command function is given stdin, stdout and the command line arguments
// except the program name and the command name. It is the responsibility of
// the command function to parse the arguments. Commands that only transform
// their input work offline and can be combined with a unix pipe:
//
//   $ cosigncli transfer -dest 5FHneW46... -value 1.5 \
//       | cosigncli initiate -config multisig.toml -signer 5GrwvaEF... \
//       | cosigncli call-hash
//
// Commands reading the chain state need a node, given by the -node flag,
// the COSIGN_NODE environment variable or a configuration file.
//
// No command signs or submits. The printed call data is handed to a wallet,
// and the outcome of a submission is read from the wallet or the chain, not
// from this program.
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"address":        cmdAddress,
	"balance":        cmdBalance,
	"call-hash":      cmdCallHash,
	"estimate-block": cmdEstimateBlock,
	"initiate":       cmdInitiate,
	"pending":        cmdPending,
	"schedules":      cmdSchedules,
	"staking":        cmdStaking,
	"transfer":       cmdTransfer,
	"version":        cmdVersion,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s is a command line client for multisig accounts.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	// Skip two first arguments. Second argument is the command name that
	// we just consumed.
	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		code, msg := errors.Info(err, debugMode())
		fmt.Fprintf(os.Stderr, "error %d: %s\n", code, msg)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	fmt.Fprintln(out, cosign.Version())
	return nil
}
