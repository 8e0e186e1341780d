package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/iov-one/cosign"
)

// networks are the prefixes printed when none is selected.
var networks = map[string]uint16{
	"polkadot":  0,
	"kusama":    2,
	"substrate": cosign.SubstratePrefix,
}

//nolint
func main() {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	headerFl := fl.Bool("header", true, "Display header")
	fl.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage:
	%s [options] <address> [<network prefix>...]

Print an account address under several network prefixes, together with its
public key.

The same key has a different address on every network. Wallets show the
address of the network they are connected to, this helps to compare them.
When no prefix is given, addresses of the following networks are printed:
%s

`, os.Args[0], networkNames())
		fl.PrintDefaults()
	}
	fl.Parse(os.Args[1:])

	if fl.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Address is required.")
		os.Exit(2)
	}
	prefixes, err := parsePrefixes(fl.Args()[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := printAddresses(os.Stdout, fl.Arg(0), prefixes, *headerFl); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func networkNames() string {
	var names []string
	for n, p := range networks {
		names = append(names, fmt.Sprintf("%s (%d)", n, p))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// parsePrefixes accepts numeric prefixes and network names.
func parsePrefixes(args []string) ([]uint16, error) {
	if len(args) == 0 {
		var out []uint16
		for _, p := range networks {
			out = append(out, p)
		}
		sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
		return out, nil
	}
	out := make([]uint16, 0, len(args))
	for _, a := range args {
		if p, ok := networks[strings.ToLower(a)]; ok {
			out = append(out, p)
			continue
		}
		var p uint16
		if _, err := fmt.Sscan(a, &p); err != nil {
			return nil, fmt.Errorf("invalid network prefix %q", a)
		}
		out = append(out, p)
	}
	return out, nil
}

func printAddresses(out io.Writer, address string, prefixes []uint16, header bool) error {
	var codec cosign.Codec
	id, err := codec.Decode(address)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 2, 0, 2, ' ', 0)
	defer w.Flush()

	if header {
		fmt.Fprintln(w, "prefix\taddress")
	}
	fmt.Fprintf(w, "key\t%s\n", id)
	for _, p := range prefixes {
		c, err := cosign.NewCodec(p)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d\t%s\n", p, c.Encode(id))
	}
	return nil
}
