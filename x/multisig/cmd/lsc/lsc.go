package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/crypto/ss58"
)

func main() {
	prefixFl := flag.Uint("prefix", cosign.SubstratePrefix, "SS58 network prefix of the printed addresses.")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage:
	%s [options] <signatory address>...


Print multisig account addresses for every threshold of a signatory set.

A multisig account address is derived from the sorted signatory accounts and
the threshold. Order of the arguments does not matter. This knowledge is
helpful when funding a multisig account before any of its calls is created.

`, os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *prefixFl > ss58.MaxPrefix {
		fmt.Fprintf(os.Stderr, "Prefix must not be greater than %d.\n", ss58.MaxPrefix)
		os.Exit(2)
	}
	codec, err := cosign.NewCodec(uint16(*prefixFl))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if flag.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "At least two signatories are required.")
		os.Exit(2)
	}

	if err := printAddresses(os.Stdout, codec, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printAddresses(out io.Writer, codec cosign.Codec, signatories []string) error {
	for threshold := 1; threshold <= len(signatories); threshold++ {
		d, err := cosign.NewDescriptor(codec, uint16(threshold), signatories, "")
		if err != nil {
			return err
		}
		address, err := d.Address(codec)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%d\t%s\n", threshold, address)
	}
	return nil
}
