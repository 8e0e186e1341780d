package main

import (
	"flag"
	"fmt"
	"io"
)

func cmdAddress(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(fl.Output(), `
Print the address of a multisig account. Signatories are given as arguments
or read from the configuration file. Their order does not matter.
		`)
		fl.PrintDefaults()
	}
	var (
		chain       = addChainFlags(fl)
		thresholdFl = fl.Uint("threshold", 0, "Number of approvals required. Read from the configuration file when zero.")
	)
	fl.Parse(args)

	conf, err := chain.load()
	if err != nil {
		return err
	}
	if *thresholdFl > 0xffff {
		flagDie("threshold must not exceed %d", 0xffff)
	}
	if *thresholdFl != 0 {
		conf.Multisig.Threshold = uint16(*thresholdFl)
	}
	if fl.NArg() > 0 {
		conf.Multisig.Signatories = fl.Args()
		conf.Multisig.Address = ""
	}

	codec, err := chain.codec(conf)
	if err != nil {
		return err
	}
	d, err := conf.descriptor(codec)
	if err != nil {
		return err
	}
	address, err := d.Address(codec)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, address)
	return err
}
