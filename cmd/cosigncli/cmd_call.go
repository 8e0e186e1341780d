package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/app"
	"github.com/iov-one/cosign/calls"
	"github.com/iov-one/cosign/x/balances"
	"github.com/iov-one/cosign/x/multisig"
)

func cmdTransfer(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(fl.Output(), `
Create a transfer call that keeps the sender account alive. The hex encoded
call data is written to the output.
		`)
		fl.PrintDefaults()
	}
	var (
		chain      = addChainFlags(fl)
		destFl     = fl.String("dest", "", "Address of the recipient.")
		valueFl    = fl.String("value", "", "Amount to transfer, in tokens.")
		decimalsFl = fl.Uint("decimals", 12, "Number of decimal places of the token.")
	)
	fl.Parse(args)

	if *decimalsFl > 255 {
		flagDie("decimals must not exceed 255")
	}
	conf, err := chain.load()
	if err != nil {
		return err
	}
	codec, err := chain.codec(conf)
	if err != nil {
		return err
	}
	dest, err := codec.Parse(*destFl)
	if err != nil {
		return err
	}
	value, err := cosign.ParseAmount(*valueFl, uint8(*decimalsFl))
	if err != nil {
		return err
	}
	registry, err := app.Registry(conf.Pallets)
	if err != nil {
		return err
	}
	raw, err := registry.Encode(&balances.TransferKeepAliveMsg{Dest: dest, Value: value})
	if err != nil {
		return err
	}
	return writeHex(output, raw)
}

func cmdInitiate(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(fl.Output(), `
Read hex encoded call data from the input and wrap it into the call that
creates a pending multisig call. For a threshold of one the call is
dispatched right away instead. The multisig account is read from the
configuration file.
		`)
		fl.PrintDefaults()
	}
	var (
		chain    = addChainFlags(fl)
		signerFl = fl.String("signer", "", "Address of the signatory submitting the call.")
		refFl    = fl.Uint64("max-weight", calls.DefaultMaxWeight.RefTime, "Execution time limit of the call.")
		proofFl  = fl.Uint64("max-proof", calls.DefaultMaxWeight.ProofSize, "Proof size limit of the call.")
	)
	fl.Parse(args)

	conf, err := chain.load()
	if err != nil {
		return err
	}
	codec, err := chain.codec(conf)
	if err != nil {
		return err
	}
	d, err := conf.descriptor(codec)
	if err != nil {
		return err
	}
	signer, err := codec.Parse(*signerFl)
	if err != nil {
		return err
	}
	call, err := readHex(input)
	if err != nil {
		return err
	}
	registry, err := app.Registry(conf.Pallets)
	if err != nil {
		return err
	}
	// Reject call data that would be dispatched as something else.
	if _, err := registry.Decode(call); err != nil {
		return err
	}

	msg, err := multisig.Initiate(d, signer, call, calls.Weight{RefTime: *refFl, ProofSize: *proofFl})
	if err != nil {
		return err
	}
	raw, err := registry.Encode(msg)
	if err != nil {
		return err
	}
	return writeHex(output, raw)
}

func cmdCallHash(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(fl.Output(), `
Read hex encoded call data from the input and print its hash, the hash under
which a pending multisig call is stored. The decoded call is printed when
it is known.
		`)
		fl.PrintDefaults()
	}
	chain := addChainFlags(fl)
	fl.Parse(args)

	conf, err := chain.load()
	if err != nil {
		return err
	}
	raw, err := readHex(input)
	if err != nil {
		return err
	}
	fmt.Fprintln(output, calls.HashOf(raw))

	registry, err := app.Registry(conf.Pallets)
	if err != nil {
		return err
	}
	call, err := registry.Decode(raw)
	if err != nil {
		fmt.Fprintf(output, "unknown call: %s\n", err)
		return nil
	}
	body, err := json.MarshalIndent(call.Msg, "", "\t")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "%s\n%s\n", call.Path(), body)
	return err
}
