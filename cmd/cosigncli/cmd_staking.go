package main

import (
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/x/capacity"
)

func cmdStaking(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(fl.Output(), `
Print the staking of the accounts given as arguments: the active stake, the
staking type and the amount staked towards each provider, which is the amount
that can be unstaked. Without arguments the configured multisig account is
used.
		`)
		fl.PrintDefaults()
	}
	chain := addChainFlags(fl)
	fl.Parse(args)

	ctx, stop := interruptContext()
	defer stop()
	s, conf, err := chain.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	ids, err := accountsOrMultisig(s, conf, fl.Args())
	if err != nil {
		return err
	}

	unit := tokenUnit{decimals: uint8(s.Properties.TokenDecimals), symbol: s.Properties.TokenSymbol}
	tw := tabwriter.NewWriter(output, 0, 4, 2, ' ', 0)
	for _, id := range ids {
		ledger, err := s.Client.StakingLedger(ctx, id)
		if err != nil {
			return err
		}
		var targets []capacity.StakeTarget
		if ledger != nil {
			if targets, err = s.Client.StakeTargets(ctx, id); err != nil {
				return err
			}
		}
		printStaking(tw, s.Codec.Encode(id), ledger, targets, unit)
	}
	return tw.Flush()
}

type tokenUnit struct {
	decimals uint8
	symbol   string
}

// printStaking writes the staking of a single account as tab separated
// rows.
func printStaking(w io.Writer, address string, ledger *capacity.Ledger, targets []capacity.StakeTarget, unit tokenUnit) {
	if ledger == nil {
		fmt.Fprintf(w, "%s\tNo active staking.\n", address)
		return
	}
	fmt.Fprintf(w, "%s\t%s\t%s\n", address,
		cosign.FormatAmountWithUnit(ledger.Active, unit.decimals, unit.symbol), ledger.Type.Label())
	for _, t := range targets {
		name := t.ProviderName
		if name == "" {
			name = "Invalid Provider"
		}
		fmt.Fprintf(w, "\t%s\t%s (Id: %d)\n",
			cosign.FormatAmountWithUnit(t.Amount, unit.decimals, unit.symbol), name, t.Provider)
	}
}
