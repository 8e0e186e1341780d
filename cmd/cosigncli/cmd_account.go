package main

import (
	"flag"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/client"
	"github.com/iov-one/cosign/schedule"
)

func cmdBalance(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(fl.Output(), `
Print the balances of the accounts given as arguments. Without arguments the
configured multisig account is used.
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

	decimals := uint8(s.Properties.TokenDecimals)
	tw := tabwriter.NewWriter(output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ADDRESS\tFREE\tRESERVED\tFROZEN\tTRANSFERABLE")
	for _, id := range ids {
		data, err := s.Client.AccountBalance(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.Codec.Encode(id),
			cosign.FormatAmount(data.Free, decimals),
			cosign.FormatAmount(data.Reserved, decimals),
			cosign.FormatAmount(data.Frozen, decimals),
			cosign.FormatAmountWithUnit(data.Transferable(), decimals, s.Properties.TokenSymbol))
	}
	return tw.Flush()
}

func cmdSchedules(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(fl.Output(), `
Print the release schedules of the accounts given as arguments, with their
estimated unlock dates. Without arguments the configured multisig account is
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
	height, err := s.Clock.ReferenceHeight(ctx)
	if err != nil {
		return err
	}

	decimals := uint8(s.Properties.TokenDecimals)
	tw := tabwriter.NewWriter(output, 0, 4, 2, ' ', 0)
	for _, id := range ids {
		schedules, err := s.Client.ReleaseSchedules(ctx, id)
		if err != nil {
			return err
		}
		sum := schedule.Summarize(schedules, height)
		fmt.Fprintf(tw, "%s\tclaimable %s\n", s.Codec.Encode(id),
			cosign.FormatAmountWithUnit(sum.Claimable, decimals, s.Properties.TokenSymbol))
		for _, rs := range sum.Locked {
			when := "several periods"
			if rs.Supported() {
				t, err := s.Clock.EstimateDate(ctx, rs.UnlockHeight())
				if err != nil {
					return err
				}
				when = t.UTC().Format(time.RFC1123)
			}
			fmt.Fprintf(tw, "\tblock %d\t%s\t%s\n", rs.UnlockHeight(),
				cosign.FormatAmountWithUnit(rs.Total(), decimals, s.Properties.TokenSymbol), when)
		}
	}
	return tw.Flush()
}

// accountsOrMultisig parses the addresses or, when none is given, returns
// the configured multisig account.
func accountsOrMultisig(s *client.Session, conf *fileConfig, addresses []string) ([]cosign.AccountID, error) {
	if len(addresses) == 0 {
		d, err := conf.descriptor(s.Codec)
		if err != nil {
			return nil, err
		}
		account, err := d.Account()
		if err != nil {
			return nil, err
		}
		return []cosign.AccountID{account}, nil
	}
	ids := make([]cosign.AccountID, 0, len(addresses))
	for _, addr := range addresses {
		id, err := s.Codec.Decode(addr)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
