package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/client"
	"github.com/iov-one/cosign/x/multisig"
)

// stringsFlag collects the values of a repeated flag.
type stringsFlag []string

func (s *stringsFlag) String() string {
	return strings.Join(*s, ",")
}

func (s *stringsFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func cmdPending(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(fl.Output(), `
List the pending calls of the configured multisig account. Wallet account
addresses can be given as arguments to show what each of them can do.

Call data is not stored on chain. Provide the hex encoded call data of known
calls with the -payload flag to have them decoded.
		`)
		fl.PrintDefaults()
	}
	chain := addChainFlags(fl)
	var payloadsFl stringsFlag
	fl.Var(&payloadsFl, "payload", "Hex encoded call data of a pending call. Can be repeated.")
	fl.Parse(args)

	payloads, err := multisig.ParsePayloads(payloadsFl)
	if err != nil {
		return err
	}

	ctx, stop := interruptContext()
	defer stop()
	s, conf, err := chain.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	var wallet []cosign.AccountID
	for _, addr := range fl.Args() {
		id, err := s.Codec.Decode(addr)
		if err != nil {
			return err
		}
		wallet = append(wallet, id)
	}

	res, err := s.Reconciler().Resolve(ctx, conf.reconcilerConfig(s.Codec), payloads)
	if err != nil {
		return err
	}
	return printPending(output, s, res, wallet)
}

func printPending(output io.Writer, s *client.Session, res *multisig.Resolution, wallet []cosign.AccountID) error {
	fmt.Fprintf(output, "%s\t%d of %d\n", res.Address, res.Descriptor.Threshold, len(res.Descriptor.Signatories))
	if len(res.Transactions) == 0 {
		_, err := fmt.Fprintln(output, "no pending calls")
		return err
	}

	decimals := uint8(s.Properties.TokenDecimals)
	tw := tabwriter.NewWriter(output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "HASH\tCREATED\tAPPROVALS\tCALL\tDEPOSIT\tACTIONS")
	for i := range res.Transactions {
		tx := &res.Transactions[i]
		plan := multisig.PlanActions(tx, res.Descriptor, wallet)

		call := "unknown"
		switch {
		case tx.Call != nil:
			call = tx.Call.Path()
		case tx.DecodeErr != nil:
			call = "undecodable"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%s\t%s\t%s\n",
			tx.CallHash, tx.When, plan.Approval.Count, plan.Approval.Threshold, call,
			cosign.FormatAmountWithUnit(tx.Deposit, decimals, s.Properties.TokenSymbol),
			describePlan(s.Codec, plan))

		if tr := tx.TimeRelease; tr != nil {
			fmt.Fprintf(tw, "\t\t\t%s\n", describeRelease(s.Codec, tr, decimals, s.Properties.TokenSymbol))
		}
	}
	return tw.Flush()
}

func describePlan(codec cosign.Codec, p multisig.Plan) string {
	var parts []string
	if p.Approve.CanAct() {
		verb := "approve"
		if p.Approve.Executes {
			verb = "execute"
		}
		parts = append(parts, verb+" by "+joinAddresses(codec, p.Approve.Eligible))
	} else if p.Approval.Approved && p.Approve.RequiresCallData {
		parts = append(parts, "call data required to execute")
	}
	if p.Cancel.CanAct() {
		parts = append(parts, "cancel by "+joinAddresses(codec, p.Cancel.Eligible))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, "; ")
}

func describeRelease(codec cosign.Codec, tr *multisig.TimeReleaseInfo, decimals uint8, symbol string) string {
	desc := fmt.Sprintf("releases %s to %s",
		cosign.FormatAmountWithUnit(tr.Schedule.Total(), decimals, symbol), codec.Encode(tr.Dest))
	switch {
	case !tr.Supported:
		return desc + ", schedule with several periods"
	case !tr.Known:
		return fmt.Sprintf("%s at block %d", desc, tr.UnlockHeight)
	case tr.Matured:
		return fmt.Sprintf("%s at block %d, matured", desc, tr.UnlockHeight)
	default:
		return fmt.Sprintf("%s at block %d, around %s", desc, tr.UnlockHeight,
			tr.EstimatedUnlock.UTC().Format(time.RFC1123))
	}
}

func joinAddresses(codec cosign.Codec, ids []cosign.AccountID) string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = codec.Encode(id)
	}
	return strings.Join(out, ",")
}
