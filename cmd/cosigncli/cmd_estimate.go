package main

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/schedule"
)

func cmdEstimateBlock(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(fl.Output(), `
Estimate the relay chain block produced around noon UTC of a day, the block
to use as the unlock height of a release schedule. With -block, estimate the
date of a block instead.
		`)
		fl.PrintDefaults()
	}
	var (
		chain   = addChainFlags(fl)
		dateFl  = fl.String("date", "", "Day of the release, formatted as 2006-01-02.")
		blockFl = fl.Uint64("block", 0, "Block to estimate the date of.")
	)
	fl.Parse(args)

	if (*dateFl == "") == (*blockFl == 0) {
		flagDie("exactly one of -date and -block is required")
	}
	var day time.Time
	if *dateFl != "" {
		var err error
		day, err = time.Parse("2006-01-02", *dateFl)
		if err != nil {
			return errors.Wrapf(errors.ErrFormat, "date %q", *dateFl)
		}
	}

	ctx, stop := interruptContext()
	defer stop()
	s, _, err := chain.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if *blockFl != 0 {
		t, err := s.Clock.EstimateDate(ctx, *blockFl)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(output, t.UTC().Format(time.RFC3339))
		return err
	}
	height, err := s.Clock.EstimateHeight(ctx, schedule.UnlockTarget(day))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, height)
	return err
}
