package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/iov-one/cosign/errors"
)

// flagDie terminates the program when an invalid flag value was given.
func flagDie(description string, args ...interface{}) {
	if !strings.HasSuffix(description, "\n") {
		description += "\n"
	}
	fmt.Fprintf(os.Stderr, description, args...)
	os.Exit(2)
}

// readHex reads 0x prefixed or plain hex encoded call data from the input.
// Surrounding whitespace is ignored.
func readHex(input io.Reader) ([]byte, error) {
	raw, err := ioutil.ReadAll(input)
	if err != nil {
		return nil, errors.Wrap(err, "read input")
	}
	return parseHex(string(raw))
}

func parseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if s == "" {
		return nil, errors.Wrap(errors.ErrEmpty, "no call data")
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrFormat, "call data: %s", err)
	}
	return b, nil
}

func writeHex(output io.Writer, b []byte) error {
	_, err := fmt.Fprintf(output, "0x%x\n", b)
	return err
}
