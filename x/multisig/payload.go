package multisig

import (
	"strconv"
	"strings"

	"github.com/iov-one/cosign/calls"
	"github.com/iov-one/cosign/errors"
)

// Payload is call data shared between signatories, keyed by its hash.
type Payload struct {
	Hash calls.Hash
	Data []byte
}

// NewPayload hashes call data.
func NewPayload(data []byte) Payload {
	return Payload{Hash: calls.HashOf(data), Data: data}
}

// Payloads is the call data known for one reconciliation, keyed by hash.
type Payloads map[calls.Hash]Payload

// Add hashes and stores call data.
func (p Payloads) Add(data []byte) Payload {
	payload := NewPayload(data)
	p[payload.Hash] = payload
	return payload
}

// ParsePayloads decodes a list of hex encoded call data. Blank entries are
// skipped, malformed ones are reported as field errors, for example
// Payloads.3.
func ParsePayloads(encoded []string) (Payloads, error) {
	var errs error
	out := make(Payloads, len(encoded))
	for i, s := range encoded {
		if strings.TrimSpace(s) == "" {
			continue
		}
		data, err := calls.ParseCallData(s)
		if err != nil {
			errs = errors.AppendField(errs, "Payloads."+strconv.Itoa(i), err)
			continue
		}
		out.Add(data)
	}
	if errs != nil {
		return nil, errs
	}
	return out, nil
}
