package cosign

import (
	"strconv"
	"strings"

	"github.com/iov-one/cosign/crypto"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/scale"
)

var multisigPreimage = []byte("modlpy/utilisuba")

// DeriveMultisigAccount returns the account controlled by given signatories
// and threshold, as computed by the multisig pallet. Signatories must be in
// canonical order, otherwise ErrCanonical is returned. Use Descriptor to
// build a canonical signatory list from user input.
func DeriveMultisigAccount(signatories []AccountID, threshold uint16) (AccountID, error) {
	if len(signatories) == 0 {
		return AccountID{}, errors.Wrap(errors.ErrInvalidMultisigConfig, "no signatories")
	}
	if threshold == 0 || int(threshold) > len(signatories) {
		return AccountID{}, errors.Wrapf(errors.ErrInvalidMultisigConfig,
			"threshold %d not in range 1..%d", threshold, len(signatories))
	}
	if err := IsCanonical(signatories); err != nil {
		return AccountID{}, err
	}

	var e scale.Encoder
	e.Raw(multisigPreimage)
	e.Compact(uint64(len(signatories)))
	for _, s := range signatories {
		e.Raw(s[:])
	}
	e.U16(threshold)
	if err := e.Err(); err != nil {
		return AccountID{}, err
	}
	return AccountID(crypto.Blake2b256(e.Bytes())), nil
}

// Descriptor is a validated multisig configuration. Signatories are always
// kept in canonical order.
type Descriptor struct {
	Threshold   uint16
	Signatories []AccountID
}

// NewDescriptor parses the signatory addresses under the codec's network
// prefix and builds a canonical descriptor. Blank addresses are skipped. If
// acting is not empty, that account is added to the signatories when
// missing. All problems are reported at once as field errors wrapping
// ErrInvalidMultisigConfig.
func NewDescriptor(codec Codec, threshold uint16, addresses []string, acting string) (*Descriptor, error) {
	var (
		errs error
		ids  []AccountID
		seen = make(map[AccountID]int)
	)
	for i, addr := range addresses {
		if strings.TrimSpace(addr) == "" {
			continue
		}
		id, err := codec.Parse(addr)
		if err != nil {
			errs = errors.Append(errs, errors.Field(fieldName("Signatories", i),
				errors.ErrInvalidMultisigConfig, "%s", err))
			continue
		}
		if first, ok := seen[id]; ok {
			errs = errors.Append(errs, errors.Field(fieldName("Signatories", i),
				errors.ErrInvalidMultisigConfig, "duplicate of signatory %d", first))
			continue
		}
		seen[id] = i
		ids = append(ids, id)
	}

	if strings.TrimSpace(acting) != "" {
		id, err := codec.Parse(acting)
		if err != nil {
			errs = errors.Append(errs, errors.Field("Acting", errors.ErrInvalidMultisigConfig, "%s", err))
		} else if _, ok := seen[id]; !ok {
			ids = append(ids, id)
		}
	}

	if errs != nil {
		return nil, errs
	}

	d := &Descriptor{Threshold: threshold, Signatories: NewSignatorySet(ids...).List()}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func fieldName(name string, index int) string {
	return name + "." + strconv.Itoa(index)
}

// Validate returns an error if the descriptor cannot describe a multisig
// account.
func (d *Descriptor) Validate() error {
	var errs error
	if len(d.Signatories) == 0 {
		errs = errors.AppendField(errs, "Signatories", errors.ErrInvalidMultisigConfig)
	}
	if d.Threshold == 0 {
		errs = errors.Append(errs, errors.Field("Threshold", errors.ErrInvalidMultisigConfig,
			"must be at least 1"))
	} else if int(d.Threshold) > len(d.Signatories) {
		errs = errors.Append(errs, errors.Field("Threshold", errors.ErrInvalidMultisigConfig,
			"%d exceeds the number of signatories %d", d.Threshold, len(d.Signatories)))
	}
	if err := IsCanonical(d.Signatories); err != nil {
		errs = errors.AppendField(errs, "Signatories", err)
	}
	return errs
}

// Account returns the derived multisig account.
func (d *Descriptor) Account() (AccountID, error) {
	return DeriveMultisigAccount(d.Signatories, d.Threshold)
}

// Address returns the derived multisig account encoded by given codec.
func (d *Descriptor) Address(codec Codec) (string, error) {
	id, err := d.Account()
	if err != nil {
		return "", err
	}
	return codec.Encode(id), nil
}

// Has returns true if id is one of the signatories.
func (d *Descriptor) Has(id AccountID) bool {
	for _, s := range d.Signatories {
		if s == id {
			return true
		}
	}
	return false
}

// Others returns the signatories without acting, in canonical order. Acting
// must be a signatory.
func (d *Descriptor) Others(acting AccountID) ([]AccountID, error) {
	if !d.Has(acting) {
		return nil, errors.Wrapf(errors.ErrInvalidMultisigConfig, "%s is not a signatory", acting)
	}
	return Others(d.Signatories, acting), nil
}
