package client

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/calls"
	"github.com/iov-one/cosign/crypto"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/x/balances"
	"github.com/iov-one/cosign/x/capacity"
	"github.com/iov-one/cosign/x/multisig"
	"github.com/iov-one/cosign/x/timerelease"
	"github.com/tendermint/tendermint/libs/log"
)

// keysPageSize is the number of storage keys requested at once when
// iterating a storage map.
var keysPageSize = 100

// Client provides access to the chain state needed to coordinate multisig
// calls.
//
// Basic accessors are declared here. Submission is in wrapper.go.
type Client struct {
	conn    *Conn
	logger  log.Logger
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRequestTimeout limits the duration of every request. Zero means no
// limit besides the one of the context.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// NewClient wraps an existing connection.
func NewClient(conn *Conn, opts ...Option) *Client {
	c := &Client{conn: conn, logger: log.NewNopLogger()}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Conn returns the underlying connection.
func (c *Client) Conn() *Conn {
	return c.conn
}

func (c *Client) call(ctx context.Context, result interface{}, method string, params ...interface{}) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.conn.Call(ctx, result, method, params...)
}

// Properties returns the network prefix and the native token of the chain.
func (c *Client) Properties(ctx context.Context) (*Properties, error) {
	var p Properties
	if err := c.call(ctx, &p, "system_properties"); err != nil {
		return nil, err
	}
	return &p, nil
}

// ReferenceHeight returns the number of the latest block. Used with a
// relay chain connection it implements schedule.HeightSource.
func (c *Client) ReferenceHeight(ctx context.Context) (uint64, error) {
	var h header
	if err := c.call(ctx, &h, "chain_getHeader"); err != nil {
		return 0, err
	}
	return parseHexUint(h.Number)
}

// AccountBalance returns the balances of an account. Accounts that do not
// exist have all balances set to zero.
func (c *Client) AccountBalance(ctx context.Context, id cosign.AccountID) (*balances.AccountData, error) {
	raw, err := c.storage(ctx, StorageKey("System", "Account", crypto.Blake2b128Concat(id.Bytes())))
	if err != nil {
		return nil, err
	}
	info, err := balances.DecodeAccountInfo(raw)
	if err != nil {
		return nil, err
	}
	return &info.Data, nil
}

// ReleaseSchedules returns the release schedules of an account.
func (c *Client) ReleaseSchedules(ctx context.Context, id cosign.AccountID) ([]timerelease.ReleaseSchedule, error) {
	raw, err := c.storage(ctx, StorageKey("TimeRelease", "ReleaseSchedules", crypto.Blake2b128Concat(id.Bytes())))
	if err != nil {
		return nil, err
	}
	return timerelease.DecodeSchedules(raw)
}

// NextNonce returns the next nonce of an account, including the
// transactions waiting in the pool.
func (c *Client) NextNonce(ctx context.Context, address string) (uint64, error) {
	var nonce uint64
	if err := c.call(ctx, &nonce, "system_accountNextIndex", address); err != nil {
		return 0, err
	}
	return nonce, nil
}

// PendingMultisigEntries returns all pending calls of a multisig account,
// ordered by storage key.
func (c *Client) PendingMultisigEntries(ctx context.Context, account cosign.AccountID) ([]multisig.Entry, error) {
	prefix := StorageKey("Multisig", "Multisigs", crypto.Twox64Concat(account.Bytes()))
	// The call hash is the second map key, hashed with blake2_128_concat.
	keyLen := len(prefix) + 16 + calls.HashLength

	var entries []multisig.Entry
	err := c.iterate(ctx, prefix, keyLen, func(key, value []byte) error {
		var hash calls.Hash
		copy(hash[:], key[keyLen-calls.HashLength:])
		e, err := multisig.DecodeEntry(account, hash, value)
		if err != nil {
			return err
		}
		entries = append(entries, *e)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "multisig entries")
	}
	return entries, nil
}

// StakingLedger returns the staking ledger of an account, or nil if the
// account does not stake.
func (c *Client) StakingLedger(ctx context.Context, id cosign.AccountID) (*capacity.Ledger, error) {
	raw, err := c.storage(ctx, StorageKey("Capacity", "StakingAccountLedger", crypto.Twox64Concat(id.Bytes())))
	if err != nil {
		return nil, err
	}
	return capacity.DecodeLedger(raw)
}

// StakeTargets returns the stake of an account towards every provider,
// ordered by storage key. Provider names are looked up in the provider
// registry.
func (c *Client) StakeTargets(ctx context.Context, id cosign.AccountID) ([]capacity.StakeTarget, error) {
	prefix := StorageKey("Capacity", "StakingTargetLedger", crypto.Twox64Concat(id.Bytes()))
	// The provider id is the second map key, hashed with twox64_concat.
	keyLen := len(prefix) + 8 + 8

	var targets []capacity.StakeTarget
	err := c.iterate(ctx, prefix, keyLen, func(key, value []byte) error {
		provider := binary.LittleEndian.Uint64(key[keyLen-8:])
		t, err := capacity.DecodeStakeTarget(provider, value)
		if err != nil {
			return err
		}
		targets = append(targets, *t)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "staking targets")
	}

	for i := range targets {
		name, err := c.ProviderName(ctx, targets[i].Provider)
		if err != nil {
			return nil, err
		}
		targets[i].ProviderName = name
	}
	return targets, nil
}

// ProviderName returns the registered name of a provider, or an empty
// string if the provider is not registered.
func (c *Client) ProviderName(ctx context.Context, provider uint64) (string, error) {
	var id [8]byte
	binary.LittleEndian.PutUint64(id[:], provider)
	raw, err := c.storage(ctx, StorageKey("Msa", "ProviderToRegistryEntry", crypto.Twox64Concat(id[:])))
	if err != nil {
		return "", err
	}
	return capacity.DecodeProviderName(raw)
}

// iterate calls fn with every existing value stored under prefix, in key
// order. All keys must be keyLen bytes long.
func (c *Client) iterate(ctx context.Context, prefix []byte, keyLen int, fn func(key, value []byte) error) error {
	var start *string
	for {
		var keys []string
		params := []interface{}{toHex(prefix), keysPageSize}
		if start != nil {
			params = append(params, *start)
		}
		if err := c.call(ctx, &keys, "state_getKeysPaged", params...); err != nil {
			return err
		}
		if len(keys) == 0 {
			return nil
		}

		var sets []storageChangeSet
		if err := c.call(ctx, &sets, "state_queryStorageAt", keys); err != nil {
			return err
		}
		for _, set := range sets {
			for _, change := range set.Changes {
				key, err := fromHex(change[0])
				if err != nil {
					return errors.Wrap(err, "storage key")
				}
				if len(key) != keyLen {
					return errors.Wrapf(errors.ErrDecode, "storage key length %d, want %d", len(key), keyLen)
				}
				value, err := fromHex(change[1])
				if err != nil {
					return errors.Wrap(err, "storage value")
				}
				if value == nil {
					continue
				}
				if err := fn(key, value); err != nil {
					return err
				}
			}
		}

		if len(keys) < keysPageSize {
			return nil
		}
		start = &keys[len(keys)-1]
	}
}

// storage returns the value of a storage item, or nil if it does not exist.
func (c *Client) storage(ctx context.Context, key []byte) ([]byte, error) {
	var value *string
	if err := c.call(ctx, &value, "state_getStorage", toHex(key)); err != nil {
		return nil, err
	}
	return fromHex(value)
}
