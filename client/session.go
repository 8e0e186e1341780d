package client

import (
	"context"
	"sync"
	"time"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/app"
	"github.com/iov-one/cosign/calls"
	"github.com/iov-one/cosign/crypto/ss58"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/schedule"
	"github.com/iov-one/cosign/x/multisig"
	"github.com/tendermint/tendermint/libs/log"
)

// Config is the configuration of a session.
type Config struct {
	// NodeURL is the websocket endpoint of the chain node.
	NodeURL string
	// RelayURL is the endpoint of the chain whose height release
	// schedules refer to. The node itself is used when empty.
	RelayURL string
	// Prefix overrides the network prefix reported by the node.
	Prefix *uint16
	// BlockPeriod is the block time of the relay chain.
	BlockPeriod time.Duration
	// Freshness is how long a relay height is reused.
	Freshness time.Duration
	// RequestTimeout limits every request, zero means no limit.
	RequestTimeout time.Duration
	Pallets        app.Pallets
}

// DefaultConfig returns a configuration for a node at given URL.
func DefaultConfig(nodeURL string) Config {
	return Config{
		NodeURL:        nodeURL,
		BlockPeriod:    schedule.DefaultBlockPeriod,
		Freshness:      schedule.DefaultFreshness,
		RequestTimeout: 30 * time.Second,
		Pallets:        app.DefaultPallets,
	}
}

// Validate returns an error if the configuration cannot be used.
func (c Config) Validate() error {
	var errs error
	if c.NodeURL == "" {
		errs = errors.AppendField(errs, "NodeURL", errors.ErrEmpty)
	}
	if c.Prefix != nil && *c.Prefix > ss58.MaxPrefix {
		errs = errors.Append(errs, errors.Field("Prefix", errors.ErrInvalidInput, "must not exceed %d", ss58.MaxPrefix))
	}
	if c.BlockPeriod <= 0 {
		errs = errors.Append(errs, errors.Field("BlockPeriod", errors.ErrInvalidInput, "must be positive"))
	}
	if c.Freshness < 0 {
		errs = errors.Append(errs, errors.Field("Freshness", errors.ErrInvalidInput, "must not be negative"))
	}
	if c.RequestTimeout < 0 {
		errs = errors.Append(errs, errors.Field("RequestTimeout", errors.ErrInvalidInput, "must not be negative"))
	}
	return errors.AppendField(errs, "Pallets", c.Pallets.Validate())
}

// WalletAccounts lists the accounts the user controls.
type WalletAccounts interface {
	ListAccounts(ctx context.Context) ([]WalletAccount, error)
}

// Session holds the chain connection and everything derived from it for
// the time the user works with one network. Open it once, pass it to the
// components that need it and Close it when done.
type Session struct {
	Client     *Client
	Properties Properties
	Codec      cosign.Codec
	Registry   *calls.Registry
	Clock      *schedule.Clock

	logger log.Logger
	relay  *relaySource

	accMu    sync.Mutex
	accounts []WalletAccount
	loaded   bool
}

// Open dials the node, loads the chain properties and prepares the codec,
// the call registry and the reference clock. The relay connection is
// opened on first use.
func Open(ctx context.Context, cfg Config, logger log.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	registry, err := app.Registry(cfg.Pallets)
	if err != nil {
		return nil, err
	}

	conn, err := Dial(ctx, cfg.NodeURL, WithConnLogger(logger.With("conn", "node")))
	if err != nil {
		return nil, err
	}
	cl := NewClient(conn, WithLogger(logger), WithRequestTimeout(cfg.RequestTimeout))

	props, err := cl.Properties(ctx)
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "chain properties")
	}
	prefix := props.SS58Format
	if cfg.Prefix != nil {
		prefix = *cfg.Prefix
	}
	codec, err := cosign.NewCodec(prefix)
	if err != nil {
		conn.Close()
		return nil, err
	}

	s := &Session{
		Client:     cl,
		Properties: *props,
		Codec:      codec,
		Registry:   registry,
		logger:     logger,
	}
	var source schedule.HeightSource = cl
	if cfg.RelayURL != "" {
		s.relay = &relaySource{url: cfg.RelayURL, timeout: cfg.RequestTimeout, logger: logger}
		source = s.relay
	}
	s.Clock = schedule.NewClock(source,
		schedule.WithBlockPeriod(cfg.BlockPeriod),
		schedule.WithFreshness(cfg.Freshness),
		schedule.WithLogger(logger.With("module", "clock")),
	)
	logger.Info("session opened", "node", cfg.NodeURL, "prefix", prefix, "token", props.TokenSymbol)
	return s, nil
}

// Reconciler returns a reconciler reading pending calls from the node.
func (s *Session) Reconciler() *multisig.Reconciler {
	return multisig.NewReconciler(s.Client, s.Registry,
		multisig.WithClock(s.Clock),
		multisig.WithLogger(s.logger.With("module", "multisig")),
	)
}

// Accounts returns the wallet accounts. The list is loaded once per
// session.
func (s *Session) Accounts(ctx context.Context, w WalletAccounts) ([]WalletAccount, error) {
	s.accMu.Lock()
	defer s.accMu.Unlock()
	if s.loaded {
		return s.accounts, nil
	}
	accounts, err := w.ListAccounts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "wallet accounts")
	}
	s.accounts = accounts
	s.loaded = true
	return accounts, nil
}

// AccountIDs returns the ids of the cached wallet accounts.
func (s *Session) AccountIDs(ctx context.Context, w WalletAccounts) ([]cosign.AccountID, error) {
	accounts, err := s.Accounts(ctx, w)
	if err != nil {
		return nil, err
	}
	ids := make([]cosign.AccountID, len(accounts))
	for i, a := range accounts {
		ids[i] = a.ID
	}
	return ids, nil
}

// Close closes all connections of the session.
func (s *Session) Close() error {
	var errs error
	if s.relay != nil {
		errs = errors.Append(errs, s.relay.close())
	}
	return errors.Append(errs, s.Client.Conn().Close())
}

// relaySource reads the relay chain height over a connection that is
// dialed on first use and again after it was lost.
type relaySource struct {
	url     string
	timeout time.Duration
	logger  log.Logger

	mu     sync.Mutex
	client *Client
}

func (r *relaySource) ReferenceHeight(ctx context.Context) (uint64, error) {
	cl, err := r.get(ctx)
	if err != nil {
		return 0, err
	}
	return cl.ReferenceHeight(ctx)
}

func (r *relaySource) get(ctx context.Context) (*Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client != nil {
		select {
		case <-r.client.Conn().Done():
			r.logger.Info("relay connection lost, reconnecting", "err", r.client.Conn().Err())
			r.client = nil
		default:
			return r.client, nil
		}
	}
	conn, err := Dial(ctx, r.url, WithConnLogger(r.logger.With("conn", "relay")))
	if err != nil {
		return nil, errors.Wrap(err, "relay")
	}
	r.client = NewClient(conn, WithLogger(r.logger), WithRequestTimeout(r.timeout))
	return r.client, nil
}

func (r *relaySource) close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client == nil {
		return nil
	}
	err := r.client.Conn().Close()
	r.client = nil
	return err
}
