package main

import (
	"context"
	"flag"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/app"
	"github.com/iov-one/cosign/client"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/x/multisig"
)

// fileConfig is the content of a configuration file.
//
//   node = "wss://rpc.example.org"
//   relay = "wss://relay.example.org"
//   prefix = 42
//   block_period = "6s"
//
//   [pallets]
//   balances = 10
//   multisig = 30
//
//   [multisig]
//   threshold = 2
//   signatories = ["5GrwvaEF...", "5FHneW46...", "5FLSigC9..."]
//   address = "5DjYJStm..."
type fileConfig struct {
	Node        string         `toml:"node"`
	Relay       string         `toml:"relay"`
	Prefix      *uint16        `toml:"prefix"`
	BlockPeriod string         `toml:"block_period"`
	Freshness   string         `toml:"freshness"`
	Timeout     string         `toml:"timeout"`
	Pallets     app.Pallets    `toml:"pallets"`
	Multisig    multisigConfig `toml:"multisig"`
}

type multisigConfig struct {
	Threshold   uint16   `toml:"threshold"`
	Signatories []string `toml:"signatories"`
	// Address is the expected multisig address, checked against the one
	// derived from the signatories when set.
	Address string `toml:"address"`
}

// loadConfig reads a configuration file. An empty path gives the default
// configuration. Unknown keys are rejected so that typos do not go
// unnoticed.
func loadConfig(path string) (*fileConfig, error) {
	conf := &fileConfig{Pallets: app.DefaultPallets}
	if path == "" {
		return conf, nil
	}
	md, err := toml.DecodeFile(path, conf)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrFormat, "config %s: %s", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.Wrapf(errors.ErrFormat, "config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return conf, nil
}

// sessionConfig returns the session configuration. Values given with flags
// or environment variables take precedence over the file.
func (c *fileConfig) sessionConfig(node, relay, prefix string) (client.Config, error) {
	if node == "" {
		node = c.Node
	}
	cfg := client.DefaultConfig(node)
	cfg.RelayURL = c.Relay
	if relay != "" {
		cfg.RelayURL = relay
	}
	cfg.Prefix = c.Prefix
	if prefix != "" {
		p, err := strconv.ParseUint(prefix, 10, 16)
		if err != nil {
			return cfg, errors.Field("Prefix", errors.ErrFormat, "%q is not a network prefix", prefix)
		}
		v := uint16(p)
		cfg.Prefix = &v
	}
	cfg.Pallets = c.Pallets

	var errs error
	for _, d := range []struct {
		field string
		raw   string
		dst   *time.Duration
	}{
		{"BlockPeriod", c.BlockPeriod, &cfg.BlockPeriod},
		{"Freshness", c.Freshness, &cfg.Freshness},
		{"RequestTimeout", c.Timeout, &cfg.RequestTimeout},
	} {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			errs = errors.Append(errs, errors.Field(d.field, errors.ErrFormat, "%q is not a duration", d.raw))
			continue
		}
		*d.dst = v
	}
	if errs != nil {
		return cfg, errs
	}
	return cfg, cfg.Validate()
}

// descriptor returns the multisig account of the configuration.
func (c *fileConfig) descriptor(codec cosign.Codec) (*cosign.Descriptor, error) {
	d, err := cosign.NewDescriptor(codec, c.Multisig.Threshold, c.Multisig.Signatories, "")
	if err != nil {
		return nil, err
	}
	if c.Multisig.Address == "" {
		return d, nil
	}
	account, err := d.Account()
	if err != nil {
		return nil, err
	}
	expected, err := codec.Decode(c.Multisig.Address)
	if err != nil {
		return nil, errors.Field("Address", err, "expected multisig address")
	}
	if expected != account {
		return nil, errors.Wrapf(errors.ErrCanonical, "signatories derive %s, configured %s",
			codec.Encode(account), c.Multisig.Address)
	}
	return d, nil
}

func (c *fileConfig) reconcilerConfig(codec cosign.Codec) multisig.Config {
	return multisig.Config{
		Codec:       codec,
		Threshold:   c.Multisig.Threshold,
		Signatories: c.Multisig.Signatories,
		Expected:    c.Multisig.Address,
	}
}

// chainFlags registers the flags selecting the chain of a command.
type chainFlags struct {
	config *string
	node   *string
	relay  *string
	prefix *string
}

func addChainFlags(fl *flag.FlagSet) *chainFlags {
	return &chainFlags{
		config: fl.String("config", env("COSIGN_CONFIG", ""), "Path to a TOML configuration file."),
		node:   fl.String("node", env("COSIGN_NODE", ""), "Websocket address of the chain node."),
		relay:  fl.String("relay", env("COSIGN_RELAY", ""), "Websocket address of the relay chain node. The chain node is used when empty."),
		prefix: fl.String("prefix", env("COSIGN_PREFIX", ""), "Network prefix of addresses. Read from the node when empty."),
	}
}

// codec returns the address codec for commands that work offline. The
// prefix defaults to the generic Substrate one.
func (f *chainFlags) codec(conf *fileConfig) (cosign.Codec, error) {
	prefix := uint16(cosign.SubstratePrefix)
	if conf.Prefix != nil {
		prefix = *conf.Prefix
	}
	if *f.prefix != "" {
		p, err := strconv.ParseUint(*f.prefix, 10, 16)
		if err != nil {
			return cosign.Codec{}, errors.Field("Prefix", errors.ErrFormat, "%q is not a network prefix", *f.prefix)
		}
		prefix = uint16(p)
	}
	return cosign.NewCodec(prefix)
}

func (f *chainFlags) load() (*fileConfig, error) {
	return loadConfig(*f.config)
}

// open loads the configuration and opens a session with the node.
func (f *chainFlags) open(ctx context.Context) (*client.Session, *fileConfig, error) {
	conf, err := f.load()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := conf.sessionConfig(*f.node, *f.relay, *f.prefix)
	if err != nil {
		return nil, nil, err
	}
	s, err := client.Open(ctx, cfg, newLogger())
	if err != nil {
		return nil, nil, err
	}
	return s, conf, nil
}
