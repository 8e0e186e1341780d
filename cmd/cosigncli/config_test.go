package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/iov-one/cosign/app"
	"github.com/iov-one/cosign/cosigntest"
	"github.com/iov-one/cosign/errors"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	conf, err := loadConfig("")
	require.NoError(t, err)
	require.Equal(t, app.DefaultPallets, conf.Pallets)

	path := writeConfig(t, `
node = "ws://node:9944"
prefix = 90
block_period = "12s"

[pallets]
multisig = 31
`)
	conf, err = loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "ws://node:9944", conf.Node)
	require.Equal(t, uint16(90), *conf.Prefix)
	require.Equal(t, uint8(31), conf.Pallets.Multisig)
	require.Equal(t, app.DefaultPallets.Balances, conf.Pallets.Balances)

	_, err = loadConfig(writeConfig(t, "nodes = \"ws://node\"\n"))
	require.ErrorIs(t, err, errors.ErrFormat)
	require.ErrorContains(t, err, "nodes")

	_, err = loadConfig(writeConfig(t, "node = \n"))
	require.ErrorIs(t, err, errors.ErrFormat)
}

func TestSessionConfig(t *testing.T) {
	prefix := uint16(90)
	file := &fileConfig{
		Node:        "ws://file:9944",
		Relay:       "ws://relay:9944",
		Prefix:      &prefix,
		BlockPeriod: "12s",
		Timeout:     "1m",
		Pallets:     app.DefaultPallets,
	}

	cfg, err := file.sessionConfig("", "", "")
	require.NoError(t, err)
	require.Equal(t, "ws://file:9944", cfg.NodeURL)
	require.Equal(t, "ws://relay:9944", cfg.RelayURL)
	require.Equal(t, uint16(90), *cfg.Prefix)
	require.Equal(t, 12*time.Second, cfg.BlockPeriod)
	require.Equal(t, time.Minute, cfg.RequestTimeout)

	cfg, err = file.sessionConfig("ws://flag:9944", "ws://flagrelay:9944", "0")
	require.NoError(t, err)
	require.Equal(t, "ws://flag:9944", cfg.NodeURL)
	require.Equal(t, "ws://flagrelay:9944", cfg.RelayURL)
	require.Equal(t, uint16(0), *cfg.Prefix)

	_, err = (&fileConfig{Pallets: app.DefaultPallets}).sessionConfig("", "", "")
	cosigntest.RequireFieldError(t, err, "NodeURL", errors.ErrEmpty)

	_, err = file.sessionConfig("", "", "polkadot")
	cosigntest.RequireFieldError(t, err, "Prefix", errors.ErrFormat)

	bad := *file
	bad.BlockPeriod = "soon"
	bad.Freshness = "-"
	_, err = bad.sessionConfig("", "", "")
	cosigntest.RequireFieldError(t, err, "BlockPeriod", errors.ErrFormat)
	cosigntest.RequireFieldError(t, err, "Freshness", errors.ErrFormat)
}

func TestAddress(t *testing.T) {
	d := cosigntest.Descriptor(t, 2, cosigntest.Alice, cosigntest.Bob, cosigntest.Charlie)
	want := cosigntest.Address(cosigntest.MultisigAccount(t, d))

	cases := map[string]struct {
		Args    []string
		WantErr *errors.Error
	}{
		"from arguments in any order": {
			Args: []string{
				"-threshold", "2",
				cosigntest.Address(cosigntest.Charlie),
				cosigntest.Address(cosigntest.Alice),
				cosigntest.Address(cosigntest.Bob),
			},
		},
		"from configuration": {
			Args: []string{"-config", multisigConfigFile(t, 2, "address = \""+want+"\"")},
		},
		"configured address mismatch": {
			Args:    []string{"-config", multisigConfigFile(t, 3, "address = \""+want+"\"")},
			WantErr: errors.ErrCanonical,
		},
		"threshold above signatory count": {
			Args: []string{
				"-threshold", "3",
				cosigntest.Address(cosigntest.Alice),
				cosigntest.Address(cosigntest.Bob),
			},
			WantErr: errors.ErrInvalidMultisigConfig,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var out bytes.Buffer
			err := cmdAddress(nil, &out, tc.Args)
			if tc.WantErr != nil {
				require.ErrorIs(t, err, tc.WantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, want+"\n", out.String())
		})
	}
}
