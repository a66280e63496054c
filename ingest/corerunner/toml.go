package corerunner

import (
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// parsedCoreConfig is the handful of fields this module asserts are present
// and well-typed after writing a network template - a cheap guard against a
// corrupted template constant, not a general-purpose config loader.
type parsedCoreConfig struct {
	NetworkPassphrase string `toml:"NETWORK_PASSPHRASE"`
	Database          string `toml:"DATABASE"`
	PeerPort          int64  `toml:"PEER_PORT"`
	UnsafeQuorum      bool   `toml:"UNSAFE_QUORUM"`
}

// validateTemplate parses body as TOML and checks it has the fields every
// template is expected to carry, grounded on the same
// github.com/pelletier/go-toml processing the ledgerexporter service uses
// for its own captive-core config handling.
func validateTemplate(body string) error {
	tree, err := toml.Load(body)
	if err != nil {
		return errors.Wrap(err, "parsing stellar-core.cfg template")
	}

	var parsed parsedCoreConfig
	if err := tree.Unmarshal(&parsed); err != nil {
		return errors.Wrap(err, "unmarshalling stellar-core.cfg template")
	}

	if parsed.NetworkPassphrase == "" {
		return errors.New("stellar-core.cfg template missing NETWORK_PASSPHRASE")
	}
	if parsed.Database == "" {
		return errors.New("stellar-core.cfg template missing DATABASE")
	}
	if parsed.PeerPort == 0 {
		return errors.New("stellar-core.cfg template missing PEER_PORT")
	}
	if !parsed.UnsafeQuorum {
		return errors.New("stellar-core.cfg template missing UNSAFE_QUORUM=true")
	}

	return nil
}
