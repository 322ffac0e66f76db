// Copyright (c) 2024 The NULS World developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/btcsuite/btclog"

	"github.com/nulsworld/libnuls-go/network"
	"github.com/nulsworld/libnuls-go/tx"
)

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if cfg.Network == "" {
		return ErrInvalidNetwork
	}
	if _, ok := network.NetworkPresets[cfg.Network]; !ok && cfg.APIServer == "" {
		return fmt.Errorf("%w: %q", ErrInvalidNetwork, cfg.Network)
	}

	if cfg.APIServer != "" {
		if err := validateURL(cfg.APIServer); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidAPIServer, err)
		}
	}

	if _, err := tx.ParseDigestMode(cfg.DigestMode); err != nil {
		return ErrInvalidDigestMode
	}

	if _, ok := btclog.LevelFromString(cfg.LogLevel); !ok {
		return ErrInvalidLogLevel
	}

	return nil
}

// validateURL checks that s is an absolute http(s) URL.
func validateURL(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}
