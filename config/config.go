// Copyright (c) 2024 The NULS World developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config loads and saves the key = value configuration file of the
// nulstx tool.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"

	"github.com/nulsworld/libnuls-go/address"
	"github.com/nulsworld/libnuls-go/tx"
)

// Config holds the tool settings.
type Config struct {
	DataDir     string
	APIServer   string // overrides the network preset when set
	Network     string
	ChainID     uint16
	AddressType uint8
	DigestMode  string
	LogLevel    string
	LogFile     string
}

// DefaultDataDir returns the per-user application data directory,
// e.g. ~/.nulstx on POSIX systems.
func DefaultDataDir() string {
	return btcutil.AppDataDir("nulstx", false)
}

// ConfigPath returns the config file location inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config")
}

// DefaultConfig returns the main network defaults.
func DefaultConfig() Config {
	return Config{
		DataDir:     DefaultDataDir(),
		Network:     "mainnet",
		ChainID:     address.DefaultChainID,
		AddressType: address.DefaultAddressType,
		DigestMode:  tx.DigestWire.String(),
		LogLevel:    "info",
	}
}

// AddressParams returns the address parameters the config selects.
func (c Config) AddressParams() address.Params {
	return address.Params{ChainID: c.ChainID, AddressType: c.AddressType}
}

// Digest returns the configured digest mode, falling back to the wire
// layout when the value does not parse.
func (c Config) Digest() tx.DigestMode {
	m, err := tx.ParseDigestMode(c.DigestMode)
	if err != nil {
		return tx.DigestWire
	}
	return m
}

// LoadConfig reads a config file on top of DefaultConfig. Blank lines and
// lines starting with # are skipped, unknown keys are ignored.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, err := parseKeyValue(line)
		if err != nil {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, lineNo, line)
		}
		if err := cfg.set(key, value); err != nil {
			return cfg, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	return cfg, nil
}

// parseKeyValue splits "key = value" on the first '='.
func parseKeyValue(line string) (string, string, error) {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", ErrInvalidConfigLine
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return "", "", ErrInvalidConfigLine
	}
	return key, strings.TrimSpace(value), nil
}

func (c *Config) set(key, value string) error {
	switch key {
	case "datadir":
		c.DataDir = value
	case "apiserver":
		c.APIServer = value
	case "network":
		c.Network = value
	case "chainid":
		v, err := strconv.ParseUint(value, 10, 16)
		if err != nil {
			return fmt.Errorf("%w: chainid %q", ErrInvalidConfigValue, value)
		}
		c.ChainID = uint16(v)
	case "addresstype":
		v, err := strconv.ParseUint(value, 10, 8)
		if err != nil {
			return fmt.Errorf("%w: addresstype %q", ErrInvalidConfigValue, value)
		}
		c.AddressType = uint8(v)
	case "digest":
		c.DigestMode = value
	case "loglevel":
		c.LogLevel = value
	case "logfile":
		c.LogFile = value
	}
	return nil
}

// SaveConfig writes cfg to path, creating parent directories.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# nulstx configuration\n\n")
	fmt.Fprintf(&b, "datadir = %s\n", cfg.DataDir)
	fmt.Fprintf(&b, "network = %s\n", cfg.Network)
	fmt.Fprintf(&b, "apiserver = %s\n", cfg.APIServer)
	fmt.Fprintf(&b, "chainid = %d\n", cfg.ChainID)
	fmt.Fprintf(&b, "addresstype = %d\n", cfg.AddressType)
	fmt.Fprintf(&b, "digest = %s\n", cfg.DigestMode)
	fmt.Fprintf(&b, "loglevel = %s\n", cfg.LogLevel)
	fmt.Fprintf(&b, "logfile = %s\n", cfg.LogFile)

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
