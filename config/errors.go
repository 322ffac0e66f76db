// Copyright (c) 2024 The NULS World developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import "errors"

var (
	// ErrInvalidNetwork indicates the network name is empty, or unknown
	// without an explicit API server.
	ErrInvalidNetwork = errors.New("config: invalid network (use \"mainnet\", \"local\", or set apiserver)")

	// ErrInvalidAPIServer indicates the API server URL is malformed.
	ErrInvalidAPIServer = errors.New("config: invalid API server URL")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"trace\", \"debug\", \"info\", \"warn\", \"error\", \"critical\", or \"off\")")

	// ErrInvalidDigestMode indicates the digest mode is not "wire" or "compact".
	ErrInvalidDigestMode = errors.New("config: invalid digest mode (must be \"wire\" or \"compact\")")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfigLine indicates a line in the config file is malformed.
	ErrInvalidConfigLine = errors.New("config: invalid configuration line")

	// ErrInvalidConfigValue indicates a value that does not parse for its key.
	ErrInvalidConfigValue = errors.New("config: invalid configuration value")
)
