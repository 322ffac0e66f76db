// Command nulstx decodes, prices and publishes NULS transactions.
package main

import (
	"errors"
	"io"
	"os"

	flags "github.com/jessevdk/go-flags"

	"github.com/nulsworld/libnuls-go/config"
	"github.com/nulsworld/libnuls-go/network"
)

// globalOptions override the config file.
type globalOptions struct {
	DataDir    string `short:"d" long:"datadir" description:"Directory for the config file, journal and local content"`
	ConfigFile string `short:"C" long:"configfile" description:"Path to configuration file"`
	Network    string `long:"network" description:"Network preset (mainnet, local)"`
	API        string `long:"api" description:"API server URL; overrides the network preset"`
	Digest     string `long:"digest" description:"Signature digest layout (wire, compact)"`
	LogLevel   string `long:"loglevel" description:"Logging level (trace, debug, info, warn, error, critical, off)"`
	LogFile    string `long:"logfile" description:"Also write logs to this file"`
}

type app struct {
	opts   globalOptions
	cfg    config.Config
	loaded bool
	out    io.Writer
	getenv func(string) string
}

func newApp(out io.Writer) *app {
	return &app{out: out, getenv: os.Getenv}
}

// load resolves the configuration: defaults, then the config file, then
// command line options. It runs once, before the first command executes.
func (a *app) load() error {
	if a.loaded {
		return nil
	}

	dataDir := a.opts.DataDir
	if dataDir == "" {
		dataDir = config.DefaultDataDir()
	}
	path := a.opts.ConfigFile
	if path == "" {
		path = config.ConfigPath(dataDir)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return err
	}
	if a.opts.DataDir != "" {
		cfg.DataDir = a.opts.DataDir
	}
	if a.opts.Network != "" {
		cfg.Network = a.opts.Network
	}
	if a.opts.API != "" {
		cfg.APIServer = a.opts.API
	}
	if a.opts.Digest != "" {
		cfg.DigestMode = a.opts.Digest
	}
	if a.opts.LogLevel != "" {
		cfg.LogLevel = a.opts.LogLevel
	}
	if a.opts.LogFile != "" {
		cfg.LogFile = a.opts.LogFile
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return err
	}

	if cfg.LogFile != "" {
		if err := initLogRotator(cfg.LogFile); err != nil {
			return err
		}
	}
	setLogLevels(cfg.LogLevel)

	a.cfg = cfg
	a.loaded = true
	log.Debugf("Using data directory %s, network %s", cfg.DataDir, cfg.Network)
	return nil
}

// apiClient returns a client for the configured API server.
func (a *app) apiClient() (*network.APIClient, error) {
	env := map[string]string{
		network.EnvAPIURL:  a.getenv(network.EnvAPIURL),
		network.EnvAPIUser: a.getenv(network.EnvAPIUser),
		network.EnvAPIPass: a.getenv(network.EnvAPIPass),
	}
	resolved, err := network.ResolveConfig(&network.APIConfig{URL: a.cfg.APIServer}, env, a.cfg.Network)
	if err != nil {
		return nil, err
	}
	log.Debugf("Using API server %s", resolved.URL)
	return network.NewAPIClient(*resolved), nil
}

func (a *app) parser() *flags.Parser {
	p := flags.NewParser(&a.opts, flags.Default)
	p.AddCommand("decode", "Decode a serialized transaction",
		"Decode a hex serialized transaction and print it as JSON.", &decodeCommand{app: a})
	p.AddCommand("address", "Derive or check an address",
		"Derive the address of a hex public or private key, or check an address with --check.", &addressCommand{app: a})
	p.AddCommand("fee", "Estimate a transaction fee",
		"Estimate the size and fee of a transaction with the given shape.", &feeCommand{app: a})
	p.AddCommand("post", "Publish a post",
		"Push a post document and broadcast a transaction referencing it.", &postCommand{app: a})
	p.AddCommand("aggregate", "Publish an aggregate value",
		"Push a JSON value under an aggregate key and broadcast a transaction referencing it.", &aggregateCommand{app: a})
	p.AddCommand("profile", "Show the profile of an address",
		"Fetch the profile aggregate of an address.", &profileCommand{app: a})
	p.AddCommand("resend", "Rebroadcast pending transactions",
		"Broadcast every journaled transaction the network has not accepted yet.", &resendCommand{app: a})
	return p
}

func (a *app) run(args []string) error {
	_, err := a.parser().ParseArgs(args)
	return err
}

func main() {
	err := newApp(os.Stdout).run(os.Args[1:])
	if logRotator != nil {
		logRotator.Close()
	}
	if err != nil {
		// The parser has already printed the error.
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
