package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"

	"github.com/nulsworld/libnuls-go/content"
	"github.com/nulsworld/libnuls-go/journal"
	"github.com/nulsworld/libnuls-go/network"
	"github.com/nulsworld/libnuls-go/tx"
)

// logWriter writes to stderr and, once initLogRotator has run, to the
// rotating log file.
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	os.Stderr.Write(p)
	if logRotator != nil {
		logRotator.Write(p)
	}
	return len(p), nil
}

// Loggers per subsystem. All of them route through backendLog.
var (
	backendLog = btclog.NewBackend(logWriter{})
	logRotator *rotator.Rotator

	log     = backendLog.Logger("NTX")
	txLog   = backendLog.Logger("TX")
	netLog  = backendLog.Logger("NET")
	jrnlLog = backendLog.Logger("JRNL")
	cntLog  = backendLog.Logger("CONT")
)

// subsystemLoggers maps each subsystem identifier to its logger.
var subsystemLoggers = map[string]btclog.Logger{
	"NTX":  log,
	"TX":   txLog,
	"NET":  netLog,
	"JRNL": jrnlLog,
	"CONT": cntLog,
}

func init() {
	tx.UseLogger(txLog)
	network.UseLogger(netLog)
	journal.UseLogger(jrnlLog)
	content.UseLogger(cntLog)
}

// initLogRotator starts writing logs to logFile, rolling it over at 10 MB
// and keeping three old files.
func initLogRotator(logFile string) error {
	if err := os.MkdirAll(filepath.Dir(logFile), 0700); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return fmt.Errorf("create file rotator: %w", err)
	}
	if logRotator != nil {
		logRotator.Close()
	}
	logRotator = r
	return nil
}

// setLogLevels sets every subsystem logger to level. Invalid levels fall
// back to info.
func setLogLevels(level string) {
	lvl, ok := btclog.LevelFromString(level)
	if !ok {
		lvl = btclog.LevelInfo
	}
	for _, logger := range subsystemLoggers {
		logger.SetLevel(lvl)
	}
}
