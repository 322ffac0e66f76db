package network

import "github.com/btcsuite/btclog"

// log is a logger that is initialized with no output filters. The package
// does not log until the caller requests it.
var log btclog.Logger

func init() {
	DisableLog()
}

// DisableLog disables all library log output.
func DisableLog() {
	UseLogger(btclog.Disabled)
}

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger btclog.Logger) {
	log = logger
}
