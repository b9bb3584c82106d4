//go:build windows

package main

import (
	"os"
	"syscall"
)

// only interrupt and terminate exist here; use the backup command for manual runs
var hostSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func classify(os.Signal) signalAction {
	return signalStop
}
