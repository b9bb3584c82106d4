//go:build !windows

package main

import (
	"os"
	"syscall"
)

var hostSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGUSR1, syscall.SIGUSR2}

func classify(sig os.Signal) signalAction {
	switch sig {
	case syscall.SIGUSR1:
		return signalManual
	case syscall.SIGUSR2:
		return signalUnlock
	case syscall.SIGHUP:
		return signalReload
	default:
		return signalStop
	}
}
