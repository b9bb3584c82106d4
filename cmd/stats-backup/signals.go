package main

type signalAction int

const (
	signalStop signalAction = iota
	signalManual
	signalUnlock
	signalReload
)
