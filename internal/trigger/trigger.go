// Package trigger defines the closed set of events that can start a backup
// and a cron-driven source of daily checks.
package trigger

// Kind identifies what asked for a backup.
type Kind int

const (
	// Lock, Sleep and Wake are observed but never back up on their own.
	Lock Kind = iota
	Sleep
	Wake
	// Launch, Daily and Unlock back up only if today has no snapshot yet.
	Launch
	Daily
	Unlock
	// Manual and Terminate always run a rotation cycle.
	Manual
	Terminate
)

// Action is what the engine does for a Kind.
type Action int

const (
	ActionNone Action = iota
	ActionAutoForToday
	ActionBackup
)

func (k Kind) String() string {
	switch k {
	case Lock:
		return "lock"
	case Sleep:
		return "sleep"
	case Wake:
		return "wake"
	case Launch:
		return "launch"
	case Daily:
		return "daily"
	case Unlock:
		return "unlock"
	case Manual:
		return "manual"
	case Terminate:
		return "terminate"
	default:
		return "unknown"
	}
}

// Action maps the trigger to the engine operation it requests.
func (k Kind) Action() Action {
	switch k {
	case Manual, Terminate:
		return ActionBackup
	case Launch, Daily, Unlock:
		return ActionAutoForToday
	default:
		return ActionNone
	}
}

// Merge keeps whichever of two pending triggers asks for more work.
func Merge(pending, incoming Kind) Kind {
	if incoming.Action() >= pending.Action() {
		return incoming
	}
	return pending
}
