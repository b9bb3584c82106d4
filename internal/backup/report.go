package backup

import "github.com/raoulx24/stats-backup/internal/logging"

type Action string

const (
	ActionCopied Action = "copied"
	ActionLinked Action = "linked"
	ActionFailed Action = "failed"
)

// Report describes one Backup cycle.
type Report struct {
	RunID       string `json:"runId"`
	Action      Action `json:"action"`
	Path        string `json:"path,omitempty"`
	Pruned      int    `json:"pruned"`
	PruneFailed int    `json:"pruneFailed,omitempty"`
}

// runLogger tags every line of one cycle with its run id.
type runLogger struct {
	logging.Logger
	id string
}

func withRun(l logging.Logger, id string) logging.Logger {
	return runLogger{Logger: l, id: id}
}

func (r runLogger) Debug(msg string, args ...any) { r.Logger.Debug(msg, append(args, "run", r.id)...) }
func (r runLogger) Info(msg string, args ...any)  { r.Logger.Info(msg, append(args, "run", r.id)...) }
func (r runLogger) Warn(msg string, args ...any)  { r.Logger.Warn(msg, append(args, "run", r.id)...) }
func (r runLogger) Error(msg string, args ...any) { r.Logger.Error(msg, append(args, "run", r.id)...) }
