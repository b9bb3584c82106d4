package trigger

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/raoulx24/stats-backup/internal/logging"
)

// Scheduler emits Daily on a cron schedule so a long-running process
// notices when the calendar day rolls over.
type Scheduler struct {
	spec string
	emit func(Kind)
	log  logging.Logger
}

// NewScheduler validates spec and returns a scheduler calling emit.
func NewScheduler(spec string, emit func(Kind), log logging.Logger) (*Scheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("parsing daily check schedule %q: %w", spec, err)
	}
	return &Scheduler{spec: spec, emit: emit, log: log}, nil
}

// Serve runs the schedule until ctx ends.
func (s *Scheduler) Serve(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(s.spec, func() { s.emit(Daily) }); err != nil {
		return fmt.Errorf("scheduling daily check: %w", err)
	}

	s.log.Debug("daily check scheduled", "spec", s.spec)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return ctx.Err()
}

func (s *Scheduler) String() string { return "daily-check" }
