package trigger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raoulx24/stats-backup/internal/logging"
)

func TestKind_Action(t *testing.T) {
	assert.Equal(t, ActionBackup, Manual.Action())
	assert.Equal(t, ActionBackup, Terminate.Action())
	assert.Equal(t, ActionAutoForToday, Launch.Action())
	assert.Equal(t, ActionAutoForToday, Daily.Action())
	assert.Equal(t, ActionAutoForToday, Unlock.Action())
	assert.Equal(t, ActionNone, Lock.Action())
	assert.Equal(t, ActionNone, Sleep.Action())
	assert.Equal(t, ActionNone, Wake.Action())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "unlock", Unlock.String())
	assert.Equal(t, "unknown", Kind(99).String())
}

func TestMerge(t *testing.T) {
	assert.Equal(t, Manual, Merge(Manual, Unlock))
	assert.Equal(t, Manual, Merge(Unlock, Manual))
	assert.Equal(t, Daily, Merge(Launch, Daily))
	assert.Equal(t, Launch, Merge(Launch, Wake))
}

func TestNewScheduler_BadSpec(t *testing.T) {
	_, err := NewScheduler("not a cron", func(Kind) {}, logging.Nop())
	assert.Error(t, err)
}

func TestScheduler_EmitsDaily(t *testing.T) {
	got := make(chan Kind, 4)
	s, err := NewScheduler("@every 1s", func(k Kind) {
		select {
		case got <- k:
		default:
		}
	}, logging.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ctx) }()

	select {
	case k := <-got:
		assert.Equal(t, Daily, k)
	case <-time.After(3 * time.Second):
		t.Fatal("scheduler never fired")
	}

	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)
}
