package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raoulx24/stats-backup/internal/backup"
	"github.com/raoulx24/stats-backup/internal/logging"
	"github.com/raoulx24/stats-backup/internal/trigger"
)

type fakeEngine struct {
	mu      sync.Mutex
	backups int
	autos   int
	release chan struct{}
	calls   chan string
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{calls: make(chan string, 16)}
}

func (f *fakeEngine) Backup(ctx context.Context) backup.Report {
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	f.backups++
	f.mu.Unlock()
	f.calls <- "backup"
	return backup.Report{Action: backup.ActionCopied}
}

func (f *fakeEngine) AutoBackupForToday(ctx context.Context) bool {
	f.mu.Lock()
	f.autos++
	f.mu.Unlock()
	f.calls <- "auto"
	return true
}

func (f *fakeEngine) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.backups, f.autos
}

func TestHandle_Dispatch(t *testing.T) {
	e := newFakeEngine()
	w := New(e, logging.Nop())
	ctx := context.Background()

	w.Handle(ctx, trigger.Manual)
	w.Handle(ctx, trigger.Terminate)
	w.Handle(ctx, trigger.Launch)
	w.Handle(ctx, trigger.Daily)
	w.Handle(ctx, trigger.Unlock)
	w.Handle(ctx, trigger.Lock)
	w.Handle(ctx, trigger.Sleep)
	w.Handle(ctx, trigger.Wake)

	b, a := e.counts()
	assert.Equal(t, 2, b)
	assert.Equal(t, 3, a)
}

func TestHandle_AutoBackupDisabled(t *testing.T) {
	e := newFakeEngine()
	w := New(e, logging.Nop())
	w.SetAutoBackup(false)

	w.Handle(context.Background(), trigger.Daily)
	w.Handle(context.Background(), trigger.Manual)

	b, a := e.counts()
	assert.Equal(t, 1, b)
	assert.Zero(t, a)
}

func TestSubmit_IgnoresLogOnlyTriggers(t *testing.T) {
	w := New(newFakeEngine(), logging.Nop())
	w.Submit(trigger.Sleep)
	w.Submit(trigger.Wake)
	assert.False(t, w.mb.HasJob())

	w.Submit(trigger.Unlock)
	assert.True(t, w.mb.HasJob())
}

func TestServe_MergesPendingTriggers(t *testing.T) {
	e := newFakeEngine()
	e.release = make(chan struct{})
	w := New(e, logging.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- w.Serve(ctx) }()

	// first manual blocks inside the engine
	w.Submit(trigger.Manual)
	require.Eventually(t, func() bool { return !w.mb.HasJob() }, time.Second, 5*time.Millisecond)

	// these arrive while busy and collapse into one manual backup
	w.Submit(trigger.Manual)
	w.Submit(trigger.Unlock)
	close(e.release)

	for i := 0; i < 2; i++ {
		select {
		case c := <-e.calls:
			assert.Equal(t, "backup", c)
		case <-time.After(time.Second):
			t.Fatal("backup not run")
		}
	}

	select {
	case c := <-e.calls:
		t.Fatalf("unexpected extra call %q", c)
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)
}
