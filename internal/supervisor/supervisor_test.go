package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raoulx24/stats-backup/internal/logging"
)

type blockingService struct{ started atomic.Int32 }

func (s *blockingService) Serve(ctx context.Context) error {
	s.started.Add(1)
	<-ctx.Done()
	return ctx.Err()
}

// flakyService fails on its first run and then behaves.
type flakyService struct{ runs atomic.Int32 }

func (s *flakyService) Serve(ctx context.Context) error {
	if s.runs.Add(1) == 1 {
		return errors.New("boom")
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestTree_RunsServices(t *testing.T) {
	tree := New(logging.Nop(), Config{ShutdownTimeout: time.Second})
	watch := &blockingService{}
	work := &blockingService{}
	tree.AddWatch(watch)
	tree.AddWork(work)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	require.Eventually(t, func() bool {
		return watch.started.Load() == 1 && work.started.Load() == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-errCh:
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not stop")
	}
}

func TestTree_RestartsFailedService(t *testing.T) {
	tree := New(logging.Nop(), Config{FailureBackoff: 10 * time.Millisecond, ShutdownTimeout: time.Second})
	svc := &flakyService{}
	tree.AddWork(svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tree.ServeBackground(ctx)

	require.Eventually(t, func() bool { return svc.runs.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 5.0, cfg.FailureThreshold)
	assert.Equal(t, 15*time.Second, cfg.FailureBackoff)
}
