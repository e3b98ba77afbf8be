package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRunner struct {
	calls atomic.Int32
	n     int
	err   error
	ran   chan struct{}
}

func (r *countingRunner) Run(ctx context.Context) (int, error) {
	r.calls.Add(1)
	if r.ran != nil {
		select {
		case r.ran <- struct{}{}:
		default:
		}
	}
	return r.n, r.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewStaleLeadWorkerSchedule(t *testing.T) {
	w, err := NewStaleLeadWorker(&countingRunner{}, "", quietLogger())
	require.NoError(t, err)
	assert.Equal(t, DefaultStaleLeadSchedule, w.schedule)

	_, err = NewStaleLeadWorker(&countingRunner{}, "every tuesday", quietLogger())
	assert.Error(t, err)
}

func TestRunOnce(t *testing.T) {
	r := &countingRunner{n: 3}
	w, err := NewStaleLeadWorker(r, "0 9 * * *", quietLogger())
	require.NoError(t, err)

	w.RunOnce(context.Background())
	assert.EqualValues(t, 1, r.calls.Load())

	r.err = errors.New("storage unavailable")
	w.RunOnce(context.Background())
	assert.EqualValues(t, 2, r.calls.Load())
}

func TestStartRunsOnScheduleAndStops(t *testing.T) {
	r := &countingRunner{ran: make(chan struct{}, 1)}
	w, err := NewStaleLeadWorker(r, "@every 1s", quietLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	select {
	case <-r.ran:
	case <-time.After(3 * time.Second):
		t.Fatal("digest never ran")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("worker did not stop")
	}
}
