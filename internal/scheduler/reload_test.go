package scheduler

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

type countingReloader struct {
	calls atomic.Int32
	err   error
}

func (r *countingReloader) ReloadAll(context.Context) error {
	r.calls.Add(1)
	return r.err
}

// every fires at a fixed sub-second interval.
type every time.Duration

func (e every) Next(t time.Time) time.Time { return t.Add(time.Duration(e)) }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseSchedule(t *testing.T) {
	base := time.Date(2024, 3, 1, 8, 3, 0, 0, time.UTC)

	tests := []struct {
		expr string
		want time.Time
	}{
		{"*/10 * * * *", time.Date(2024, 3, 1, 8, 10, 0, 0, time.UTC)},
		{"0 7-19 * * 1-5", time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
		{"@hourly", time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
		{" @every 15m ", base.Add(15 * time.Minute)},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			sched, err := ParseSchedule(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sched.Next(base))
		})
	}
}

func TestParseSchedule_Invalid(t *testing.T) {
	for _, expr := range []string{"", "every day", "61 * * * *", "0 0 * * * *"} {
		_, err := ParseSchedule(expr)
		assert.Error(t, err, expr)
	}

	_, err := New("nonsense", &countingReloader{}, testLogger())
	assert.Error(t, err)
}

func TestParseSchedule_NeverFires(t *testing.T) {
	for _, expr := range []string{"0 0 30 2 *", "0 0 31 4 *"} {
		_, err := ParseSchedule(expr)
		assert.ErrorIs(t, err, ErrNeverFires, expr)
	}

	_, err := New("0 0 30 2 *", &countingReloader{}, testLogger())
	assert.ErrorIs(t, err, ErrNeverFires)
}

// exhausted has no activations left.
type exhausted struct{}

func (exhausted) Next(time.Time) time.Time { return time.Time{} }

func TestReloadScheduler_RunStopsWhenScheduleRunsOut(t *testing.T) {
	reloader := &countingReloader{}
	s := NewWithSchedule(exhausted{}, reloader, testLogger())

	done := make(chan struct{})
	go func() {
		s.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler kept running without activations")
	}
	assert.Zero(t, reloader.calls.Load())
}

func TestReloadScheduler_Run(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"success", nil},
		{"failures keep running", errors.New("source down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reloader := &countingReloader{err: tt.err}
			s := NewWithSchedule(every(5*time.Millisecond), reloader, testLogger())

			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				s.Run(ctx)
				close(done)
			}()

			require.Eventually(t, func() bool { return reloader.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
			cancel()

			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("scheduler did not stop")
			}
		})
	}
}
