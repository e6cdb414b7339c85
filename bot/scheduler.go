package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const cycleFailureThreshold = 3

// Watch runs one poll cycle immediately, then one per tick of interval until
// ctx is canceled. Ticks are single-flight: a tick that fires while a cycle
// is still running is skipped, never run concurrently.
func (b *Bot) Watch(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	st := &cycleState{}
	b.runCycle(ctx, st)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			b.runCycle(ctx, st)
		}
	}
}

func (b *Bot) runCycle(ctx context.Context, st *cycleState) {
	if !st.Start() {
		b.logger.Debug("poll_skip", "reason", "already_running")
		return
	}
	cycleID := "cycle_" + uuid.NewString()
	started := time.Now()
	b.logger.Debug("poll_cycle_start", "cycle_id", cycleID)

	err := b.Poll(ctx)
	switch {
	case err == nil:
		st.EndSuccess(time.Now())
		b.logger.Info("poll_cycle_ok", "cycle_id", cycleID, "duration", time.Since(started).String())
	case errors.Is(err, context.Canceled):
		st.EndSkipped()
		b.logger.Debug("poll_canceled", "cycle_id", cycleID)
	default:
		alert, msg := st.EndFailure(err)
		if alert {
			b.logger.Warn("poll_alert", "cycle_id", cycleID, "message", msg)
		} else {
			b.logger.Warn("poll_cycle_error", "cycle_id", cycleID, "error", err.Error())
		}
	}
}

type cycleState struct {
	mu          sync.Mutex
	running     bool
	failures    int
	lastSuccess time.Time
	lastError   string
}

func (s *cycleState) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

func (s *cycleState) EndSkipped() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

func (s *cycleState) EndSuccess(now time.Time) {
	s.mu.Lock()
	s.running = false
	s.failures = 0
	s.lastError = ""
	s.lastSuccess = now
	s.mu.Unlock()
}

func (s *cycleState) EndFailure(err error) (bool, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.failures++
	if err != nil {
		s.lastError = strings.TrimSpace(err.Error())
	}
	if s.failures >= cycleFailureThreshold {
		msg := "poll_failed"
		if s.lastError != "" {
			msg = fmt.Sprintf("poll_failed (%s)", s.lastError)
		}
		s.failures = 0
		return true, "ALERT: " + msg
	}
	return false, ""
}

func (s *cycleState) Snapshot() (failures int, lastSuccess time.Time, lastError string, running bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failures, s.lastSuccess, s.lastError, s.running
}
