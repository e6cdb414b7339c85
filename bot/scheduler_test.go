package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/azoni/azoni-node/twitter"
)

func TestCycleStateSingleFlight(t *testing.T) {
	t.Parallel()

	st := &cycleState{}
	if !st.Start() {
		t.Fatalf("Start() = false on idle state")
	}
	if st.Start() {
		t.Fatalf("Start() = true while running")
	}
	st.EndSuccess(time.Now())
	if !st.Start() {
		t.Fatalf("Start() = false after EndSuccess")
	}
	st.EndSkipped()
	if !st.Start() {
		t.Fatalf("Start() = false after EndSkipped")
	}
	st.EndSkipped()
}

func TestCycleStateFailureThreshold(t *testing.T) {
	t.Parallel()

	st := &cycleState{}
	err := fmt.Errorf("fetch failed")
	for i := 0; i < cycleFailureThreshold-1; i++ {
		st.Start()
		alert, _ := st.EndFailure(err)
		if alert {
			t.Fatalf("EndFailure() alert = true at failure %d", i+1)
		}
	}
	st.Start()
	alert, msg := st.EndFailure(err)
	if !alert {
		t.Fatalf("EndFailure() alert = false at threshold")
	}
	if !strings.HasPrefix(msg, "ALERT:") || !strings.Contains(msg, "fetch failed") {
		t.Fatalf("alert message mismatch: %q", msg)
	}
	failures, _, _, running := st.Snapshot()
	if failures != 0 {
		t.Fatalf("failures mismatch after alert: got %d want 0", failures)
	}
	if running {
		t.Fatalf("running = true after EndFailure")
	}
}

func TestRunCycleSkipsWhileBusy(t *testing.T) {
	t.Parallel()

	client := &fakeLLM{}
	platform := &fakePlatform{
		postsFn: func(ctx context.Context, userID, sinceID string, maxResults int) ([]twitter.Post, error) {
			return []twitter.Post{{ID: "1", Text: "post"}}, nil
		},
	}
	state := NewState()
	state.AccountIDs["azoni"] = "12345"
	b := newTestBot(t, platform, client, state, testPaths(t))

	st := &cycleState{}
	if !st.Start() {
		t.Fatalf("Start() = false")
	}
	// A tick arriving while a cycle holds the state must be a no-op.
	b.runCycle(context.Background(), st)
	if len(client.calls) != 0 {
		t.Fatalf("llm calls mismatch: got %d want 0", len(client.calls))
	}
}

func TestWatchRunsOnceThenStopsOnCancel(t *testing.T) {
	t.Parallel()

	cycles := 0
	ctx, cancel := context.WithCancel(context.Background())
	platform := &fakePlatform{
		postsFn: func(c context.Context, userID, sinceID string, maxResults int) ([]twitter.Post, error) {
			cycles++
			cancel()
			return nil, nil
		},
	}
	state := NewState()
	state.AccountIDs["azoni"] = "12345"
	b := newTestBot(t, platform, &fakeLLM{}, state, testPaths(t))

	err := b.Watch(ctx, time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Watch() error = %v, want context.Canceled", err)
	}
	if cycles != 1 {
		t.Fatalf("cycles mismatch: got %d want 1", cycles)
	}
}
