// Package bot holds the account-watching core: bootstrap (resolve handles,
// seed watermarks), the poll cycle (fetch new posts, generate commentary,
// publish replies), and the single-flight scheduler that drives it.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/azoni/azoni-node/llm"
	"github.com/azoni/azoni-node/twitter"
)

const (
	defaultPageSize     = 5
	defaultPublishDelay = 5 * time.Second
	defaultLookupDelay  = 2 * time.Second
)

// PlatformClient is the subset of the platform API the bot consumes.
// *twitter.Client satisfies it; tests inject fakes.
type PlatformClient interface {
	LookupUser(ctx context.Context, handle string) (twitter.User, error)
	UserPosts(ctx context.Context, userID, sinceID string, maxResults int) ([]twitter.Post, error)
	CreatePost(ctx context.Context, text string) (twitter.Post, error)
}

// SleepFunc is the pacing delay between rate-limited operations. Injectable
// so tests run without wall-clock waits.
type SleepFunc func(ctx context.Context, d time.Duration) error

type Config struct {
	Handles      []string
	PageSize     int
	Model        string
	SystemPrompt string
	Temperature  float64
	PublishDelay time.Duration
	LookupDelay  time.Duration
}

type Options struct {
	Platform PlatformClient
	LLM      llm.Client
	State    *State
	Paths    StatePaths
	Logger   *slog.Logger
	Sleep    SleepFunc
	Config   Config
}

type Bot struct {
	platform PlatformClient
	llm      llm.Client
	state    *State
	paths    StatePaths
	logger   *slog.Logger
	sleep    SleepFunc
	cfg      Config
}

func New(opts Options) (*Bot, error) {
	if opts.Platform == nil {
		return nil, fmt.Errorf("platform client is required")
	}
	if opts.LLM == nil {
		return nil, fmt.Errorf("llm client is required")
	}
	handles := normalizeHandles(opts.Config.Handles)
	if len(handles) == 0 {
		return nil, fmt.Errorf("at least one account handle is required")
	}

	cfg := opts.Config
	cfg.Handles = handles
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.PublishDelay <= 0 {
		cfg.PublishDelay = defaultPublishDelay
	}
	if cfg.LookupDelay <= 0 {
		cfg.LookupDelay = defaultLookupDelay
	}

	state := opts.State
	if state == nil {
		state = NewState()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = sleepWithContext
	}

	return &Bot{
		platform: opts.Platform,
		llm:      opts.LLM,
		state:    state,
		paths:    opts.Paths,
		logger:   logger,
		sleep:    sleep,
		cfg:      cfg,
	}, nil
}

func normalizeHandles(raw []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		handle := strings.TrimPrefix(strings.TrimSpace(r), "@")
		if handle == "" || seen[handle] {
			continue
		}
		seen[handle] = true
		out = append(out, handle)
	}
	return out
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
