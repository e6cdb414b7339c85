package bot

import (
	"context"
	"log/slog"

	"github.com/azoni/azoni-node/internal/fsstore"
	"github.com/azoni/azoni-node/internal/retryutil"
)

// StatePaths names the two persisted JSON files.
type StatePaths struct {
	LastSeen   string
	AccountIDs string
}

// State holds the two in-memory mappings the bot persists: the per-handle
// watermark (newest processed post ID) and the handle to account-ID map.
// It is only ever touched from the single poll/bootstrap control flow.
type State struct {
	LastSeen   map[string]string
	AccountIDs map[string]string
}

func NewState() *State {
	return &State{
		LastSeen:   map[string]string{},
		AccountIDs: map[string]string{},
	}
}

// LoadState reads both mappings from disk. Missing or unreadable files yield
// empty maps, never an error: stale state is recoverable, a crash is not.
func LoadState(paths StatePaths, logger *slog.Logger) *State {
	state := NewState()
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := fsstore.ReadJSON(paths.LastSeen, &state.LastSeen); err != nil {
		logger.Warn("state_load_failed", "path", paths.LastSeen, "error", err.Error())
		state.LastSeen = map[string]string{}
	}
	if _, err := fsstore.ReadJSON(paths.AccountIDs, &state.AccountIDs); err != nil {
		logger.Warn("state_load_failed", "path", paths.AccountIDs, "error", err.Error())
		state.AccountIDs = map[string]string{}
	}
	if state.LastSeen == nil {
		state.LastSeen = map[string]string{}
	}
	if state.AccountIDs == nil {
		state.AccountIDs = map[string]string{}
	}
	return state
}

// Save writes both mappings atomically. A failure is logged and a single
// background retry is scheduled; the in-memory state stays authoritative for
// the current run either way.
func (s *State) Save(paths StatePaths, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := writeState(paths, s.LastSeen, s.AccountIDs); err != nil {
		logger.Warn("state_save_failed", "error", err.Error())
		lastSeen := cloneStringMap(s.LastSeen)
		accountIDs := cloneStringMap(s.AccountIDs)
		retryutil.AsyncRetry(logger, "state_save", 0, 0, func(ctx context.Context) error {
			return writeState(paths, lastSeen, accountIDs)
		})
	}
}

// Advance moves the watermark for handle forward to postID. Older or equal
// IDs are ignored so the watermark never regresses.
func (s *State) Advance(handle, postID string) bool {
	if postID == "" {
		return false
	}
	current := s.LastSeen[handle]
	if current != "" && !newerPostID(postID, current) {
		return false
	}
	s.LastSeen[handle] = postID
	return true
}

func writeState(paths StatePaths, lastSeen, accountIDs map[string]string) error {
	if err := fsstore.WriteJSONAtomic(paths.LastSeen, lastSeen, fsstore.FileOptions{}); err != nil {
		return err
	}
	return fsstore.WriteJSONAtomic(paths.AccountIDs, accountIDs, fsstore.FileOptions{})
}

// newerPostID compares two snowflake IDs (decimal strings): longer means
// larger, same length falls back to lexicographic order.
func newerPostID(a, b string) bool {
	if len(a) != len(b) {
		return len(a) > len(b)
	}
	return a > b
}

func cloneStringMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
