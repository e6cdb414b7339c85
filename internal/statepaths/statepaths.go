package statepaths

import (
	"github.com/azoni/azoni-node/internal/pathutil"
	"github.com/spf13/viper"
)

const (
	LastSeenFilename   = "last_seen.json"
	AccountIDsFilename = "account_ids.json"
)

func FileStateDir() string {
	return pathutil.ResolveStateDir(viper.GetString("file_state_dir"))
}

// LastSeenPath is the per-handle watermark file: handle -> newest processed post ID.
func LastSeenPath() string {
	return pathutil.ResolveStateFile(viper.GetString("file_state_dir"), LastSeenFilename)
}

// AccountIDsPath is the handle -> resolved platform account ID file.
func AccountIDsPath() string {
	return pathutil.ResolveStateFile(viper.GetString("file_state_dir"), AccountIDsFilename)
}
