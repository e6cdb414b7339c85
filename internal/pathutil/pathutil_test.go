package pathutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExpandHomePath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	got := ExpandHomePath("~/.azoni")
	want := filepath.Join(home, ".azoni")
	if got != want {
		t.Fatalf("ExpandHomePath() = %q, want %q", got, want)
	}
	if got := ExpandHomePath("/abs/path"); got != "/abs/path" {
		t.Fatalf("ExpandHomePath() = %q, want unchanged", got)
	}
	if got := ExpandHomePath(""); got != "" {
		t.Fatalf("ExpandHomePath(\"\") = %q, want empty", got)
	}
}

func TestResolveStateDirDefault(t *testing.T) {
	got := ResolveStateDir("  ")
	if !strings.HasSuffix(got, ".azoni") {
		t.Fatalf("ResolveStateDir() = %q, want default ~/.azoni", got)
	}
}

func TestResolveStateFile(t *testing.T) {
	got := ResolveStateFile("/var/lib/azoni", "last_seen.json")
	want := filepath.Join("/var/lib/azoni", "last_seen.json")
	if got != want {
		t.Fatalf("ResolveStateFile() = %q, want %q", got, want)
	}
}
