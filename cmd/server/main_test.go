package main

import (
	"path/filepath"
	"testing"
)

// Smoke test to ensure main honors SKIP_SERVER_RUN and does not block test runs.
func TestMainSkipsWhenEnvSet(t *testing.T) {
	t.Setenv("SKIP_SERVER_RUN", "1")
	main()
}

func TestRunFailsOnMissingSeedFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("ARCHIVE_ENABLED", "false")
	t.Setenv("SEED_TEAM_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	if err := run(); err == nil {
		t.Fatalf("expected startup error for a missing seed file")
	}
}
