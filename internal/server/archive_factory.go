package server

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/lineup-service/internal/config"
	"github.com/preston-bernstein/lineup-service/internal/logging"
	"github.com/preston-bernstein/lineup-service/internal/poller"
	"github.com/preston-bernstein/lineup-service/internal/snapshots"
)

// Poller runs background archive maintenance.
type Poller interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
}

type archiveComponents struct {
	writer  *snapshots.Writer
	reader  *snapshots.FSStore
	sweeper Poller
}

// buildArchive returns the on-disk lineup archive, a reader over it, and its
// retention sweeper, or zero components when archiving is disabled.
func buildArchive(cfg config.Config, logger *slog.Logger) archiveComponents {
	if !cfg.Archive.Enabled || cfg.Archive.Dir == "" {
		return archiveComponents{}
	}
	writer := snapshots.NewWriter(cfg.Archive.Dir, cfg.Archive.RetentionDays)
	logging.Info(logger, "lineup archive enabled",
		"dir", writer.BasePath(),
		"retention_days", cfg.Archive.RetentionDays,
	)
	return archiveComponents{
		writer:  writer,
		reader:  snapshots.NewFSStore(writer.BasePath()),
		sweeper: poller.New(writer, logger, cfg.Archive.SweepInterval),
	}
}
