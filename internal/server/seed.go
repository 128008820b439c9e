package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/preston-bernstein/lineup-service/internal/app/lineups"
	"github.com/preston-bernstein/lineup-service/internal/config"
	"github.com/preston-bernstein/lineup-service/internal/domain/lineup"
	"github.com/preston-bernstein/lineup-service/internal/logging"
	"github.com/preston-bernstein/lineup-service/internal/roster"
)

// seedTeams stores the configured startup teams. The seed file replaces any
// stored team with the same id; the demo team only fills an empty slot.
func seedTeams(ctx context.Context, cfg config.Config, svc *lineups.Service, logger *slog.Logger) error {
	if cfg.Seed.DemoTeam {
		demo := roster.Demo()
		if _, err := svc.Team(ctx, demo.ID); err == nil {
			logging.Debug(logger, "demo team already stored", logging.FieldTeamID, demo.ID)
		} else if err := put(ctx, svc, demo, logger); err != nil {
			return err
		}
	}
	if cfg.Seed.TeamFile != "" {
		team, err := roster.LoadFile(cfg.Seed.TeamFile)
		if err != nil {
			return fmt.Errorf("seed team: %w", err)
		}
		if err := put(ctx, svc, team, logger); err != nil {
			return err
		}
	}
	return nil
}

func put(ctx context.Context, svc *lineups.Service, team lineup.Team, logger *slog.Logger) error {
	stored, err := svc.PutTeam(ctx, team)
	if err != nil {
		return fmt.Errorf("seed team %s: %w", team.ID, err)
	}
	logging.Info(logger, "team seeded", logging.FieldTeamID, stored.ID, logging.FieldCount, len(stored.Players))
	return nil
}
