package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/lineup-service/internal/app/lineups"
	"github.com/preston-bernstein/lineup-service/internal/domain/lineup"
	"github.com/preston-bernstein/lineup-service/internal/roster"
)

type validateOptions struct {
	teamFile   string
	lineupFile string
}

func newValidateCmd(root *rootOptions) *cobra.Command {
	opts := &validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a proposed lineup against a team file",
		Long:  "Runs the same checks the service applies to submitted lineups. Exits non-zero when the lineup is rejected.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, root, opts)
		},
	}
	cmd.Flags().StringVar(&opts.teamFile, "team", "", "team file (YAML or JSON)")
	cmd.Flags().StringVar(&opts.lineupFile, "lineup", "", "lineup JSON file")
	_ = cmd.MarkFlagRequired("team")
	_ = cmd.MarkFlagRequired("lineup")
	return cmd
}

func runValidate(cmd *cobra.Command, root *rootOptions, opts *validateOptions) error {
	team, err := roster.LoadFile(opts.teamFile)
	if err != nil {
		return err
	}
	candidate, err := loadLineup(opts.lineupFile)
	if err != nil {
		return err
	}

	settings := lineups.Resolve(team, lineups.Settings{Innings: candidate.Innings}, lineups.Settings{})
	report := lineups.Check(team, candidate, settings, root.logger(cmd))
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), renderReport(report)); err != nil {
		return err
	}
	return report.Err()
}

func loadLineup(path string) (lineup.Lineup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return lineup.Lineup{}, fmt.Errorf("read lineup file: %w", err)
	}
	var l lineup.Lineup
	if err := json.Unmarshal(data, &l); err != nil {
		return lineup.Lineup{}, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}
