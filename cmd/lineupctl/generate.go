package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/lineup-service/internal/app/lineups"
	"github.com/preston-bernstein/lineup-service/internal/roster"
)

type generateOptions struct {
	teamFile string
	innings  int
	asJSON   bool
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build a batting order and fielding chart for a team file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, root, opts)
		},
	}
	cmd.Flags().StringVar(&opts.teamFile, "team", "", "team file (YAML or JSON)")
	cmd.Flags().IntVar(&opts.innings, "innings", 0, "innings to schedule (defaults to the team setting)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the lineup as JSON")
	_ = cmd.MarkFlagRequired("team")
	return cmd
}

func runGenerate(cmd *cobra.Command, root *rootOptions, opts *generateOptions) error {
	if opts.innings < 0 {
		return fmt.Errorf("--innings must be positive")
	}
	team, err := roster.LoadFile(opts.teamFile)
	if err != nil {
		return err
	}
	settings := lineups.Resolve(team, lineups.Settings{Innings: opts.innings}, lineups.Settings{})
	l := lineups.Compose(team, settings, root.logger(cmd))
	l.TeamID = team.ID

	out := cmd.OutOrStdout()
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(l)
	}
	_, err = fmt.Fprintln(out, renderLineup(team, l))
	return err
}
