package lineups

import (
	"log/slog"

	"github.com/preston-bernstein/lineup-service/internal/batting"
	"github.com/preston-bernstein/lineup-service/internal/domain/lineup"
	"github.com/preston-bernstein/lineup-service/internal/fielding"
	"github.com/preston-bernstein/lineup-service/internal/priority"
	"github.com/preston-bernstein/lineup-service/internal/validate"
)

// Settings are the resolved per-game knobs.
type Settings struct {
	Innings             int
	MaxConsecutiveMales int
}

// Resolve picks the first positive value from the override, the team config,
// and the defaults.
func Resolve(team lineup.Team, override, defaults Settings) Settings {
	pick := func(values ...int) int {
		for _, v := range values {
			if v > 0 {
				return v
			}
		}
		return 0
	}
	return Settings{
		Innings: lineup.ClampInnings(pick(override.Innings, team.Config.Innings, defaults.Innings, lineup.DefaultInnings)),
		MaxConsecutiveMales: pick(override.MaxConsecutiveMales, team.Config.MaxConsecutiveMales,
			defaults.MaxConsecutiveMales, lineup.DefaultMaxConsecutiveMales),
	}
}

// Compose builds a lineup for the team's present players without persisting
// it. Every issue on a generated lineup is a warning.
func Compose(team lineup.Team, settings Settings, logger *slog.Logger) lineup.Lineup {
	players := team.AvailablePlayers()
	catalog := team.Catalog()

	order := batting.Build(players, batting.Options{
		IdealLineup:         team.Config.IdealLineup,
		MaxConsecutiveMales: settings.MaxConsecutiveMales,
		Logger:              logger,
	})
	chart := fielding.Build(players, fielding.Options{
		Innings:          settings.Innings,
		IdealPositioning: team.Config.IdealPositioning,
		Catalog:          catalog,
		Logger:           logger,
	})

	l := lineup.Lineup{
		TeamID:       team.ID,
		Source:       lineup.SourceGenerated,
		Innings:      chart.Innings,
		BattingOrder: order.IDs(),
		Fielding:     chart.Chart,
	}
	report := validate.Candidate(l, players, rulesFor(team, players, settings, nil))
	l.Warnings = mergeWarnings(chart.Warnings, report.Issues)
	return l
}

// Check validates a proposed lineup against the team's present players.
func Check(team lineup.Team, candidate lineup.Lineup, settings Settings, logger *slog.Logger) validate.Report {
	players := team.AvailablePlayers()
	rules := rulesFor(team, players, settings, logger)
	return validate.Candidate(candidate, players, rules)
}

func rulesFor(team lineup.Team, players []lineup.Player, settings Settings, logger *slog.Logger) validate.Rules {
	catalog := team.Catalog()
	ideal := priority.ParseIdealPositioning(team.Config.IdealPositioning, logger)
	plan := fielding.NewPlan(players, catalog, ideal)
	return validate.Rules{
		Catalog:             catalog,
		Innings:             settings.Innings,
		MaxConsecutiveMales: settings.MaxConsecutiveMales,
		Locks:               plan.Locks,
	}
}

// warningKey identifies one finding, since a code repeats across positions
// and innings.
type warningKey struct {
	code     lineup.IssueCode
	position lineup.PositionCode
	player   string
	inning   int
}

func keyOf(issue lineup.Issue) warningKey {
	return warningKey{issue.Code, issue.Position, issue.PlayerID, issue.Inning}
}

// mergeWarnings keeps the builder's warnings and adds validator findings not
// already reported under the same warningKey.
func mergeWarnings(builder, checks []lineup.Issue) []lineup.Issue {
	out := lineup.AsWarnings(builder)
	reported := make(map[warningKey]bool, len(builder))
	for _, issue := range builder {
		reported[keyOf(issue)] = true
	}
	for _, issue := range lineup.AsWarnings(checks) {
		if k := keyOf(issue); !reported[k] {
			reported[k] = true
			out = append(out, issue)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
