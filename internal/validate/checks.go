package validate

import (
	"sort"

	"github.com/preston-bernstein/lineup-service/internal/domain/lineup"
)

// Rules are the team-level constraints a lineup is checked against.
type Rules struct {
	Catalog             lineup.Catalog
	Innings             int
	MaxConsecutiveMales int
	// Locks maps a player id to the position they must hold every inning.
	Locks map[string]lineup.PositionCode
	// MinimumPlayers defaults to one short of the catalog size.
	MinimumPlayers int
}

func (r Rules) withDefaults() Rules {
	r.Catalog = r.Catalog.Normalize().OrDefault()
	r.Innings = lineup.ClampInnings(r.Innings)
	if r.MaxConsecutiveMales <= 0 {
		r.MaxConsecutiveMales = lineup.DefaultMaxConsecutiveMales
	}
	if r.MinimumPlayers <= 0 {
		r.MinimumPlayers = len(r.Catalog) - 1
	}
	return r
}

// maxOuts mirrors the fielding builder cap.
func maxOuts(rosterSize int) int {
	if rosterSize > 13 {
		return 3
	}
	return 2
}

// Roster flags duplicate ids and rosters too small to field a team.
func Roster(players []lineup.Player, rules Rules) Report {
	rules = rules.withDefaults()
	var r Report
	seen := make(map[string]bool, len(players))
	for _, p := range players {
		if seen[p.ID] {
			r.add(lineup.Error(lineup.IssueDuplicatePlayer, "player %s appears more than once on the roster", p.ID).WithPlayer(p.ID))
		}
		seen[p.ID] = true
	}
	if len(seen) < rules.MinimumPlayers {
		r.add(lineup.Warning(lineup.IssueBelowMinimumRoster,
			"only %d players available; at least %d are needed", len(seen), rules.MinimumPlayers))
	}
	return r
}

// BattingOrder checks that order is a permutation of the roster ids and that
// male runs stay within the limit. A longer run is only a warning when no
// non-male batter follows it.
func BattingOrder(order []string, players []lineup.Player, rules Rules) Report {
	rules = rules.withDefaults()
	var r Report
	byID := indexPlayers(players)

	seen := make(map[string]bool, len(order))
	for _, id := range order {
		if _, ok := byID[id]; !ok {
			r.add(lineup.Error(lineup.IssueUnknownPlayer, "batting order names unknown player %s", id).WithPlayer(id))
			continue
		}
		if seen[id] {
			r.add(lineup.Error(lineup.IssueDuplicatePlayer, "player %s bats more than once", id).WithPlayer(id))
			continue
		}
		seen[id] = true
	}
	for _, p := range players {
		if !seen[p.ID] {
			r.add(lineup.Error(lineup.IssueMissingPlayer, "player %s is missing from the batting order", p.ID).WithPlayer(p.ID))
			seen[p.ID] = true
		}
	}

	isMale := func(id string) bool {
		p, ok := byID[id]
		return ok && p.Gender.IsMale()
	}
	for start := 0; start < len(order); {
		if !isMale(order[start]) {
			start++
			continue
		}
		end := start
		for end < len(order) && isMale(order[end]) {
			end++
		}
		if end-start > rules.MaxConsecutiveMales {
			unavoidable := true
			for _, id := range order[end:] {
				if _, ok := byID[id]; ok && !isMale(id) {
					unavoidable = false
					break
				}
			}
			issue := lineup.Error(lineup.IssueGenderRun,
				"batters %d-%d are %d consecutive males (limit %d)", start+1, end, end-start, rules.MaxConsecutiveMales)
			if unavoidable {
				issue.Severity = lineup.SeverityWarning
				issue.Message += "; no non-male batter remains to break the run"
			}
			r.add(issue.WithPlayer(order[start]))
		}
		start = end
	}
	return r
}

// FieldingChart checks chart shape, per-inning position uniqueness and
// coverage, locked players, and the sit-out cap.
func FieldingChart(chart lineup.FieldingChart, players []lineup.Player, rules Rules) Report {
	rules = rules.withDefaults()
	var r Report
	byID := indexPlayers(players)

	unknown := make([]string, 0)
	for id := range chart {
		if _, ok := byID[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	sort.Strings(unknown)
	for _, id := range unknown {
		r.add(lineup.Error(lineup.IssueUnknownPlayer, "fielding chart names unknown player %s", id).WithPlayer(id))
	}

	roster := uniquePlayers(players)
	for _, p := range roster {
		positions, ok := chart[p.ID]
		if !ok {
			r.add(lineup.Error(lineup.IssueMissingPlayer, "player %s is missing from the fielding chart", p.ID).WithPlayer(p.ID))
			continue
		}
		if len(positions) != rules.Innings {
			r.add(lineup.Error(lineup.IssueInningCount,
				"player %s has %d innings, expected %d", p.ID, len(positions), rules.Innings).WithPlayer(p.ID))
		}
	}

	for i := 0; i < rules.Innings; i++ {
		holders := make(map[lineup.PositionCode]string, len(rules.Catalog))
		sitting := 0
		for _, p := range roster {
			positions := chart[p.ID]
			if i >= len(positions) {
				continue
			}
			pos := positions[i]
			if pos == lineup.Out {
				sitting++
				continue
			}
			if !rules.Catalog.Contains(pos) {
				r.add(lineup.Error(lineup.IssueInvalidPosition, "player %s is assigned unknown position %s", p.ID, pos).
					WithPlayer(p.ID).WithPosition(pos).AtInning(i))
				continue
			}
			if holder, dup := holders[pos]; dup {
				r.add(lineup.Error(lineup.IssuePositionConflict, "%s is assigned to both %s and %s", pos, holder, p.ID).
					WithPlayer(p.ID).WithPosition(pos).AtInning(i))
				continue
			}
			holders[pos] = p.ID
		}
		for _, pos := range rules.Catalog {
			if _, ok := holders[pos]; ok {
				continue
			}
			if sitting > 0 {
				r.add(lineup.Error(lineup.IssueMissingPosition, "%s is unfilled while %d players sit out", pos, sitting).
					WithPosition(pos).AtInning(i))
			} else {
				r.add(lineup.Warning(lineup.IssueMissingPosition, "%s is unfilled: not enough players", pos).
					WithPosition(pos).AtInning(i))
			}
		}
	}

	lockedIDs := make([]string, 0, len(rules.Locks))
	for id := range rules.Locks {
		lockedIDs = append(lockedIDs, id)
	}
	sort.Strings(lockedIDs)
	for _, id := range lockedIDs {
		want := rules.Locks[id]
		positions, ok := chart[id]
		if !ok {
			continue
		}
		for i, pos := range positions {
			if pos != want {
				r.add(lineup.Error(lineup.IssueLockedViolation, "%s is locked to %s but has %s", id, want, pos).
					WithPlayer(id).WithPosition(want).AtInning(i))
			}
		}
	}

	limit := maxOuts(len(roster))
	for _, p := range roster {
		outs := 0
		for _, pos := range chart[p.ID] {
			if pos == lineup.Out {
				outs++
			}
		}
		if outs > limit {
			r.add(lineup.Warning(lineup.IssueOutCapExceeded, "player %s sits %d innings (cap %d)", p.ID, outs, limit).
				WithPlayer(p.ID))
		}
	}
	return r
}

// Candidate runs every check against a complete lineup. rules.Innings defaults
// to the lineup's own inning count.
func Candidate(l lineup.Lineup, players []lineup.Player, rules Rules) Report {
	if rules.Innings <= 0 {
		rules.Innings = l.Innings
	}
	return Merge(
		Roster(players, rules),
		BattingOrder(l.BattingOrder, players, rules),
		FieldingChart(l.Fielding, players, rules),
	)
}

func indexPlayers(players []lineup.Player) map[string]lineup.Player {
	out := make(map[string]lineup.Player, len(players))
	for _, p := range players {
		if _, ok := out[p.ID]; !ok {
			out[p.ID] = p
		}
	}
	return out
}

func uniquePlayers(players []lineup.Player) []lineup.Player {
	out := make([]lineup.Player, 0, len(players))
	seen := make(map[string]bool, len(players))
	for _, p := range players {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out
}
