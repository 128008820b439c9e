// Package fielding assigns every available player a position (or Out) for
// each inning of a game.
package fielding

import (
	"log/slog"
	"sort"

	"github.com/preston-bernstein/lineup-service/internal/domain/lineup"
	"github.com/preston-bernstein/lineup-service/internal/priority"
)

// Options tune the chart. IdealPositioning accepts anything the priority
// parser accepts; malformed values degrade to preference-only assignment.
type Options struct {
	Innings          int
	IdealPositioning any
	Catalog          lineup.Catalog
	Logger           *slog.Logger
}

// Result is the fielding chart plus warning-level issues found while building it.
type Result struct {
	Chart    lineup.FieldingChart
	Outs     map[string]int
	Innings  int
	Catalog  lineup.Catalog
	Warnings []lineup.Issue
}

// MaxOuts is the per-game sit-out cap for a roster of the given size.
func MaxOuts(rosterSize int) int {
	if rosterSize > 13 {
		return 3
	}
	return 2
}

// Build runs the per-inning passes in order. Locked players take their
// positions, the inning's sitters are reserved, recent or capped sit-outs are
// repaired, then the pitcher and position preferences are filled and anyone
// left is seated. State that spans innings is each player's history and out
// count; everything else is rebuilt per inning. Innings are clamped to
// lineup.MaxInnings. The input slice is never modified.
func Build(players []lineup.Player, opts Options) Result {
	innings := lineup.ClampInnings(opts.Innings)
	catalog := opts.Catalog.Normalize().OrDefault()
	roster, warnings := uniqueRoster(players)

	ideal := priority.ParseIdealPositioning(opts.IdealPositioning, opts.Logger)
	plan := NewPlan(roster, catalog, ideal)
	warnings = append(warnings, plan.Issues...)

	s := &state{
		roster:  roster,
		catalog: catalog,
		plan:    plan,
		maxOuts: MaxOuts(len(roster)),
		history: make(lineup.FieldingChart, len(roster)),
		outs:    make(map[string]int, len(roster)),
		chained: make(map[string]bool),
	}
	for _, ids := range plan.Chains {
		for _, id := range ids {
			s.chained[id] = true
		}
	}
	for _, p := range roster {
		s.history[p.ID] = make([]lineup.PositionCode, 0, innings)
		s.outs[p.ID] = 0
	}

	for i := 0; i < innings; i++ {
		in, issues := s.assignInning(i)
		warnings = append(warnings, issues...)
		for _, p := range roster {
			pos, ok := in.assigned[p.ID]
			if !ok {
				pos = lineup.Out
			}
			s.history[p.ID] = append(s.history[p.ID], pos)
			if pos == lineup.Out {
				s.outs[p.ID]++
			}
		}
		warnings = append(warnings, unfilledIssues(catalog, in)...)
	}

	return Result{
		Chart:    s.history,
		Outs:     s.outs,
		Innings:  innings,
		Catalog:  catalog,
		Warnings: warnings,
	}
}

type state struct {
	roster  []lineup.Player
	catalog lineup.Catalog
	plan    Plan
	maxOuts int
	history lineup.FieldingChart
	outs    map[string]int
	// chained holds every unlocked player named in a priority chain.
	chained map[string]bool
}

func (s *state) assignInning(index int) (*inning, []lineup.Issue) {
	in := &inning{
		index:    index,
		open:     append([]lineup.PositionCode(nil), s.catalog...),
		assigned: make(map[string]lineup.PositionCode, len(s.roster)),
		pool:     make([]lineup.Player, 0, len(s.roster)),
	}
	for _, pos := range s.catalog {
		if id, ok := s.plan.LockedBy[pos]; ok {
			in.assigned[id] = pos
			in.close(pos)
		}
	}
	for _, p := range s.roster {
		if !s.plan.Locked(p.ID) {
			in.pool = append(in.pool, p)
		}
	}

	s.reserveSitters(in)
	s.repairPass(in)
	s.pitcherPass(in)
	s.preferencePass(in)
	return in, s.sitOutPass(in)
}

// reserveSitters benches this inning's sitters before anyone competes for a
// position. Fewest outs sit first. Players who sat last inning or are at the
// cap go last, and nobody at the cap is reserved. Among equals, players named
// in a priority chain sit after the rest.
func (s *state) reserveSitters(in *inning) {
	sitCount := len(in.pool) - len(in.open)
	if sitCount <= 0 {
		return
	}
	candidates := in.snapshot()
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if ra, rb := s.needsRepair(a, in.index), s.needsRepair(b, in.index); ra != rb {
			return rb
		}
		if oa, ob := s.outs[a.ID], s.outs[b.ID]; oa != ob {
			return oa < ob
		}
		return !s.chained[a.ID] && s.chained[b.ID]
	})
	for _, p := range candidates[:sitCount] {
		if s.outs[p.ID] >= s.maxOuts {
			break
		}
		in.sit(p.ID)
	}
}

// repairPass seats players who sat last inning or already hit the cap before
// anyone else competes for positions.
func (s *state) repairPass(in *inning) {
	for _, p := range in.snapshot() {
		if !s.needsRepair(p, in.index) {
			continue
		}
		if pos := preferredOpen(p, in); pos != "" {
			in.assign(p.ID, pos)
		} else if pos := fallbackOpen(p, in); pos != "" {
			in.assign(p.ID, pos)
		}
	}
}

func (s *state) needsRepair(p lineup.Player, index int) bool {
	if s.outs[p.ID] >= s.maxOuts {
		return true
	}
	if index == 0 {
		return false
	}
	return s.history[p.ID][index-1] == lineup.Out
}

// pitcherPass gives the pitcher slot to the priority chain first, then to the
// first player in roster order who lists it as a preference.
func (s *state) pitcherPass(in *inning) {
	if !in.isOpen(lineup.Pitcher) {
		return
	}
	if id := s.chainCandidate(in, lineup.Pitcher); id != "" {
		in.assign(id, lineup.Pitcher)
		return
	}
	for _, p := range in.pool {
		if p.Prefers(lineup.Pitcher) {
			in.assign(p.ID, lineup.Pitcher)
			return
		}
	}
}

// preferencePass fills each open position from its priority chain, otherwise
// from the player who ranks it highest among their preferences.
func (s *state) preferencePass(in *inning) {
	for _, pos := range append([]lineup.PositionCode(nil), in.open...) {
		if id := s.chainCandidate(in, pos); id != "" {
			in.assign(id, pos)
			continue
		}
		best, bestRank := "", -1
		for _, p := range in.pool {
			rank := p.PreferenceRank(pos)
			if rank < 0 {
				continue
			}
			if bestRank < 0 || rank < bestRank {
				best, bestRank = p.ID, rank
			}
		}
		if best != "" {
			in.assign(best, pos)
		}
	}
}

// sitOutPass seats everyone still in the pool. Players are left over only
// when every remaining candidate to sit was already at the cap, so each extra
// sitter is reported as an unavoidable overrun.
func (s *state) sitOutPass(in *inning) []lineup.Issue {
	rest := in.snapshot()
	sitCount := len(rest) - len(in.open)
	if sitCount < 0 {
		sitCount = 0
	}

	byOuts := append([]lineup.Player(nil), rest...)
	sort.SliceStable(byOuts, func(i, j int) bool {
		return s.outs[byOuts[i].ID] < s.outs[byOuts[j].ID]
	})

	sitting := make(map[string]bool, sitCount)
	for _, p := range byOuts {
		if len(sitting) == sitCount {
			break
		}
		if s.outs[p.ID] < s.maxOuts {
			sitting[p.ID] = true
		}
	}
	var issues []lineup.Issue
	for _, p := range byOuts {
		if len(sitting) == sitCount {
			break
		}
		if !sitting[p.ID] {
			sitting[p.ID] = true
			issues = append(issues, lineup.Warning(lineup.IssueOutCapExceeded,
				"%s sits beyond the %d-out cap", p.ID, s.maxOuts).WithPlayer(p.ID).AtInning(in.index))
		}
	}

	for _, p := range rest {
		if sitting[p.ID] {
			in.sit(p.ID)
			continue
		}
		pos := preferredOpen(p, in)
		if pos == "" {
			pos = fallbackOpen(p, in)
		}
		if pos == "" {
			in.sit(p.ID)
			continue
		}
		in.assign(p.ID, pos)
	}
	return issues
}

func (s *state) chainCandidate(in *inning, pos lineup.PositionCode) string {
	for _, id := range s.plan.Chains[pos] {
		if in.inPool(id) {
			return id
		}
	}
	return ""
}

func preferredOpen(p lineup.Player, in *inning) lineup.PositionCode {
	for _, pref := range p.PreferredPositions {
		if in.isOpen(pref) {
			return pref
		}
	}
	return ""
}

// fallbackOpen picks any open position, avoiding disliked positions and the
// pitcher slot when something else is available.
func fallbackOpen(p lineup.Player, in *inning) lineup.PositionCode {
	tiers := []func(lineup.PositionCode) bool{
		func(pos lineup.PositionCode) bool { return !p.Dislikes(pos) && pos != lineup.Pitcher },
		func(pos lineup.PositionCode) bool { return pos != lineup.Pitcher },
		func(lineup.PositionCode) bool { return true },
	}
	for _, ok := range tiers {
		for _, pos := range in.open {
			if ok(pos) {
				return pos
			}
		}
	}
	return ""
}

func uniqueRoster(players []lineup.Player) ([]lineup.Player, []lineup.Issue) {
	roster := make([]lineup.Player, 0, len(players))
	seen := make(map[string]bool, len(players))
	var issues []lineup.Issue
	for _, p := range players {
		if seen[p.ID] {
			issues = append(issues, lineup.Warning(lineup.IssueDuplicatePlayer,
				"player %s appears more than once; keeping the first entry", p.ID).WithPlayer(p.ID))
			continue
		}
		seen[p.ID] = true
		roster = append(roster, p.Clone())
	}
	return roster, issues
}

// unfilledIssues reports each position left open in the inning, in catalog order.
func unfilledIssues(catalog lineup.Catalog, in *inning) []lineup.Issue {
	var issues []lineup.Issue
	for _, pos := range catalog {
		if !in.isOpen(pos) {
			continue
		}
		issues = append(issues, lineup.Warning(lineup.IssueMissingPosition,
			"%s is unfilled in inning %d: not enough players", pos, in.index+1).
			WithPosition(pos).AtInning(in.index))
	}
	return issues
}
