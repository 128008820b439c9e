package fielding

import (
	"sort"

	"github.com/preston-bernstein/lineup-service/internal/domain/lineup"
)

// Plan is the inning-independent part of an assignment: which players are
// locked where, and the unlocked priority chain for each position.
type Plan struct {
	Locks    map[string]lineup.PositionCode
	LockedBy map[lineup.PositionCode]string
	Chains   map[lineup.PositionCode][]string
	Issues   []lineup.Issue
}

// NewPlan resolves ideal positioning against the roster. Positions are walked
// in catalog order, so when two chains lock the same player the earlier
// position keeps the lock and the later one is reported as a lock conflict.
// Only the first present Locked entry of a chain locks the position; any later
// Locked entry in the same chain is demoted to an ordinary priority entry.
func NewPlan(players []lineup.Player, catalog lineup.Catalog, ideal lineup.IdealPositioning) Plan {
	plan := Plan{
		Locks:    make(map[string]lineup.PositionCode),
		LockedBy: make(map[lineup.PositionCode]string),
		Chains:   make(map[lineup.PositionCode][]string),
	}
	present := make(map[string]bool, len(players))
	for _, p := range players {
		present[p.ID] = true
	}

	for _, pos := range catalog {
		for _, entry := range ideal[pos] {
			id := entry.PlayerID
			if !present[id] {
				continue
			}
			if !entry.IsLocked() {
				plan.Chains[pos] = append(plan.Chains[pos], id)
				continue
			}
			if prev, ok := plan.Locks[id]; ok {
				plan.Issues = append(plan.Issues, lineup.Warning(lineup.IssueLockConflict,
					"player %s is locked to %s and %s; keeping %s", id, prev, pos, prev).
					WithPlayer(id).WithPosition(pos))
				continue
			}
			if holder, ok := plan.LockedBy[pos]; ok {
				plan.Issues = append(plan.Issues, lineup.Warning(lineup.IssueLockConflict,
					"%s is already locked to %s; treating %s as a priority entry", pos, holder, id).
					WithPlayer(id).WithPosition(pos))
				plan.Chains[pos] = append(plan.Chains[pos], id)
				continue
			}
			plan.Locks[id] = pos
			plan.LockedBy[pos] = id
		}
	}

	unknown := make([]string, 0)
	for pos := range ideal {
		if !catalog.Contains(pos) {
			unknown = append(unknown, string(pos))
		}
	}
	sort.Strings(unknown)
	for _, pos := range unknown {
		plan.Issues = append(plan.Issues, lineup.Warning(lineup.IssueInvalidPosition,
			"ideal positioning names unknown position %s", pos).WithPosition(lineup.PositionCode(pos)))
	}
	return plan
}

// Locked reports whether the player is pinned to a position.
func (p Plan) Locked(id string) bool {
	_, ok := p.Locks[id]
	return ok
}
