// Package batting builds the batting order for a game.
package batting

import (
	"log/slog"

	"github.com/preston-bernstein/lineup-service/internal/domain/lineup"
	"github.com/preston-bernstein/lineup-service/internal/priority"
)

// Options tune the batting order. IdealLineup accepts anything the priority
// parser accepts; malformed values are logged and ignored.
type Options struct {
	IdealLineup         any
	MaxConsecutiveMales int
	Logger              *slog.Logger
}

// Build returns every available player exactly once. Ideal-lineup ids come
// first (unknown and repeated ids skipped); the rest are appended by the
// gender-balance rotation. The input slice is never modified.
func Build(players []lineup.Player, opts Options) lineup.BattingOrder {
	maxRun := opts.MaxConsecutiveMales
	if maxRun <= 0 {
		maxRun = lineup.DefaultMaxConsecutiveMales
	}
	order := make(lineup.BattingOrder, 0, len(players))
	if len(players) == 0 {
		return order
	}

	byID := make(map[string]lineup.Player, len(players))
	for _, p := range players {
		if _, dup := byID[p.ID]; !dup {
			byID[p.ID] = p
		}
	}

	consumed := make(map[string]bool, len(players))
	ideal := priority.ParseIdealLineup(opts.IdealLineup, opts.Logger)
	for _, id := range ideal.IDs() {
		p, ok := byID[id]
		if !ok || consumed[id] {
			continue
		}
		consumed[id] = true
		order = append(order, p.Clone())
	}

	remaining := make([]lineup.Player, 0, len(players)-len(order))
	for _, p := range players {
		if consumed[p.ID] {
			continue
		}
		remaining = append(remaining, p.Clone())
	}

	return append(order, balance(remaining, maxRun, trailingMales(order))...)
}

// balance repeatedly picks the next batter from pool. A male is preferred
// until the run reaches maxRun, then the first non-male is forced. When no
// non-male is left the run is allowed to continue rather than stall.
func balance(pool []lineup.Player, maxRun, run int) []lineup.Player {
	out := make([]lineup.Player, 0, len(pool))
	for len(pool) > 0 {
		wantMale := run < maxRun
		idx := firstIndex(pool, func(p lineup.Player) bool { return p.Gender.IsMale() == wantMale })
		if idx < 0 {
			idx = 0
		}

		next := pool[idx]
		pool = append(pool[:idx:idx], pool[idx+1:]...)
		out = append(out, next)

		if next.Gender.IsMale() {
			run++
		} else {
			run = 0
		}
	}
	return out
}

func trailingMales(order lineup.BattingOrder) int {
	run := 0
	for i := len(order) - 1; i >= 0 && order[i].Gender.IsMale(); i-- {
		run++
	}
	return run
}

func firstIndex(pool []lineup.Player, match func(lineup.Player) bool) int {
	for i, p := range pool {
		if match(p) {
			return i
		}
	}
	return -1
}
