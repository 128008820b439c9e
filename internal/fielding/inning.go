package fielding

import "github.com/preston-bernstein/lineup-service/internal/domain/lineup"

// inning holds the collections owned by a single inning. Nothing here is
// shared with other innings.
type inning struct {
	index    int
	open     []lineup.PositionCode
	assigned map[string]lineup.PositionCode
	pool     []lineup.Player
}

func (in *inning) isOpen(pos lineup.PositionCode) bool {
	for _, p := range in.open {
		if p == pos {
			return true
		}
	}
	return false
}

func (in *inning) inPool(id string) bool {
	for _, p := range in.pool {
		if p.ID == id {
			return true
		}
	}
	return false
}

// snapshot copies the pool so passes can assign while iterating.
func (in *inning) snapshot() []lineup.Player {
	return append([]lineup.Player(nil), in.pool...)
}

func (in *inning) assign(id string, pos lineup.PositionCode) {
	in.assigned[id] = pos
	in.close(pos)
	in.remove(id)
}

func (in *inning) sit(id string) {
	in.assigned[id] = lineup.Out
	in.remove(id)
}

func (in *inning) close(pos lineup.PositionCode) {
	for i, p := range in.open {
		if p == pos {
			in.open = append(in.open[:i], in.open[i+1:]...)
			return
		}
	}
}

func (in *inning) remove(id string) {
	for i, p := range in.pool {
		if p.ID == id {
			in.pool = append(in.pool[:i], in.pool[i+1:]...)
			return
		}
	}
}
