package lineup

import (
	"encoding/json"
	"time"
)

// Defaults applied when a team configuration leaves a knob unset.
const (
	DefaultInnings             = 7
	DefaultMaxConsecutiveMales = 3
)

// MaxInnings bounds every inning count the builders and checks accept.
const MaxInnings = 20

// ClampInnings maps a non-positive count to DefaultInnings and caps the rest
// at MaxInnings.
func ClampInnings(n int) int {
	switch {
	case n <= 0:
		return DefaultInnings
	case n > MaxInnings:
		return MaxInnings
	default:
		return n
	}
}

// TeamConfig carries the manager-declared preferences. The ideal lineup and
// positioning are kept raw because saved configs may hold either structured
// JSON or a serialized JSON string; the priority parser normalizes them.
type TeamConfig struct {
	IdealLineup         json.RawMessage `json:"idealLineup,omitempty"`
	IdealPositioning    json.RawMessage `json:"idealPositioning,omitempty"`
	MaxConsecutiveMales int             `json:"maxConsecutiveMales,omitempty"`
	Innings             int             `json:"innings,omitempty"`
}

// Team groups a roster with its configuration and optional position catalog.
type Team struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Players   []Player   `json:"players"`
	Config    TeamConfig `json:"config"`
	Positions Catalog    `json:"positions,omitempty"`
}

// AvailablePlayers returns copies of the players not marked absent, in roster order.
func (t Team) AvailablePlayers() []Player {
	out := make([]Player, 0, len(t.Players))
	for _, p := range t.Players {
		if p.Absent {
			continue
		}
		out = append(out, p.Clone())
	}
	return out
}

// Clone deep-copies the team so stored copies cannot be mutated by callers.
func (t Team) Clone() Team {
	t.Players = ClonePlayers(t.Players)
	t.Positions = append(Catalog(nil), t.Positions...)
	t.Config.IdealLineup = append(json.RawMessage(nil), t.Config.IdealLineup...)
	t.Config.IdealPositioning = append(json.RawMessage(nil), t.Config.IdealPositioning...)
	return t
}

// Catalog returns the team catalog or the standard one.
func (t Team) Catalog() Catalog {
	return t.Positions.Normalize().OrDefault()
}

// BattingOrder is the ordered batting sequence, one entry per available player.
type BattingOrder []Player

// IDs returns the player ids in batting order.
func (b BattingOrder) IDs() []string {
	return PlayerIDs(b)
}

// FieldingChart maps a player id to one position (or Out) per inning.
type FieldingChart map[string][]PositionCode

// Clone deep-copies the chart.
func (c FieldingChart) Clone() FieldingChart {
	if c == nil {
		return nil
	}
	out := make(FieldingChart, len(c))
	for id, positions := range c {
		out[id] = append([]PositionCode(nil), positions...)
	}
	return out
}

// Lineup sources.
const (
	SourceGenerated = "generated"
	SourceCandidate = "candidate"
)

// Lineup is a complete, stored game lineup.
type Lineup struct {
	ID           string        `json:"id"`
	TeamID       string        `json:"teamId"`
	Source       string        `json:"source"`
	CreatedAt    time.Time     `json:"createdAt"`
	Innings      int           `json:"innings"`
	BattingOrder []string      `json:"battingOrder"`
	Fielding     FieldingChart `json:"fielding"`
	Warnings     []Issue       `json:"warnings,omitempty"`
}

// Clone deep-copies the lineup.
func (l Lineup) Clone() Lineup {
	l.BattingOrder = append([]string(nil), l.BattingOrder...)
	l.Fielding = l.Fielding.Clone()
	l.Warnings = append([]Issue(nil), l.Warnings...)
	return l
}
