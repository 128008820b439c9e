package lineup

import "strings"

// Gender mirrors the roster contract. Anything that is not explicitly male or
// female is treated as GenderOther.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ParseGender normalizes free-form roster input.
func ParseGender(raw string) Gender {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "m", "male", "man", "boy":
		return GenderMale
	case "f", "female", "woman", "girl":
		return GenderFemale
	default:
		return GenderOther
	}
}

// IsMale reports whether the gender counts toward a consecutive-male run.
func (g Gender) IsMale() bool {
	return g == GenderMale
}

// Player is the roster shape consumed by the builders. Builders treat it as read-only.
type Player struct {
	ID                 string         `json:"id"`
	FirstName          string         `json:"firstName"`
	LastName           string         `json:"lastName"`
	Gender             Gender         `json:"gender"`
	PreferredPositions []PositionCode `json:"preferredPositions,omitempty"`
	DislikedPositions  []PositionCode `json:"dislikedPositions,omitempty"`
	Absent             bool           `json:"absent,omitempty"`
}

// Name returns the display name for the player.
func (p Player) Name() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return p.ID
	}
	return name
}

// PreferenceRank returns the index of pos in the player's preferences, or -1.
func (p Player) PreferenceRank(pos PositionCode) int {
	for i, pref := range p.PreferredPositions {
		if pref == pos {
			return i
		}
	}
	return -1
}

// Prefers reports whether pos is one of the player's preferred positions.
func (p Player) Prefers(pos PositionCode) bool {
	return p.PreferenceRank(pos) >= 0
}

// Dislikes reports whether the player asked not to play pos.
func (p Player) Dislikes(pos PositionCode) bool {
	for _, d := range p.DislikedPositions {
		if d == pos {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can hand out players without aliasing slices.
func (p Player) Clone() Player {
	out := p
	if p.PreferredPositions != nil {
		out.PreferredPositions = append([]PositionCode(nil), p.PreferredPositions...)
	}
	if p.DislikedPositions != nil {
		out.DislikedPositions = append([]PositionCode(nil), p.DislikedPositions...)
	}
	return out
}

// ClonePlayers deep-copies a roster.
func ClonePlayers(players []Player) []Player {
	if players == nil {
		return nil
	}
	out := make([]Player, len(players))
	for i, p := range players {
		out[i] = p.Clone()
	}
	return out
}

// PlayerIDs returns the ids of players in order.
func PlayerIDs(players []Player) []string {
	ids := make([]string, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	return ids
}
