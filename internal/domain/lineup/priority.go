package lineup

// EntryKind tags a PriorityEntry.
type EntryKind string

const (
	EntryUnlocked EntryKind = "unlocked"
	EntryLocked   EntryKind = "locked"
)

// PriorityEntry is one candidate in a position's priority chain. A Locked entry
// pins the player to the position for every inning.
type PriorityEntry struct {
	Kind     EntryKind `json:"kind"`
	PlayerID string    `json:"playerId"`
}

// Unlocked builds a plain priority entry.
func Unlocked(playerID string) PriorityEntry {
	return PriorityEntry{Kind: EntryUnlocked, PlayerID: playerID}
}

// Locked builds an entry that pins the player to the position.
func Locked(playerID string) PriorityEntry {
	return PriorityEntry{Kind: EntryLocked, PlayerID: playerID}
}

// IsLocked reports whether the entry pins its player.
func (e PriorityEntry) IsLocked() bool {
	return e.Kind == EntryLocked
}

// IdealPositioning maps a position to its ordered fallback chain.
type IdealPositioning map[PositionCode][]PriorityEntry

// IdealLineup is the manager-declared batting preference.
type IdealLineup struct {
	Primary  []string `json:"primary"`
	Reserves []string `json:"reserves"`
}

// IsEmpty reports whether the lineup declares no ids at all.
func (l IdealLineup) IsEmpty() bool {
	return len(l.Primary) == 0 && len(l.Reserves) == 0
}

// IDs returns primary ids followed by reserves.
func (l IdealLineup) IDs() []string {
	ids := make([]string, 0, len(l.Primary)+len(l.Reserves))
	ids = append(ids, l.Primary...)
	return append(ids, l.Reserves...)
}
