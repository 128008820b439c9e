package snapshots

import (
	"os"
	"testing"
	"time"

	"github.com/preston-bernstein/lineup-service/internal/domain/lineup"
)

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func simpleLineup(id, teamID string, at time.Time) lineup.Lineup {
	return lineup.Lineup{
		ID:           id,
		TeamID:       teamID,
		Source:       lineup.SourceGenerated,
		CreatedAt:    at,
		Innings:      1,
		BattingOrder: []string{"p1"},
		Fielding:     lineup.FieldingChart{"p1": {lineup.Pitcher}},
	}
}

func writeLineup(t *testing.T, w *Writer, l lineup.Lineup) {
	t.Helper()
	if w == nil {
		t.Fatalf("writer is nil for lineup %s", l.ID)
	}
	if err := w.WriteLineup(l); err != nil {
		t.Fatalf("failed to archive lineup %s: %v", l.ID, err)
	}
}

func requireDayExists(t *testing.T, w *Writer, teamID, date string) {
	t.Helper()
	path, err := LineupDayPath(w.BasePath(), teamID, date)
	if err != nil {
		t.Fatalf("unexpected path error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected archive day %s for %s, got %v", date, teamID, err)
	}
}
