package snapshots

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/preston-bernstein/lineup-service/internal/domain/lineup"
	"github.com/preston-bernstein/lineup-service/internal/timeutil"
)

// Writer archives lineups by team and day and prunes old days.
type Writer struct {
	mu            sync.Mutex
	basePath      string
	retentionDays int
	now           func() time.Time
}

// NewWriter constructs a writer rooted at basePath with a rolling window retention.
func NewWriter(basePath string, retentionDays int) *Writer {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	return &Writer{
		basePath:      basePath,
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

// BasePath exposes the writer root path (primarily for testing).
func (w *Writer) BasePath() string {
	if w == nil {
		return ""
	}
	return w.basePath
}

// WriteLineup adds the lineup to its team's archive for the lineup's UTC day,
// replacing any archived lineup with the same id, then prunes old days.
func (w *Writer) WriteLineup(l lineup.Lineup) error {
	if w == nil {
		return fmt.Errorf("lineup archive not configured")
	}
	if l.CreatedAt.IsZero() {
		return fmt.Errorf("lineup %s has no creation time", l.ID)
	}
	date := timeutil.DayOf(l.CreatedAt)
	target, err := LineupDayPath(w.basePath, l.TeamID, date)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	day := DaySnapshot{TeamID: l.TeamID, Date: date}
	if err := decodeFile(target, &day); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read archive %s: %w", target, err)
	}
	replaced := false
	for i := range day.Lineups {
		if day.Lineups[i].ID == l.ID {
			day.Lineups[i] = l.Clone()
			replaced = true
		}
	}
	if !replaced {
		day.Lineups = append(day.Lineups, l.Clone())
	}
	sort.SliceStable(day.Lineups, func(i, j int) bool {
		return day.Lineups[i].CreatedAt.Before(day.Lineups[j].CreatedAt)
	})

	if err := writeJSONAtomic(target, day); err != nil {
		return err
	}
	return w.updateManifest(l.TeamID, date)
}

func (w *Writer) updateManifest(teamID, date string) error {
	manifestPath := filepath.Join(w.basePath, "manifest.json")
	m, _ := readManifest(manifestPath, w.retentionDays)
	now := w.now().UTC()

	dates, err := w.listDates(teamID)
	if err != nil {
		return err
	}
	if !containsDate(dates, date) {
		dates = append(dates, date)
	}
	pruned := w.pruneOldDays(teamID, dates, now)

	m.Retention.LineupDays = w.retentionDays
	m.Teams[teamID] = TeamMeta{Dates: pruned, LastWritten: now}
	return writeManifest(w.basePath, m, now)
}

func containsDate(dates []string, date string) bool {
	for _, d := range dates {
		if d == date {
			return true
		}
	}
	return false
}

func (w *Writer) listDates(teamID string) ([]string, error) {
	dir, err := teamDir(w.basePath, teamID)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	var dates []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if filepath.Ext(name) != ".json" {
			continue
		}
		dates = append(dates, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(dates)
	return dates, nil
}

func (w *Writer) pruneOldDays(teamID string, dates []string, now time.Time) []string {
	cutoff := timeutil.RetentionCutoff(now, w.retentionDays)
	keep := make([]string, 0, len(dates))
	for _, d := range dates {
		parsed, err := timeutil.ParseDate(d)
		if err != nil {
			keep = append(keep, d)
			continue
		}
		if parsed.Before(cutoff) {
			if path, err := LineupDayPath(w.basePath, teamID, d); err == nil {
				_ = os.Remove(path)
			}
			continue
		}
		keep = append(keep, d)
	}
	sort.Strings(keep)
	return keep
}

// Sweep prunes expired days for every archived team, including teams that
// have not been written to recently, and returns how many day files it removed.
func (w *Writer) Sweep(ctx context.Context) (int, error) {
	if w == nil {
		return 0, nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	root := filepath.Join(w.basePath, "lineups")
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	manifestPath := filepath.Join(w.basePath, "manifest.json")
	m, _ := readManifest(manifestPath, w.retentionDays)
	now := w.now().UTC()
	removed := 0
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if !e.IsDir() {
			continue
		}
		teamID := e.Name()
		dates, err := w.listDates(teamID)
		if err != nil {
			return removed, err
		}
		kept := w.pruneOldDays(teamID, dates, now)
		removed += len(dates) - len(kept)

		meta := m.Teams[teamID]
		meta.Dates = kept
		m.Teams[teamID] = meta
	}
	m.Retention.LineupDays = w.retentionDays
	if err := writeManifest(w.basePath, m, now); err != nil {
		return removed, err
	}
	return removed, nil
}
