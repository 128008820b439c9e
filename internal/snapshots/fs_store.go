package snapshots

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/preston-bernstein/lineup-service/internal/domain/lineup"
)

// DaySnapshot holds every lineup archived for a team on one UTC day.
type DaySnapshot struct {
	TeamID  string          `json:"teamId"`
	Date    string          `json:"date"`
	Lineups []lineup.Lineup `json:"lineups"`
}

// FSStore loads archived lineups from the filesystem.
type FSStore struct {
	basePath string
}

// NewFSStore constructs an FS-backed archive reader rooted at basePath.
func NewFSStore(basePath string) *FSStore {
	return &FSStore{basePath: basePath}
}

// LoadDay reads the archive for a team and date (YYYY-MM-DD).
// Files are expected at {basePath}/lineups/{teamID}/{date}.json.
func (s *FSStore) LoadDay(teamID, date string) (DaySnapshot, error) {
	if s == nil {
		return DaySnapshot{}, errors.New("lineup archive not configured")
	}
	if date == "" {
		return DaySnapshot{}, errors.New("archive date required")
	}
	path, err := LineupDayPath(s.basePath, teamID, date)
	if err != nil {
		return DaySnapshot{}, err
	}
	var payload DaySnapshot
	if err := decodeFile(path, &payload); err != nil {
		return DaySnapshot{}, err
	}
	if payload.Date == "" {
		payload.Date = date
	}
	if payload.TeamID == "" {
		payload.TeamID = teamID
	}
	return payload, nil
}

// Manifest reads the archive manifest.
func (s *FSStore) Manifest() (Manifest, error) {
	if s == nil {
		return Manifest{}, errors.New("lineup archive not configured")
	}
	return readManifest(filepath.Join(s.basePath, "manifest.json"), 0)
}

func decodeFile(path string, payload any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(payload)
}
