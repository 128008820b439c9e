package snapshots

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var errInvalidTeamID = errors.New("invalid team id for archive path")

// LineupDayPath builds the path to a team's archived lineups for one day.
func LineupDayPath(basePath, teamID, date string) (string, error) {
	dir, err := teamDir(basePath, teamID)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fmt.Sprintf("%s.json", date)), nil
}

func teamDir(basePath, teamID string) (string, error) {
	if teamID == "" || teamID == "." || teamID == ".." || strings.ContainsAny(teamID, `/\`) {
		return "", errInvalidTeamID
	}
	return filepath.Join(basePath, "lineups", teamID), nil
}
