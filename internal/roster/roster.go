// Package roster loads team definitions from YAML or JSON files.
package roster

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/preston-bernstein/lineup-service/internal/domain/lineup"
)

// ErrInvalidTeam is returned when a team file is structurally unusable.
var ErrInvalidTeam = errors.New("invalid team file")

//go:embed demo.yaml
var demoTeam []byte

type playerFile struct {
	ID        string   `yaml:"id"`
	FirstName string   `yaml:"firstName"`
	LastName  string   `yaml:"lastName"`
	Gender    string   `yaml:"gender"`
	Preferred []string `yaml:"preferred"`
	Disliked  []string `yaml:"disliked"`
	Absent    bool     `yaml:"absent"`
}

type teamFile struct {
	ID                  string       `yaml:"id"`
	Name                string       `yaml:"name"`
	Innings             int          `yaml:"innings"`
	MaxConsecutiveMales int          `yaml:"maxConsecutiveMales"`
	Positions           []string     `yaml:"positions"`
	Players             []playerFile `yaml:"players"`
	IdealLineup         any          `yaml:"idealLineup"`
	IdealPositioning    any          `yaml:"idealPositioning"`
}

// LoadFile reads a team definition from path. JSON files parse too, since
// JSON is valid YAML.
func LoadFile(path string) (lineup.Team, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return lineup.Team{}, fmt.Errorf("read team file: %w", err)
	}
	team, err := Parse(data)
	if err != nil {
		return lineup.Team{}, fmt.Errorf("%s: %w", path, err)
	}
	return team, nil
}

// Demo returns the bundled sample team.
func Demo() lineup.Team {
	team, err := Parse(demoTeam)
	if err != nil {
		panic(fmt.Sprintf("embedded demo team: %v", err))
	}
	return team
}

// Parse decodes a team definition. Ideal lineup and positioning values are
// kept as raw JSON so the priority parser sees the same shapes an API
// client would send.
func Parse(data []byte) (lineup.Team, error) {
	var raw teamFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return lineup.Team{}, fmt.Errorf("%w: %v", ErrInvalidTeam, err)
	}
	if strings.TrimSpace(raw.ID) == "" {
		return lineup.Team{}, fmt.Errorf("%w: team id is required", ErrInvalidTeam)
	}
	if raw.Innings < 0 || raw.Innings > lineup.MaxInnings {
		return lineup.Team{}, fmt.Errorf("%w: innings must be between 1 and %d", ErrInvalidTeam, lineup.MaxInnings)
	}

	team := lineup.Team{
		ID:   strings.TrimSpace(raw.ID),
		Name: strings.TrimSpace(raw.Name),
		Config: lineup.TeamConfig{
			Innings:             raw.Innings,
			MaxConsecutiveMales: raw.MaxConsecutiveMales,
		},
	}
	if team.Name == "" {
		team.Name = team.ID
	}
	for _, pos := range raw.Positions {
		team.Positions = append(team.Positions, lineup.PositionCode(strings.TrimSpace(pos)))
	}

	seen := make(map[string]bool, len(raw.Players))
	for i, p := range raw.Players {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return lineup.Team{}, fmt.Errorf("%w: player %d has no id", ErrInvalidTeam, i+1)
		}
		if seen[id] {
			return lineup.Team{}, fmt.Errorf("%w: duplicate player id %s", ErrInvalidTeam, id)
		}
		seen[id] = true
		team.Players = append(team.Players, lineup.Player{
			ID:                 id,
			FirstName:          p.FirstName,
			LastName:           p.LastName,
			Gender:             lineup.ParseGender(p.Gender),
			PreferredPositions: positions(p.Preferred),
			DislikedPositions:  positions(p.Disliked),
			Absent:             p.Absent,
		})
	}

	var err error
	if team.Config.IdealLineup, err = rawJSON(raw.IdealLineup); err != nil {
		return lineup.Team{}, fmt.Errorf("%w: idealLineup: %v", ErrInvalidTeam, err)
	}
	if team.Config.IdealPositioning, err = rawJSON(raw.IdealPositioning); err != nil {
		return lineup.Team{}, fmt.Errorf("%w: idealPositioning: %v", ErrInvalidTeam, err)
	}
	return team, nil
}

func positions(values []string) []lineup.PositionCode {
	if len(values) == 0 {
		return nil
	}
	out := make([]lineup.PositionCode, 0, len(values))
	for _, v := range values {
		out = append(out, lineup.PositionCode(strings.TrimSpace(v)))
	}
	return out
}

// rawJSON re-encodes a decoded YAML value as JSON. A YAML string is kept as a
// JSON string so serialized configs survive unchanged.
func rawJSON(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(stringKeys(v))
	if err != nil {
		return nil, err
	}
	return data, nil
}

// stringKeys converts the map[any]any values yaml produces for non-string
// keys into map[string]any so they can be JSON encoded.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = stringKeys(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = stringKeys(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = stringKeys(val)
		}
		return out
	default:
		return v
	}
}
