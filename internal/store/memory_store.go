package store

import (
	"context"
	"sort"
	"sync"

	"github.com/preston-bernstein/lineup-service/internal/domain/lineup"
)

// MemoryStore keeps a thread-safe copy of teams and lineups in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	teams   map[string]lineup.Team
	lineups map[string][]lineup.Lineup
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		teams:   make(map[string]lineup.Team),
		lineups: make(map[string][]lineup.Lineup),
	}
}

// ListTeams returns copies of every team ordered by id.
func (s *MemoryStore) ListTeams(_ context.Context) ([]lineup.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]lineup.Team, 0, len(s.teams))
	for _, t := range s.teams {
		result = append(result, t.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// GetTeam retrieves a team by id.
func (s *MemoryStore) GetTeam(_ context.Context, id string) (lineup.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.teams[id]
	if !ok {
		return lineup.Team{}, ErrNotFound
	}
	return t.Clone(), nil
}

// PutTeam inserts or replaces a team.
func (s *MemoryStore) PutTeam(_ context.Context, team lineup.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.teams[team.ID] = team.Clone()
	return nil
}

// SaveLineup appends a lineup to its team's history.
func (s *MemoryStore) SaveLineup(_ context.Context, l lineup.Lineup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teams[l.TeamID]; !ok {
		return ErrNotFound
	}
	s.lineups[l.TeamID] = append(s.lineups[l.TeamID], l.Clone())
	return nil
}

// LatestLineup returns the most recently saved lineup for a team.
func (s *MemoryStore) LatestLineup(_ context.Context, teamID string) (lineup.Lineup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.lineups[teamID]
	if len(history) == 0 {
		return lineup.Lineup{}, ErrNotFound
	}
	return history[len(history)-1].Clone(), nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
