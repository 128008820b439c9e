package teststubs

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/lineup-service/internal/domain/lineup"
)

// StubArchive is a test double for lineups.Archive.
type StubArchive struct {
	mu      sync.Mutex
	Written []lineup.Lineup
	Err     error
}

// WriteLineup records the lineup and returns the configured error.
func (a *StubArchive) WriteLineup(l lineup.Lineup) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Written = append(a.Written, l)
	return a.Err
}

// StubSweeper is a test double for poller.Sweeper.
type StubSweeper struct {
	mu      sync.Mutex
	Removed int
	Err     error
	Calls   atomic.Int32
	Notify  chan struct{}
}

// Sweep returns the configured result while tracking calls. Notify is closed
// on the first call.
func (s *StubSweeper) Sweep(ctx context.Context) (int, error) {
	_ = ctx
	if s.Notify != nil {
		select {
		case <-s.Notify:
		default:
			close(s.Notify)
		}
	}
	s.Calls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Removed, s.Err
}

// SetResult changes what later Sweep calls return.
func (s *StubSweeper) SetResult(removed int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Removed = removed
	s.Err = err
}

// FailingStore is a lineups.Store whose every call returns Err, except
// GetTeam which returns Team so callers reach the failing write.
type FailingStore struct {
	Team lineup.Team
	Err  error
}

func (s FailingStore) ListTeams(context.Context) ([]lineup.Team, error) { return nil, s.Err }

func (s FailingStore) GetTeam(context.Context, string) (lineup.Team, error) {
	return s.Team.Clone(), nil
}

func (s FailingStore) PutTeam(context.Context, lineup.Team) error     { return s.Err }
func (s FailingStore) SaveLineup(context.Context, lineup.Lineup) error { return s.Err }

func (s FailingStore) LatestLineup(context.Context, string) (lineup.Lineup, error) {
	return lineup.Lineup{}, s.Err
}
