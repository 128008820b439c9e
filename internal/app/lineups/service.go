// Package lineups coordinates team storage, lineup generation, and the
// acceptance of externally proposed lineups.
package lineups

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/preston-bernstein/lineup-service/internal/domain/lineup"
	"github.com/preston-bernstein/lineup-service/internal/logging"
	"github.com/preston-bernstein/lineup-service/internal/metrics"
	"github.com/preston-bernstein/lineup-service/internal/snapshots"
	"github.com/preston-bernstein/lineup-service/internal/store"
	"github.com/preston-bernstein/lineup-service/internal/timeutil"
	"github.com/preston-bernstein/lineup-service/internal/validate"
)

var (
	ErrTeamNotFound   = errors.New("team not found")
	ErrLineupNotFound = errors.New("lineup not found")
	ErrInvalidTeam    = errors.New("invalid team")
	ErrInvalidDate    = errors.New("invalid archive date")
	ErrNoArchive      = errors.New("lineup archive not configured")
)

// Store defines the contract for persisting teams and lineups.
type Store interface {
	ListTeams(ctx context.Context) ([]lineup.Team, error)
	GetTeam(ctx context.Context, id string) (lineup.Team, error)
	PutTeam(ctx context.Context, team lineup.Team) error
	SaveLineup(ctx context.Context, l lineup.Lineup) error
	LatestLineup(ctx context.Context, teamID string) (lineup.Lineup, error)
}

// Archive receives a copy of every stored lineup.
type Archive interface {
	WriteLineup(l lineup.Lineup) error
}

// ArchiveReader serves archived lineups by team and UTC day.
type ArchiveReader interface {
	LoadDay(teamID, date string) (snapshots.DaySnapshot, error)
}

// Service coordinates lineup operations using a Store.
type Service struct {
	store    Store
	archive  Archive
	reader   ArchiveReader
	recorder *metrics.Recorder
	logger   *slog.Logger
	defaults Settings
	now      func() time.Time
	newID    func() string
}

// Option customizes a Service.
type Option func(*Service)

func WithArchive(a Archive) Option             { return func(s *Service) { s.archive = a } }
func WithArchiveReader(r ArchiveReader) Option { return func(s *Service) { s.reader = r } }
func WithRecorder(r *metrics.Recorder) Option  { return func(s *Service) { s.recorder = r } }
func WithLogger(l *slog.Logger) Option         { return func(s *Service) { s.logger = l } }
func WithDefaults(d Settings) Option           { return func(s *Service) { s.defaults = d } }
func WithClock(now func() time.Time) Option    { return func(s *Service) { s.now = now } }
func WithIDGenerator(f func() string) Option   { return func(s *Service) { s.newID = f } }

// NewService constructs a Service with the provided Store.
func NewService(st Store, opts ...Option) *Service {
	s := &Service{
		store: st,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Teams returns every stored team.
func (s *Service) Teams(ctx context.Context) ([]lineup.Team, error) {
	return s.store.ListTeams(ctx)
}

// Team returns a single team.
func (s *Service) Team(ctx context.Context, id string) (lineup.Team, error) {
	team, err := s.store.GetTeam(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return lineup.Team{}, fmt.Errorf("%w: %s", ErrTeamNotFound, id)
	}
	return team, err
}

// PutTeam validates and stores a team, replacing any previous version.
func (s *Service) PutTeam(ctx context.Context, team lineup.Team) (lineup.Team, error) {
	team = team.Clone()
	team.ID = strings.TrimSpace(team.ID)
	if team.ID == "" {
		return lineup.Team{}, fmt.Errorf("%w: id is required", ErrInvalidTeam)
	}
	if n := team.Config.Innings; n < 0 || n > lineup.MaxInnings {
		return lineup.Team{}, fmt.Errorf("%w: innings must be between 1 and %d", ErrInvalidTeam, lineup.MaxInnings)
	}
	seen := make(map[string]bool, len(team.Players))
	for i, p := range team.Players {
		if strings.TrimSpace(p.ID) == "" {
			return lineup.Team{}, fmt.Errorf("%w: player %d has no id", ErrInvalidTeam, i+1)
		}
		if seen[p.ID] {
			return lineup.Team{}, fmt.Errorf("%w: duplicate player id %s", ErrInvalidTeam, p.ID)
		}
		seen[p.ID] = true
		team.Players[i].Gender = lineup.ParseGender(string(p.Gender))
	}
	if team.Name == "" {
		team.Name = team.ID
	}
	if err := s.store.PutTeam(ctx, team); err != nil {
		return lineup.Team{}, err
	}
	logging.Info(s.logger, "team stored", logging.FieldTeamID, team.ID, logging.FieldCount, len(team.Players))
	return team, nil
}

// SetAvailability marks the listed players present and everyone else absent.
func (s *Service) SetAvailability(ctx context.Context, teamID string, present []string) (lineup.Team, error) {
	team, err := s.Team(ctx, teamID)
	if err != nil {
		return lineup.Team{}, err
	}
	want := make(map[string]bool, len(present))
	for _, id := range present {
		want[id] = true
	}
	for i := range team.Players {
		team.Players[i].Absent = !want[team.Players[i].ID]
		delete(want, team.Players[i].ID)
	}
	if len(want) > 0 {
		unknown := make([]string, 0, len(want))
		for id := range want {
			unknown = append(unknown, id)
		}
		sort.Strings(unknown)
		return lineup.Team{}, fmt.Errorf("%w: unknown players %v", ErrInvalidTeam, unknown)
	}
	if err := s.store.PutTeam(ctx, team); err != nil {
		return lineup.Team{}, err
	}
	return team, nil
}

// Generate builds, stores, and archives a lineup for the team. A positive
// innings overrides the team and service defaults.
func (s *Service) Generate(ctx context.Context, teamID string, innings int) (lineup.Lineup, error) {
	start := s.now()
	team, err := s.Team(ctx, teamID)
	if err != nil {
		return lineup.Lineup{}, err
	}
	logger := logging.FromContext(ctx, s.logger)

	l := Compose(team, Resolve(team, Settings{Innings: innings}, s.defaults), logger)
	if err := s.save(ctx, &l); err != nil {
		return lineup.Lineup{}, err
	}
	s.recorder.RecordLineupOperation(metrics.OpGenerate, s.now().Sub(start), len(l.Warnings), false)
	logging.Info(logger, "lineup generated",
		logging.FieldTeamID, team.ID,
		logging.FieldLineupID, l.ID,
		logging.FieldInnings, l.Innings,
		logging.FieldIssues, len(l.Warnings),
	)
	return l, nil
}

// Current returns the team's most recently stored lineup.
func (s *Service) Current(ctx context.Context, teamID string) (lineup.Lineup, error) {
	if _, err := s.Team(ctx, teamID); err != nil {
		return lineup.Lineup{}, err
	}
	l, err := s.store.LatestLineup(ctx, teamID)
	if errors.Is(err, store.ErrNotFound) {
		return lineup.Lineup{}, fmt.Errorf("%w: %s", ErrLineupNotFound, teamID)
	}
	return l, err
}

// Archived returns the lineups archived for a team on a UTC day
// (YYYY-MM-DD), oldest first.
func (s *Service) Archived(ctx context.Context, teamID, date string) ([]lineup.Lineup, error) {
	if _, err := s.Team(ctx, teamID); err != nil {
		return nil, err
	}
	if s.reader == nil {
		return nil, ErrNoArchive
	}
	if _, err := timeutil.ParseDate(date); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	day, err := s.reader.LoadDay(teamID, date)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s on %s", ErrLineupNotFound, teamID, date)
	}
	if err != nil {
		return nil, fmt.Errorf("load archive: %w", err)
	}
	return day.Lineups, nil
}

// AcceptCandidate validates an externally proposed lineup with the same
// checks generated lineups pass through. Any error-level issue rejects it with
// a *validate.RejectionError and nothing is stored; otherwise the candidate
// becomes the team's current lineup with the warnings attached.
func (s *Service) AcceptCandidate(ctx context.Context, teamID string, candidate lineup.Lineup) (lineup.Lineup, validate.Report, error) {
	start := s.now()
	team, err := s.Team(ctx, teamID)
	if err != nil {
		return lineup.Lineup{}, validate.Report{}, err
	}
	logger := logging.FromContext(ctx, s.logger)

	settings := Resolve(team, Settings{}, s.defaults)
	report := Check(team, candidate, settings, logger)
	if err := report.Err(); err != nil {
		s.recorder.RecordLineupOperation(metrics.OpCandidate, s.now().Sub(start), len(report.Issues), true)
		logging.Warn(logger, "candidate lineup rejected",
			logging.FieldTeamID, team.ID,
			logging.FieldIssues, len(report.Errors()),
		)
		return lineup.Lineup{}, report, err
	}

	accepted := lineup.Lineup{
		TeamID:       team.ID,
		Source:       lineup.SourceCandidate,
		Innings:      settings.Innings,
		BattingOrder: append([]string(nil), candidate.BattingOrder...),
		Fielding:     candidate.Fielding.Clone(),
		Warnings:     report.Warnings(),
	}
	if err := s.save(ctx, &accepted); err != nil {
		return lineup.Lineup{}, report, err
	}
	s.recorder.RecordLineupOperation(metrics.OpCandidate, s.now().Sub(start), len(report.Issues), false)
	logging.Info(logger, "candidate lineup accepted",
		logging.FieldTeamID, team.ID,
		logging.FieldLineupID, accepted.ID,
	)
	return accepted, report, nil
}

// Validate checks a lineup against an unsaved team without storing anything.
func (s *Service) Validate(ctx context.Context, team lineup.Team, candidate lineup.Lineup) validate.Report {
	start := s.now()
	report := Check(team, candidate, Resolve(team, Settings{Innings: candidate.Innings}, s.defaults),
		logging.FromContext(ctx, s.logger))
	s.recorder.RecordLineupOperation(metrics.OpValidate, s.now().Sub(start), len(report.Issues), !report.Accepted())
	return report
}

func (s *Service) save(ctx context.Context, l *lineup.Lineup) error {
	l.ID = s.newID()
	l.CreatedAt = s.now().UTC()
	if err := s.store.SaveLineup(ctx, *l); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrTeamNotFound, l.TeamID)
		}
		return fmt.Errorf("save lineup: %w", err)
	}
	if s.archive != nil {
		if err := s.archive.WriteLineup(*l); err != nil {
			logging.Error(s.logger, "lineup archive failed", err,
				logging.FieldTeamID, l.TeamID,
				logging.FieldLineupID, l.ID,
			)
		}
	}
	return nil
}
