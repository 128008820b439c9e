package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/preston-bernstein/lineup-service/internal/config"
	"github.com/preston-bernstein/lineup-service/internal/domain/lineup"
	"github.com/preston-bernstein/lineup-service/internal/store"
	"github.com/preston-bernstein/lineup-service/internal/testutil"
)

type stubHTTPServer struct {
	addr          string
	handler       http.Handler
	listenCalls   int
	shutdownCalls int
	listenErr     error
	shutdownErr   error
}

func (s *stubHTTPServer) ListenAndServe() error {
	s.listenCalls++
	return s.listenErr
}

func (s *stubHTTPServer) Shutdown(ctx context.Context) error {
	_ = ctx
	s.shutdownCalls++
	return s.shutdownErr
}

func (s *stubHTTPServer) Addr() string          { return s.addr }
func (s *stubHTTPServer) Handler() http.Handler { return s.handler }

type blockingHTTPServer struct {
	shutdownCalls int
	unblock       chan struct{}
}

func (s *blockingHTTPServer) ListenAndServe() error { return nil }

func (s *blockingHTTPServer) Shutdown(ctx context.Context) error {
	s.shutdownCalls++
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.unblock:
		return nil
	}
}

func (s *blockingHTTPServer) Addr() string          { return ":0" }
func (s *blockingHTTPServer) Handler() http.Handler { return http.NewServeMux() }

type stubPoller struct {
	startCalls int
	stopCalls  int
	err        error
}

func (p *stubPoller) Start(ctx context.Context) {
	_ = ctx
	p.startCalls++
}

func (p *stubPoller) Stop(ctx context.Context) error {
	_ = ctx
	p.stopCalls++
	return p.err
}

type closingStore struct {
	*store.MemoryStore
	closeCalls int
	closeErr   error
}

func (c *closingStore) Close() error {
	c.closeCalls++
	return c.closeErr
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Port:    "0",
		Store:   config.StoreConfig{Driver: config.StoreMemory},
		Archive: config.ArchiveConfig{Enabled: false},
		Metrics: config.MetricsConfig{Enabled: false},
	}
}

func TestNewServesHealthAndSeededDemoTeam(t *testing.T) {
	cfg := testConfig(t)
	cfg.Seed.DemoTeam = true

	srv, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	router := srv.Handler()

	testutil.AssertStatus(t, testutil.Serve(router, http.MethodGet, "/health", nil), http.StatusOK)
	testutil.AssertStatus(t, testutil.Serve(router, http.MethodGet, "/ready", nil), http.StatusOK)

	rr := testutil.Serve(router, http.MethodGet, "/teams/demo", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var team lineup.Team
	testutil.DecodeJSON(t, rr, &team)
	if len(team.Players) == 0 {
		t.Fatalf("expected demo roster")
	}

	rr = testutil.Serve(router, http.MethodPost, "/teams/demo/lineups", nil)
	testutil.AssertStatus(t, rr, http.StatusCreated)
}

func TestNewSeedsTeamFileAndArchivesLineups(t *testing.T) {
	dir := t.TempDir()
	teamFile := filepath.Join(dir, "owls.yaml")
	body := "id: owls\nname: Owls\nplayers:\n"
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		body += "  - id: " + id + "\n    gender: female\n"
	}
	if err := os.WriteFile(teamFile, []byte(body), 0o644); err != nil {
		t.Fatalf("write team file: %v", err)
	}

	cfg := testConfig(t)
	cfg.Seed.TeamFile = teamFile
	cfg.Archive = config.ArchiveConfig{Enabled: true, Dir: filepath.Join(dir, "archive"), RetentionDays: 7}

	srv, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rr := testutil.Serve(srv.Handler(), http.MethodPost, "/teams/owls/lineups", nil)
	testutil.AssertStatus(t, rr, http.StatusCreated)

	entries, err := os.ReadDir(filepath.Join(dir, "archive", "lineups", "owls"))
	if err != nil {
		t.Fatalf("expected archive directory: %v", err)
	}
	if len(entries) != 1 || !strings.HasSuffix(entries[0].Name(), ".json") {
		t.Fatalf("expected one archived day file, got %v", entries)
	}
}

func TestNewFailsOnMissingSeedFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Seed.TeamFile = filepath.Join(t.TempDir(), "missing.yaml")

	if _, err := New(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected error for missing seed file")
	}
}

func TestNewOpensSQLiteStore(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store = config.StoreConfig{Driver: config.StoreSQLite, SQLitePath: filepath.Join(t.TempDir(), "lineups.db")}
	cfg.Seed.DemoTeam = true

	srv, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer srv.gracefulShutdown()

	rr := testutil.Serve(srv.Handler(), http.MethodGet, "/teams", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestNewReturnsStoreOpenError(t *testing.T) {
	orig := openSQLite
	defer func() { openSQLite = orig }()
	openSQLite = func(context.Context, string) (backend, error) {
		return nil, errors.New("disk full")
	}

	cfg := testConfig(t)
	cfg.Store.Driver = config.StoreSQLite
	if _, err := New(context.Background(), cfg, nil); err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestBuildStoreFallsBackToMemory(t *testing.T) {
	st, err := buildStore(context.Background(), config.Config{Store: config.StoreConfig{Driver: "cassandra"}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := st.(*store.MemoryStore); !ok {
		t.Fatalf("expected memory store fallback, got %T", st)
	}
}

func TestBuildArchiveDisabled(t *testing.T) {
	if c := buildArchive(config.Config{Archive: config.ArchiveConfig{Enabled: false, Dir: t.TempDir()}}, nil); c.writer != nil || c.reader != nil || c.sweeper != nil {
		t.Fatalf("expected no archive when disabled")
	}
	if c := buildArchive(config.Config{Archive: config.ArchiveConfig{Enabled: true}}, nil); c.writer != nil || c.sweeper != nil {
		t.Fatalf("expected no archive without a directory")
	}
}

func TestBuildArchiveEnabledBuildsSweeper(t *testing.T) {
	c := buildArchive(config.Config{Archive: config.ArchiveConfig{Enabled: true, Dir: t.TempDir(), RetentionDays: 2}}, nil)
	if c.writer == nil || c.reader == nil || c.sweeper == nil {
		t.Fatalf("expected writer, reader and sweeper")
	}
}

func TestGracefulShutdownStopsServerAndClosesStore(t *testing.T) {
	st := &closingStore{MemoryStore: store.NewMemoryStore()}
	httpSrv := &stubHTTPServer{}

	srv := newServerWithDeps(config.Config{}, nil, st, httpSrv, nil)
	srv.gracefulShutdown()

	if httpSrv.shutdownCalls != 1 {
		t.Fatalf("expected server Shutdown to be called once, got %d", httpSrv.shutdownCalls)
	}
	if st.closeCalls != 1 {
		t.Fatalf("expected store Close to be called once, got %d", st.closeCalls)
	}
}

func TestGracefulShutdownContinuesWhenShutdownErrors(t *testing.T) {
	st := &closingStore{MemoryStore: store.NewMemoryStore(), closeErr: errors.New("close failure")}
	httpSrv := &stubHTTPServer{shutdownErr: errors.New("shutdown failure")}
	sweeper := &stubPoller{err: errors.New("stop failure")}
	logger, buf := testutil.NewBufferLogger()

	srv := newServerWithDeps(config.Config{}, logger, st, httpSrv, sweeper)
	srv.gracefulShutdown()

	if sweeper.stopCalls != 1 || httpSrv.shutdownCalls != 1 {
		t.Fatalf("expected shutdown to continue past sweeper failure")
	}
	if st.closeCalls != 1 {
		t.Fatalf("expected store Close after failed server shutdown")
	}
	if !strings.Contains(buf.String(), "failed to close store") {
		t.Fatalf("expected close failure to be logged, got %s", buf.String())
	}
}

func TestGracefulShutdownHonorsConfiguredTimeout(t *testing.T) {
	blocking := &blockingHTTPServer{unblock: make(chan struct{})}
	cfg := config.Config{ShutdownTimeout: 5 * time.Millisecond}

	srv := newServerWithDeps(cfg, nil, &closingStore{MemoryStore: store.NewMemoryStore()}, blocking, nil)

	start := time.Now()
	srv.gracefulShutdown()
	elapsed := time.Since(start)

	if blocking.shutdownCalls != 1 {
		t.Fatalf("expected server Shutdown to be called once, got %d", blocking.shutdownCalls)
	}
	if elapsed > 200*time.Millisecond {
		t.Fatalf("shutdown took too long: %s", elapsed)
	}
}

func TestShutdownWindowFallsBackToDefault(t *testing.T) {
	srv := newServerWithDeps(config.Config{}, nil, nil, &stubHTTPServer{}, nil)
	if srv.shutdownWindow() != shutdownTimeout {
		t.Fatalf("expected default shutdown timeout")
	}
}

func TestServerStartHandlesListenErrorAndStops(t *testing.T) {
	httpSrv := &stubHTTPServer{listenErr: errors.New("listen failure")}
	srv := newServerWithDeps(config.Config{}, nil, nil, httpSrv, nil)

	var once sync.Once
	stopCalled := make(chan struct{})
	srv.startServer(func() { once.Do(func() { close(stopCalled) }) })

	select {
	case <-stopCalled:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("expected stop to be called on listen failure")
	}
}

func TestRunCancelsAndStopsComponents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := &closingStore{MemoryStore: store.NewMemoryStore()}
	httpSrv := &stubHTTPServer{listenErr: http.ErrServerClosed}
	sweeper := &stubPoller{}
	srv := newServerWithDeps(config.Config{}, nil, st, httpSrv, sweeper)

	done := make(chan struct{})
	go func() {
		srv.Run(ctx, cancel)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("run did not return after cancel")
	}

	if httpSrv.shutdownCalls != 1 {
		t.Fatalf("expected server Shutdown called once, got %d", httpSrv.shutdownCalls)
	}
	if st.closeCalls != 1 {
		t.Fatalf("expected store Close called once, got %d", st.closeCalls)
	}
	if sweeper.startCalls != 1 || sweeper.stopCalls != 1 {
		t.Fatalf("expected sweeper started and stopped once, got %d/%d", sweeper.startCalls, sweeper.stopCalls)
	}
}
