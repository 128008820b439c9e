package http

import (
	"encoding/json"
	nethttp "net/http"
	"strings"
	"testing"

	"github.com/preston-bernstein/lineup-service/internal/app/lineups"
	"github.com/preston-bernstein/lineup-service/internal/domain/lineup"
	"github.com/preston-bernstein/lineup-service/internal/http/handlers"
	"github.com/preston-bernstein/lineup-service/internal/metrics"
	"github.com/preston-bernstein/lineup-service/internal/snapshots"
	"github.com/preston-bernstein/lineup-service/internal/store"
	"github.com/preston-bernstein/lineup-service/internal/testutil"
	"github.com/preston-bernstein/lineup-service/internal/timeutil"
)

func newTestRouter(t *testing.T) (nethttp.Handler, *metrics.Recorder) {
	t.Helper()
	logger, _ := testutil.NewBufferLogger()
	rec := metrics.NewRecorder()
	svc := lineups.NewService(store.NewMemoryStore(), lineups.WithRecorder(rec), lineups.WithLogger(logger))
	return NewRouter(handlers.NewHandler(svc, logger, nil), logger, rec), rec
}

func putSampleTeam(t *testing.T, router nethttp.Handler, id string, n int) {
	t.Helper()
	rr := testutil.Serve(router, nethttp.MethodPut, "/teams/"+id, testutil.JSONBody(t, testutil.SampleTeam(id, n)))
	testutil.AssertStatus(t, rr, nethttp.StatusOK)
}

func TestRouterHealthAndUnknownRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	testutil.AssertStatus(t, testutil.Serve(router, nethttp.MethodGet, "/health", nil), nethttp.StatusOK)
	testutil.AssertStatus(t, testutil.Serve(router, nethttp.MethodGet, "/ready", nil), nethttp.StatusOK)

	rr := testutil.Serve(router, nethttp.MethodGet, "/nope", nil)
	testutil.AssertStatus(t, rr, nethttp.StatusNotFound)
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected middleware to run on unmatched routes")
	}

	rr = testutil.Serve(router, nethttp.MethodDelete, "/health", nil)
	testutil.AssertStatus(t, rr, nethttp.StatusMethodNotAllowed)
}

func TestRouterTeamLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := testutil.Serve(router, nethttp.MethodGet, "/teams/owls", nil)
	testutil.AssertStatus(t, rr, nethttp.StatusNotFound)

	putSampleTeam(t, router, "owls", 10)

	rr = testutil.Serve(router, nethttp.MethodGet, "/teams/owls", nil)
	testutil.AssertStatus(t, rr, nethttp.StatusOK)
	var team lineup.Team
	testutil.DecodeJSON(t, rr, &team)
	if team.ID != "owls" || len(team.Players) != 10 {
		t.Fatalf("unexpected team %+v", team)
	}

	rr = testutil.Serve(router, nethttp.MethodGet, "/teams", nil)
	testutil.AssertStatus(t, rr, nethttp.StatusOK)
	var list struct {
		Teams []lineup.Team `json:"teams"`
	}
	testutil.DecodeJSON(t, rr, &list)
	if len(list.Teams) != 1 {
		t.Fatalf("expected one team, got %d", len(list.Teams))
	}

	rr = testutil.Serve(router, nethttp.MethodPut, "/teams/owls", strings.NewReader(`{"id":"hawks"}`))
	testutil.AssertStatus(t, rr, nethttp.StatusBadRequest)

	rr = testutil.Serve(router, nethttp.MethodPut, "/teams/owls", strings.NewReader(`{"players":[{"id":"a"},{"id":"a"}]}`))
	testutil.AssertStatus(t, rr, nethttp.StatusBadRequest)

	rr = testutil.Serve(router, nethttp.MethodPut, "/teams/owls/availability", strings.NewReader(`{"playerIds":["p1","p2","p3","p4","p5","p6","p7","p8","p9"]}`))
	testutil.AssertStatus(t, rr, nethttp.StatusOK)
	var updated lineup.Team
	testutil.DecodeJSON(t, rr, &updated)
	if len(updated.AvailablePlayers()) != 9 {
		t.Fatalf("expected 9 present players, got %d", len(updated.AvailablePlayers()))
	}

	rr = testutil.Serve(router, nethttp.MethodPut, "/teams/owls/availability", strings.NewReader(`{"playerIds":["ghost"]}`))
	testutil.AssertStatus(t, rr, nethttp.StatusBadRequest)
}

func TestRouterGenerateAndCurrent(t *testing.T) {
	router, rec := newTestRouter(t)
	putSampleTeam(t, router, "owls", 12)

	rr := testutil.Serve(router, nethttp.MethodGet, "/teams/owls/lineups/current", nil)
	testutil.AssertStatus(t, rr, nethttp.StatusNotFound)

	rr = testutil.Serve(router, nethttp.MethodPost, "/teams/owls/lineups?innings=0", nil)
	testutil.AssertStatus(t, rr, nethttp.StatusBadRequest)
	rr = testutil.Serve(router, nethttp.MethodPost, "/teams/owls/lineups?innings=21", nil)
	testutil.AssertStatus(t, rr, nethttp.StatusBadRequest)

	rr = testutil.Serve(router, nethttp.MethodPost, "/teams/owls/lineups?innings=5", nil)
	testutil.AssertStatus(t, rr, nethttp.StatusCreated)
	var generated lineup.Lineup
	testutil.DecodeJSON(t, rr, &generated)
	if generated.ID == "" || generated.Innings != 5 || len(generated.BattingOrder) != 12 {
		t.Fatalf("unexpected generated lineup %+v", generated)
	}

	rr = testutil.Serve(router, nethttp.MethodGet, "/teams/owls/lineups/current", nil)
	testutil.AssertStatus(t, rr, nethttp.StatusOK)
	var current lineup.Lineup
	testutil.DecodeJSON(t, rr, &current)
	if current.ID != generated.ID {
		t.Fatalf("expected current %s, got %s", generated.ID, current.ID)
	}
	testutil.AssertOperation(t, rec, metrics.OpGenerate, 1, 0)
}

func TestRouterCandidateAcceptAndReject(t *testing.T) {
	router, _ := newTestRouter(t)
	putSampleTeam(t, router, "owls", 10)

	rr := testutil.Serve(router, nethttp.MethodPost, "/teams/owls/lineups", nil)
	testutil.AssertStatus(t, rr, nethttp.StatusCreated)
	var generated lineup.Lineup
	testutil.DecodeJSON(t, rr, &generated)

	payload, _ := json.Marshal(lineup.Lineup{BattingOrder: generated.BattingOrder, Fielding: generated.Fielding})
	rr = testutil.Serve(router, nethttp.MethodPost, "/teams/owls/lineups/candidates", strings.NewReader(string(payload)))
	testutil.AssertStatus(t, rr, nethttp.StatusCreated)
	var accepted struct {
		Lineup lineup.Lineup  `json:"lineup"`
		Issues []lineup.Issue `json:"issues"`
	}
	testutil.DecodeJSON(t, rr, &accepted)
	if accepted.Lineup.Source != lineup.SourceCandidate {
		t.Fatalf("expected candidate source, got %s", accepted.Lineup.Source)
	}

	bad := lineup.Lineup{BattingOrder: append([]string{"ghost"}, generated.BattingOrder...), Fielding: generated.Fielding}
	payload, _ = json.Marshal(bad)
	rr = testutil.Serve(router, nethttp.MethodPost, "/teams/owls/lineups/candidates", strings.NewReader(string(payload)))
	testutil.AssertStatus(t, rr, nethttp.StatusUnprocessableEntity)
	var rejected struct {
		Error  string         `json:"error"`
		Issues []lineup.Issue `json:"issues"`
	}
	testutil.DecodeJSON(t, rr, &rejected)
	if rejected.Error != "lineup rejected" || len(rejected.Issues) == 0 {
		t.Fatalf("unexpected rejection body %+v", rejected)
	}
	found := false
	for _, issue := range rejected.Issues {
		if issue.Code == lineup.IssueUnknownPlayer && issue.PlayerID == "ghost" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected unknown_player issue for ghost, got %+v", rejected.Issues)
	}

	rr = testutil.Serve(router, nethttp.MethodPost, "/teams/owls/lineups/candidates", strings.NewReader(`{"battingOrder":`))
	testutil.AssertStatus(t, rr, nethttp.StatusBadRequest)
}

func TestRouterValidateIsStateless(t *testing.T) {
	router, _ := newTestRouter(t)
	body := `{
		"players": [
			{"id": "a", "gender": "M"}, {"id": "b", "gender": "male"},
			{"id": "c", "gender": "male"}, {"id": "d", "gender": "male"},
			{"id": "e", "gender": "female"}
		],
		"positions": ["Pitcher", "Catcher", "FirstBase", "SecondBase", "ThirdBase"],
		"lineup": {
			"innings": 1,
			"battingOrder": ["a", "b", "c", "d", "e"],
			"fielding": {"a": ["Pitcher"], "b": ["Catcher"], "c": ["FirstBase"], "d": ["SecondBase"], "e": ["ThirdBase"]}
		}
	}`
	rr := testutil.Serve(router, nethttp.MethodPost, "/lineups/validate", strings.NewReader(body))
	testutil.AssertStatus(t, rr, nethttp.StatusOK)
	var resp struct {
		Accepted bool           `json:"accepted"`
		Issues   []lineup.Issue `json:"issues"`
	}
	testutil.DecodeJSON(t, rr, &resp)
	if resp.Accepted {
		t.Fatalf("expected four straight males followed by a female to be rejected")
	}
	if len(resp.Issues) != 1 || resp.Issues[0].Code != lineup.IssueGenderRun {
		t.Fatalf("expected a single gender_run issue, got %+v", resp.Issues)
	}

	rr = testutil.Serve(router, nethttp.MethodGet, "/teams", nil)
	var list struct {
		Teams []lineup.Team `json:"teams"`
	}
	testutil.DecodeJSON(t, rr, &list)
	if len(list.Teams) != 0 {
		t.Fatalf("validate must not create teams")
	}

	rr = testutil.Serve(router, nethttp.MethodPost, "/lineups/validate", strings.NewReader(`{"players": []}`))
	testutil.AssertStatus(t, rr, nethttp.StatusBadRequest)
}

func TestRouterArchivedLineups(t *testing.T) {
	logger, _ := testutil.NewBufferLogger()
	writer := snapshots.NewWriter(t.TempDir(), 7)
	svc := lineups.NewService(store.NewMemoryStore(),
		lineups.WithArchive(writer),
		lineups.WithArchiveReader(snapshots.NewFSStore(writer.BasePath())),
	)
	router := NewRouter(handlers.NewHandler(svc, logger, nil), logger, metrics.NewRecorder())
	putSampleTeam(t, router, "owls", 10)

	rr := testutil.Serve(router, nethttp.MethodPost, "/teams/owls/lineups", nil)
	testutil.AssertStatus(t, rr, nethttp.StatusCreated)
	var generated lineup.Lineup
	testutil.DecodeJSON(t, rr, &generated)

	day := timeutil.DayOf(generated.CreatedAt)
	rr = testutil.Serve(router, nethttp.MethodGet, "/teams/owls/lineups/archive/"+day, nil)
	testutil.AssertStatus(t, rr, nethttp.StatusOK)
	var archived struct {
		TeamID  string          `json:"teamId"`
		Date    string          `json:"date"`
		Lineups []lineup.Lineup `json:"lineups"`
	}
	testutil.DecodeJSON(t, rr, &archived)
	if archived.TeamID != "owls" || archived.Date != day || len(archived.Lineups) != 1 || archived.Lineups[0].ID != generated.ID {
		t.Fatalf("unexpected archive response %+v", archived)
	}

	testutil.AssertStatus(t, testutil.Serve(router, nethttp.MethodGet, "/teams/owls/lineups/archive/not-a-date", nil), nethttp.StatusBadRequest)
	testutil.AssertStatus(t, testutil.Serve(router, nethttp.MethodGet, "/teams/owls/lineups/archive/2001-01-01", nil), nethttp.StatusNotFound)

	plain, _ := newTestRouter(t)
	putSampleTeam(t, plain, "owls", 10)
	testutil.AssertStatus(t, testutil.Serve(plain, nethttp.MethodGet, "/teams/owls/lineups/archive/"+day, nil), nethttp.StatusNotFound)
}
