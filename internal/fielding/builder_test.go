package fielding

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preston-bernstein/lineup-service/internal/domain/lineup"
	"github.com/preston-bernstein/lineup-service/internal/testutil"
)

// requireValidInnings checks the per-inning invariants shared by every test.
func requireValidInnings(t *testing.T, players []lineup.Player, res Result) {
	t.Helper()
	require.Len(t, res.Chart, len(players))
	for _, p := range players {
		require.Len(t, res.Chart[p.ID], res.Innings, "player %s", p.ID)
	}
	for i := 0; i < res.Innings; i++ {
		seen := make(map[lineup.PositionCode]string)
		for _, p := range players {
			pos := res.Chart[p.ID][i]
			if pos == lineup.Out {
				continue
			}
			require.True(t, res.Catalog.Contains(pos), "inning %d: %s got unknown position %s", i+1, p.ID, pos)
			if other, dup := seen[pos]; dup {
				t.Fatalf("inning %d: %s assigned to both %s and %s", i+1, pos, other, p.ID)
			}
			seen[pos] = p.ID
		}
	}
}

func outCounts(res Result) (lo, hi int) {
	lo = -1
	for _, n := range res.Outs {
		if lo < 0 || n < lo {
			lo = n
		}
		if n > hi {
			hi = n
		}
	}
	return lo, hi
}

func hasIssue(issues []lineup.Issue, code lineup.IssueCode) bool {
	for _, issue := range issues {
		if issue.Code == code {
			return true
		}
	}
	return false
}

func TestMaxOuts(t *testing.T) {
	assert.Equal(t, 2, MaxOuts(10))
	assert.Equal(t, 2, MaxOuts(13))
	assert.Equal(t, 3, MaxOuts(14))
}

func TestBuildDefaultsToSevenInnings(t *testing.T) {
	res := Build(testutil.SamplePlayers(10), Options{})
	assert.Equal(t, lineup.DefaultInnings, res.Innings)
	assert.Equal(t, lineup.StandardCatalog, res.Catalog)
}

func TestBuildEmptyRoster(t *testing.T) {
	res := Build(nil, Options{Innings: 3})
	assert.Empty(t, res.Chart)
	assert.True(t, hasIssue(res.Warnings, lineup.IssueMissingPosition))
}

func TestBuildTenPlayersNeverSitOut(t *testing.T) {
	players := testutil.SamplePlayers(10)
	res := Build(players, Options{Innings: 7})

	requireValidInnings(t, players, res)
	for id, positions := range res.Chart {
		for i, pos := range positions {
			assert.NotEqual(t, lineup.Out, pos, "%s sat out inning %d", id, i+1)
		}
	}
	assert.Empty(t, res.Warnings)
}

func TestBuildLockedPlayerHoldsPositionEveryInning(t *testing.T) {
	for _, size := range []int{1, 5, 10, 12, 16} {
		for _, innings := range []int{1, 3, 7, 9} {
			t.Run(fmt.Sprintf("%d players %d innings", size, innings), func(t *testing.T) {
				players := testutil.SamplePlayers(size)
				res := Build(players, Options{
					Innings:          innings,
					IdealPositioning: lineup.IdealPositioning{lineup.Pitcher: {lineup.Locked("p1")}},
				})

				requireValidInnings(t, players, res)
				for i := 0; i < innings; i++ {
					assert.Equal(t, lineup.Pitcher, res.Chart["p1"][i], "inning %d", i+1)
				}
				assert.Zero(t, res.Outs["p1"])
			})
		}
	}
}

func TestBuildFairnessWithTwelvePlayers(t *testing.T) {
	players := testutil.SamplePlayers(12)
	res := Build(players, Options{Innings: 7})

	requireValidInnings(t, players, res)
	lo, hi := outCounts(res)
	assert.LessOrEqual(t, hi-lo, 2)
	assert.LessOrEqual(t, hi, MaxOuts(12))
}

func TestBuildFairnessWithRandomPreferences(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		players := testutil.SamplePlayers(12)
		for i := range players {
			perm := rng.Perm(len(lineup.StandardCatalog))
			for _, idx := range perm[:rng.Intn(4)] {
				players[i].PreferredPositions = append(players[i].PreferredPositions, lineup.StandardCatalog[idx])
			}
		}

		res := Build(players, Options{Innings: 7})

		requireValidInnings(t, players, res)
		lo, hi := outCounts(res)
		require.LessOrEqual(t, hi-lo, 2, "round %d outs %v", round, res.Outs)
		require.LessOrEqual(t, hi, MaxOuts(12), "round %d outs %v", round, res.Outs)
		for i := 0; i < res.Innings; i++ {
			outs := 0
			for _, p := range players {
				if res.Chart[p.ID][i] == lineup.Out {
					outs++
				}
			}
			require.Equal(t, 2, outs, "round %d inning %d", round, i+1)
		}
	}
}

func TestBuildRespectsOutCapWithLargeRosters(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for _, size := range []int{11, 12, 13, 14, 15, 16, 17} {
		for round := 0; round < 30; round++ {
			players := testutil.SamplePlayers(size)
			for i := range players {
				perm := rng.Perm(len(lineup.StandardCatalog))
				for _, idx := range perm[:rng.Intn(4)] {
					players[i].PreferredPositions = append(players[i].PreferredPositions, lineup.StandardCatalog[idx])
				}
			}

			res := Build(players, Options{Innings: 7})

			requireValidInnings(t, players, res)
			_, hi := outCounts(res)
			require.LessOrEqual(t, hi, MaxOuts(size), "size %d round %d outs %v", size, round, res.Outs)
			require.False(t, hasIssue(res.Warnings, lineup.IssueOutCapExceeded), "size %d round %d", size, round)
		}
	}
}

func TestBuildReportsOverrunOnlyWhenCapIsInfeasible(t *testing.T) {
	players := testutil.SamplePlayers(18)
	res := Build(players, Options{Innings: 7})

	requireValidInnings(t, players, res)
	overruns := 0
	for _, w := range res.Warnings {
		if w.Code == lineup.IssueOutCapExceeded {
			overruns++
		}
	}
	// 8 sitters over 7 innings need 56 outs against a 54-out capacity.
	assert.Equal(t, 2, overruns)
}

func TestBuildClampsInningCount(t *testing.T) {
	res := Build(testutil.SamplePlayers(10), Options{Innings: 1 << 30})
	assert.Equal(t, lineup.MaxInnings, res.Innings)
	requireValidInnings(t, testutil.SamplePlayers(10), res)
}

func TestBuildSitOutsDoNotRepeatBackToBack(t *testing.T) {
	players := testutil.SamplePlayers(13)
	res := Build(players, Options{Innings: 7})

	requireValidInnings(t, players, res)
	for id, positions := range res.Chart {
		for i := 1; i < len(positions); i++ {
			if positions[i-1] == lineup.Out {
				assert.NotEqual(t, lineup.Out, positions[i], "%s sat innings %d and %d", id, i, i+1)
			}
		}
	}
}

func TestBuildConcreteLockedCatcherScenario(t *testing.T) {
	players := testutil.SamplePlayers(12)
	res := Build(players, Options{
		Innings:          3,
		IdealPositioning: `{"Catcher": [{"id": "p2", "locked": true}]}`,
	})

	assert.Equal(t, []lineup.PositionCode{lineup.Catcher, lineup.Catcher, lineup.Catcher}, res.Chart["p2"])
	requireValidInnings(t, players, res)
}

func TestBuildPitcherPassUsesPreference(t *testing.T) {
	players := testutil.SamplePlayers(10)
	players[4].PreferredPositions = []lineup.PositionCode{lineup.Pitcher}
	res := Build(players, Options{Innings: 4})

	for i := 0; i < 4; i++ {
		assert.Equal(t, lineup.Pitcher, res.Chart["p5"][i])
	}
}

func TestBuildPriorityChainSkipsAbsentPlayers(t *testing.T) {
	players := testutil.SamplePlayers(10)
	players[2].PreferredPositions = []lineup.PositionCode{lineup.LeftField}
	players[3].PreferredPositions = []lineup.PositionCode{lineup.Shortstop}
	res := Build(players, Options{
		Innings:          3,
		IdealPositioning: `{"Shortstop": ["ghost", "p3"]}`,
	})

	for i := 0; i < 3; i++ {
		assert.Equal(t, lineup.Shortstop, res.Chart["p3"][i], "chain should win over p4's preference")
		assert.NotEqual(t, lineup.Shortstop, res.Chart["p4"][i])
	}
}

func TestBuildPreferenceRankWins(t *testing.T) {
	players := testutil.SamplePlayers(10)
	players[0].PreferredPositions = []lineup.PositionCode{lineup.LeftField, lineup.SecondBase}
	players[1].PreferredPositions = []lineup.PositionCode{lineup.SecondBase}
	res := Build(players, Options{Innings: 1})

	assert.Equal(t, lineup.LeftField, res.Chart["p1"][0])
	assert.Equal(t, lineup.SecondBase, res.Chart["p2"][0])
}

func TestBuildFallbackAvoidsDislikedPositions(t *testing.T) {
	players := testutil.SamplePlayers(10)
	players[0].DislikedPositions = []lineup.PositionCode{
		lineup.Catcher, lineup.FirstBase, lineup.SecondBase, lineup.ThirdBase,
		lineup.Shortstop, lineup.LeftField, lineup.LeftCenterField, lineup.RightCenterField,
	}
	res := Build(players, Options{Innings: 2})

	assert.Equal(t, []lineup.PositionCode{lineup.RightField, lineup.RightField}, res.Chart["p1"])
}

func TestBuildLockConflictsResolveInCatalogOrder(t *testing.T) {
	players := testutil.SamplePlayers(12)
	res := Build(players, Options{
		Innings: 3,
		IdealPositioning: lineup.IdealPositioning{
			lineup.RightField: {lineup.Locked("p1")},
			lineup.Pitcher:    {lineup.Locked("p1")},
			lineup.Catcher:    {lineup.Locked("p2"), lineup.Locked("p3")},
		},
	})

	requireValidInnings(t, players, res)
	for i := 0; i < 3; i++ {
		assert.Equal(t, lineup.Pitcher, res.Chart["p1"][i])
		assert.Equal(t, lineup.Catcher, res.Chart["p2"][i])
	}
	conflicts := 0
	for _, w := range res.Warnings {
		if w.Code == lineup.IssueLockConflict {
			conflicts++
		}
	}
	assert.Equal(t, 2, conflicts)
}

func TestBuildDeterministicAcrossRuns(t *testing.T) {
	players := testutil.SamplePlayers(14)
	players[3].PreferredPositions = []lineup.PositionCode{lineup.Shortstop, lineup.Pitcher}
	opts := Options{
		Innings: 7,
		IdealPositioning: lineup.IdealPositioning{
			lineup.Catcher:    {lineup.Locked("p2")},
			lineup.FirstBase:  {lineup.Unlocked("p9")},
			lineup.RightField: {lineup.Locked("p2")},
		},
	}

	first := Build(players, opts)
	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(first, Build(players, opts)); diff != "" {
			t.Fatalf("result changed between runs (-first +again):\n%s", diff)
		}
	}
}

func TestBuildMalformedPositioningMatchesOmitted(t *testing.T) {
	players := testutil.SamplePlayers(12)
	players[0].PreferredPositions = []lineup.PositionCode{lineup.Pitcher}
	logger, buf := testutil.NewBufferLogger()

	malformed := Build(players, Options{Innings: 5, IdealPositioning: "{Pitcher: [", Logger: logger})
	omitted := Build(players, Options{Innings: 5})

	if diff := cmp.Diff(omitted.Chart, malformed.Chart); diff != "" {
		t.Fatalf("malformed config changed the chart (-omitted +malformed):\n%s", diff)
	}
	assert.Contains(t, buf.String(), "ideal positioning")
}

func TestBuildReportsUnfilledPositions(t *testing.T) {
	players := testutil.SamplePlayers(8)
	res := Build(players, Options{Innings: 2})

	requireValidInnings(t, players, res)
	for _, positions := range res.Chart {
		for _, pos := range positions {
			assert.NotEqual(t, lineup.Out, pos)
		}
	}
	missing := 0
	for _, w := range res.Warnings {
		if w.Code == lineup.IssueMissingPosition {
			missing++
			assert.Equal(t, lineup.SeverityWarning, w.Severity)
		}
	}
	// Two positions stay open in each of the two innings.
	assert.Equal(t, 4, missing)
}

func TestBuildWarnsOnUnknownPositionsAndDuplicates(t *testing.T) {
	players := append(testutil.SamplePlayers(10), testutil.SamplePlayer("p1", lineup.GenderMale))
	res := Build(players, Options{
		Innings:          1,
		IdealPositioning: `{"DesignatedHitter": ["p1"]}`,
	})

	assert.Len(t, res.Chart, 10)
	assert.True(t, hasIssue(res.Warnings, lineup.IssueInvalidPosition))
	assert.True(t, hasIssue(res.Warnings, lineup.IssueDuplicatePlayer))
}

func TestBuildCustomCatalog(t *testing.T) {
	catalog := lineup.Catalog{lineup.Pitcher, lineup.Catcher, lineup.FirstBase}
	players := testutil.SamplePlayers(5)
	res := Build(players, Options{Innings: 4, Catalog: catalog})

	requireValidInnings(t, players, res)
	for i := 0; i < 4; i++ {
		fielded := 0
		for _, p := range players {
			if res.Chart[p.ID][i] != lineup.Out {
				fielded++
			}
		}
		assert.Equal(t, 3, fielded, "inning %d", i+1)
	}
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	players := testutil.SamplePlayers(12)
	players[1].PreferredPositions = []lineup.PositionCode{lineup.Catcher}
	before := lineup.ClonePlayers(players)

	res := Build(players, Options{Innings: 3})
	res.Chart["p2"][0] = lineup.Out

	if diff := cmp.Diff(before, players); diff != "" {
		t.Fatalf("input mutated (-before +after):\n%s", diff)
	}
}
