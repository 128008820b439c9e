package testutil

import (
	"fmt"
	"time"

	"github.com/preston-bernstein/lineup-service/internal/domain/lineup"
)

// SamplePlayer returns a player with the given id, gender and preferences.
func SamplePlayer(id string, gender lineup.Gender, preferred ...lineup.PositionCode) lineup.Player {
	return lineup.Player{
		ID:                 id,
		FirstName:          "Player",
		LastName:           id,
		Gender:             gender,
		PreferredPositions: preferred,
	}
}

// SamplePlayers returns players p1..pN alternating male/female, starting with male.
func SamplePlayers(n int) []lineup.Player {
	players := make([]lineup.Player, 0, n)
	for i := 1; i <= n; i++ {
		gender := lineup.GenderMale
		if i%2 == 0 {
			gender = lineup.GenderFemale
		}
		players = append(players, SamplePlayer(fmt.Sprintf("p%d", i), gender))
	}
	return players
}

// SampleTeam builds a team with n alternating-gender players and default config.
func SampleTeam(id string, n int) lineup.Team {
	return lineup.Team{
		ID:      id,
		Name:    "Team " + id,
		Players: SamplePlayers(n),
	}
}

// NowAt returns a clock fixed at t.
func NowAt(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
