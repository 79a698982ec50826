/* graph_test.go
 * Contains unit tests for graph.go
 */

package bracket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bracket-pool/api/shared"
)

// playRound decides every matchup of a round in the lower seed's favour,
// advancing winners and flagging losers eliminated.
func playRound(t *testing.T, state *shared.TournamentState, round int) {
	t.Helper()
	matchups := state.Results[round]
	for i := range matchups {
		m := &matchups[i]
		require.NotNil(t, m.TeamA, "matchup %d has no team A", m.ID)
		require.NotNil(t, m.TeamB, "matchup %d has no team B", m.ID)

		winner, loser := m.TeamA, m.TeamB
		if loser.Seed < winner.Seed {
			winner, loser = loser, winner
		}
		won := *winner
		m.Winner = &won
		m.Completed = true

		rec := state.Teams[loser.Name]
		rec.Eliminated = true
		rec.EliminationRound = round
		state.Teams[loser.Name] = rec

		if m.NextMatchupID != nil {
			successor, ok := MatchupByID(state, *m.NextMatchupID)
			require.True(t, ok)
			advanced := won
			if SlotOfChild(m) == SlotA {
				successor.TeamA = &advanced
			} else {
				successor.TeamB = &advanced
			}
		}
	}
	state.CompletedRounds[round] = true
}

// sweet16State returns a tournament with rounds 1 and 2 played out.
func sweet16State(t *testing.T) *shared.TournamentState {
	t.Helper()
	state, err := NewTournament(2026, testField())
	require.NoError(t, err)
	playRound(t, state, 1)
	playRound(t, state, 2)
	return state
}

// region lookup tests

func TestMatchupByID(t *testing.T) {
	state, err := NewTournament(2026, testField())
	require.NoError(t, err)

	m, ok := MatchupByID(state, 63)
	require.True(t, ok)
	assert.Equal(t, shared.Championship, m.Round)

	_, ok = MatchupByID(state, 64)
	assert.False(t, ok)
}

func TestGameByID(t *testing.T) {
	state, err := NewTournament(2026, testField())
	require.NoError(t, err)

	g, ok := GameByID(state, 1)
	require.True(t, ok)
	assert.Equal(t, 1, g.Round)

	_, ok = GameByID(state, 0)
	assert.False(t, ok)
}

// region round tests

// TestDetermineCurrentRound_Floor tests that the current round never drops below the Sweet 16
func TestDetermineCurrentRound_Floor(t *testing.T) {
	state, err := NewTournament(2026, testField())
	require.NoError(t, err)

	assert.Equal(t, shared.Sweet16, DetermineCurrentRound(state))

	playRound(t, state, 1)
	assert.Equal(t, shared.Sweet16, DetermineCurrentRound(state))
}

func TestDetermineCurrentRound_Progression(t *testing.T) {
	state := sweet16State(t)
	assert.Equal(t, shared.Sweet16, DetermineCurrentRound(state))

	playRound(t, state, 3)
	assert.Equal(t, shared.EliteEight, DetermineCurrentRound(state))

	playRound(t, state, 4)
	assert.Equal(t, shared.FinalFour, DetermineCurrentRound(state))

	playRound(t, state, 5)
	assert.Equal(t, shared.Championship, DetermineCurrentRound(state))
}

func TestRoundProgress(t *testing.T) {
	state := sweet16State(t)

	done, total := RoundProgress(state, shared.Sweet16)
	assert.Equal(t, 0, done)
	assert.Equal(t, 8, total)

	playRound(t, state, 3)
	done, total = RoundProgress(state, shared.Sweet16)
	assert.Equal(t, 8, done)
	assert.Equal(t, 8, total)
}

// region active team tests

func TestActiveTeams_CountsByStage(t *testing.T) {
	state, err := NewTournament(2026, testField())
	require.NoError(t, err)
	assert.Len(t, ActiveTeams(state), 64)

	playRound(t, state, 1)
	assert.Len(t, ActiveTeams(state), 32)

	playRound(t, state, 2)
	assert.Len(t, ActiveTeams(state), 16)

	playRound(t, state, 3)
	playRound(t, state, 4)
	assert.Len(t, ActiveTeams(state), 4)
}

// TestActiveTeams_Deterministic tests that repeated calls return the same order
func TestActiveTeams_Deterministic(t *testing.T) {
	state := sweet16State(t)

	first := ActiveTeams(state)
	second := ActiveTeams(state)
	assert.Equal(t, first, second)
}

// region region inference tests

func TestInferRegion_FinalRounds(t *testing.T) {
	state := sweet16State(t)

	assert.Equal(t, shared.RegionFinalFour, InferRegion(state, 61, shared.FinalFour))
	assert.Equal(t, shared.RegionFinalFour, InferRegion(state, 63, shared.Championship))
}

func TestInferRegion_FromMatchup(t *testing.T) {
	state := sweet16State(t)

	assert.Equal(t, shared.RegionSouth, InferRegion(state, 1, 1))
}

// TestInferRegion_FromTeamRecord tests the fallback when the matchup record carries no region
func TestInferRegion_FromTeamRecord(t *testing.T) {
	state := sweet16State(t)
	m, ok := MatchupByID(state, 1)
	require.True(t, ok)
	m.Region = ""
	g, ok := GameByID(state, 1)
	require.True(t, ok)
	g.Region = ""

	team := &shared.Team{Name: "South 1", Seed: 1}
	assert.Equal(t, shared.RegionSouth, InferRegion(state, 1, 1, team))
}

// TestInferRegion_SeedBand tests the legacy absolute seed convention
func TestInferRegion_SeedBand(t *testing.T) {
	state := &shared.TournamentState{Results: map[int][]shared.Matchup{}}

	team := &shared.Team{Name: "Unknown", Seed: 20}
	assert.Equal(t, shared.RegionEast, InferRegion(state, 5, 1, team))

	// By the time the band runs no other region source exists, so seeds are
	// read as absolute: 1..16 lands in the first band.
	low := &shared.Team{Name: "Unknown", Seed: 3}
	assert.Equal(t, shared.RegionSouth, InferRegion(state, 5, 1, low))
}

func TestSeedBandRegion(t *testing.T) {
	assert.Equal(t, shared.RegionSouth, SeedBandRegion(1))
	assert.Equal(t, shared.RegionEast, SeedBandRegion(32))
	assert.Equal(t, shared.RegionWest, SeedBandRegion(33))
	assert.Equal(t, shared.RegionMidwest, SeedBandRegion(64))
	assert.Equal(t, shared.Region(""), SeedBandRegion(65))
}

// region semifinal side tests

// TestSemifinalSides tests that regions pair off into the two national semifinals
func TestSemifinalSides(t *testing.T) {
	state, err := NewTournament(2026, testField())
	require.NoError(t, err)

	sides := SemifinalSides(state)
	require.Len(t, sides, 4)
	assert.Equal(t, sides[shared.RegionSouth], sides[shared.RegionWest])
	assert.Equal(t, sides[shared.RegionEast], sides[shared.RegionMidwest])
	assert.NotEqual(t, sides[shared.RegionSouth], sides[shared.RegionEast])
}
