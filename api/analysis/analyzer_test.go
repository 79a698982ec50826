/* analyzer_test.go
 * Contains unit tests for analyzer.go
 */

package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bracket-pool/api/shared"
)

// resultsBracket builds a bracket predicting every decided winner in the state
// up to and including maxRound.
func resultsBracket(id string, state *shared.TournamentState, maxRound int) *shared.Bracket {
	b := &shared.Bracket{
		ID:              id,
		ParticipantName: id,
		Picks:           make(map[int][]shared.MatchupPick),
	}
	for round := 1; round <= maxRound; round++ {
		for _, m := range state.Results[round] {
			if m.Winner == nil {
				continue
			}
			winner := *m.Winner
			b.Picks[round] = append(b.Picks[round], shared.MatchupPick{ID: m.ID, Round: round, Winner: &winner})
		}
	}
	return b
}

func addPick(b *shared.Bracket, id, round int, team shared.Team) {
	b.Picks[round] = append(b.Picks[round], shared.MatchupPick{ID: id, Round: round, Winner: &team})
}

// region AnalyzeOutcomes tests

// TestAnalyzeOutcomes_IdenticalBrackets tests that two brackets with the same
// picks tie for first in every outcome
func TestAnalyzeOutcomes_IdenticalBrackets(t *testing.T) {
	state := stateThroughRound(t, 4)
	outcomes, err := Enumerate(state)
	require.NoError(t, err)

	a := resultsBracket("a", state, 4)
	b := resultsBracket("b", state, 4)

	result, err := AnalyzeOutcomes(context.Background(), state, []*shared.Bracket{a, b}, outcomes, Options{Workers: 2})
	require.NoError(t, err)

	assert.Equal(t, 8, result.TotalOutcomes)
	assert.Equal(t, 8, result.ProcessedOutcomes)
	assert.False(t, result.Cancelled)

	for i := range result.Stats {
		st := &result.Stats[i]
		assert.Equal(t, 8, st.Wins)
		assert.Equal(t, 8, st.Places[0])
		assert.Equal(t, 1, st.MinPlace)
		assert.Equal(t, 1, st.MaxPlace)
	}
}

// TestAnalyzeOutcomes_OlympicTies tests that a tied group consumes its
// positions: two tied at 1 push the next bracket to position 3
func TestAnalyzeOutcomes_OlympicTies(t *testing.T) {
	state := stateThroughRound(t, 4)
	outcomes, err := Enumerate(state)
	require.NoError(t, err)

	a := resultsBracket("a", state, 4)
	b := resultsBracket("b", state, 4)
	worse := &shared.Bracket{ID: "worse", ParticipantName: "worse", Picks: map[int][]shared.MatchupPick{}}

	result, err := AnalyzeOutcomes(context.Background(), state, []*shared.Bracket{a, b, worse}, outcomes, Options{})
	require.NoError(t, err)

	last := &result.Stats[2]
	assert.Equal(t, 0, last.Wins)
	assert.Equal(t, 0, last.Places[0])
	assert.Equal(t, 0, last.Places[1])
	assert.Equal(t, 8, last.Places[2])
	assert.Equal(t, 3, last.MinPlace)
	assert.Equal(t, 3, last.MaxPlace)
}

// TestAnalyzeOutcomes_ScoreAggregates tests the min/max/avg consistency of the
// per-bracket score aggregates
func TestAnalyzeOutcomes_ScoreAggregates(t *testing.T) {
	state := stateThroughRound(t, 4)
	outcomes, err := Enumerate(state)
	require.NoError(t, err)

	// Rides South 1 to the title: decided games plus all three remaining wins.
	homer := resultsBracket("homer", state, 4)
	south := shared.Team{Name: "South 1", Seed: 1, Region: shared.RegionSouth}
	addPick(homer, 61, shared.FinalFour, south)
	addPick(homer, 63, shared.Championship, south)

	result, err := AnalyzeOutcomes(context.Background(), state, []*shared.Bracket{homer}, outcomes, Options{Workers: 3})
	require.NoError(t, err)

	st := &result.Stats[0]
	decided := 32*1 + 16*2 + 8*4 + 4*8
	assert.Equal(t, decided, st.MinScore)
	assert.Equal(t, decided+16+32, st.MaxScore)
	avg := float64(st.SumScore) / float64(result.ProcessedOutcomes)
	assert.GreaterOrEqual(t, avg, float64(st.MinScore))
	assert.LessOrEqual(t, avg, float64(st.MaxScore))
}

// TestAnalyzeOutcomes_SingleGameScoreDelta tests that two outcomes differing
// in exactly one game move a bracket's score by zero or that round's weight
func TestAnalyzeOutcomes_SingleGameScoreDelta(t *testing.T) {
	state := stateThroughRound(t, 4)
	outcomes, err := Enumerate(state)
	require.NoError(t, err)

	south := shared.Team{Name: "South 1", Seed: 1, Region: shared.RegionSouth}
	b := resultsBracket("b", state, 4)
	addPick(b, 61, shared.FinalFour, south)
	addPick(b, 63, shared.Championship, south)

	picks := []map[int]*shared.Team{b.PickIndex()}
	weights := make([]int, shared.Championship+1)
	for round := 1; round <= shared.Championship; round++ {
		weights[round] = state.RoundWeight(round)
	}

	scores := make([]int, 1)
	pairs := 0
	for i := 0; i < len(outcomes); i++ {
		for j := i + 1; j < len(outcomes); j++ {
			diffs, diffRound := 0, 0
			for id, res := range outcomes[i].MatchupResults {
				if other := outcomes[j].MatchupResults[id]; !other.Winner.Equals(res.Winner) {
					diffs++
					diffRound = res.Round
				}
			}
			if diffs != 1 {
				continue
			}
			pairs++
			scoreOutcome(outcomes[i], picks, weights, scores)
			first := scores[0]
			scoreOutcome(outcomes[j], picks, weights, scores)
			delta := first - scores[0]
			if delta < 0 {
				delta = -delta
			}
			assert.Contains(t, []int{0, weights[diffRound]}, delta)
		}
	}
	assert.Greater(t, pairs, 0)
}

// TestAnalyzeOutcomes_ScoreSumReconciliation tests that the accumulated score
// sums equal an independent per-round count of correct picks times weight
func TestAnalyzeOutcomes_ScoreSumReconciliation(t *testing.T) {
	state := stateThroughRound(t, 4)
	outcomes, err := Enumerate(state)
	require.NoError(t, err)

	south := shared.Team{Name: "South 1", Seed: 1, Region: shared.RegionSouth}
	east := shared.Team{Name: "East 1", Seed: 1, Region: shared.RegionEast}
	a := resultsBracket("a", state, 4)
	addPick(a, 61, shared.FinalFour, south)
	addPick(a, 63, shared.Championship, south)
	b := resultsBracket("b", state, 3)
	addPick(b, 63, shared.Championship, east)
	brackets := []*shared.Bracket{a, b}

	result, err := AnalyzeOutcomes(context.Background(), state, brackets, outcomes, Options{Workers: 2})
	require.NoError(t, err)

	var accumulated int64
	for i := range result.Stats {
		accumulated += result.Stats[i].SumScore
	}

	var expected int64
	for _, outcome := range outcomes {
		for round := 1; round <= shared.Championship; round++ {
			correct := 0
			for _, br := range brackets {
				for _, pick := range br.Picks[round] {
					res, ok := outcome.MatchupResults[pick.ID]
					if ok && pick.Winner != nil && pick.Winner.Equals(res.Winner) {
						correct++
					}
				}
			}
			expected += int64(state.RoundWeight(round) * correct)
		}
	}
	assert.Equal(t, expected, accumulated)
}

// TestAnalyzeOutcomes_ChampionGroups tests the conditional grouping by champion
func TestAnalyzeOutcomes_ChampionGroups(t *testing.T) {
	state := stateThroughRound(t, 4)
	outcomes, err := Enumerate(state)
	require.NoError(t, err)

	a := resultsBracket("a", state, 4)
	result, err := AnalyzeOutcomes(context.Background(), state, []*shared.Bracket{a}, outcomes, Options{})
	require.NoError(t, err)

	require.Len(t, result.ChampionGroups, 4)
	total := 0
	for _, group := range result.ChampionGroups {
		assert.Equal(t, 2, group.Outcomes)
		total += group.Outcomes
	}
	assert.Equal(t, 8, total)
}

// TestAnalyzeOutcomes_ScenarioGroups tests that scenario accumulation tracks
// every legal championship pairing once the Final Four is reached
func TestAnalyzeOutcomes_ScenarioGroups(t *testing.T) {
	state := stateThroughRound(t, 4)
	outcomes, err := Enumerate(state)
	require.NoError(t, err)

	a := resultsBracket("a", state, 4)
	result, err := AnalyzeOutcomes(context.Background(), state, []*shared.Bracket{a}, outcomes, Options{})
	require.NoError(t, err)

	require.Len(t, result.ScenarioGroups, 4)
	for _, group := range result.ScenarioGroups {
		assert.Equal(t, 2, group.Outcomes)
		assert.Len(t, group.PerWinner, 2)
	}
}

// TestAnalyzeOutcomes_NoScenariosBeforeFinalFour tests that scenario tracking
// stays off at the Sweet 16
func TestAnalyzeOutcomes_NoScenariosBeforeFinalFour(t *testing.T) {
	state := stateThroughRound(t, 2)
	outcomes, err := Enumerate(state)
	require.NoError(t, err)

	a := resultsBracket("a", state, 2)
	result, err := AnalyzeOutcomes(context.Background(), state, []*shared.Bracket{a}, outcomes, Options{Workers: 4})
	require.NoError(t, err)

	assert.Empty(t, result.ScenarioGroups)
	assert.Equal(t, 32768, result.ProcessedOutcomes)
}

// TestAnalyzeOutcomes_Cancellation tests that a cancelled context yields a
// partial result instead of an error
func TestAnalyzeOutcomes_Cancellation(t *testing.T) {
	state := stateThroughRound(t, 4)
	outcomes, err := Enumerate(state)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := resultsBracket("a", state, 4)
	result, err := AnalyzeOutcomes(ctx, state, []*shared.Bracket{a}, outcomes, Options{})
	require.NoError(t, err)

	assert.True(t, result.Cancelled)
	assert.Equal(t, 0, result.ProcessedOutcomes)
	assert.Equal(t, 8, result.TotalOutcomes)
}

// region PairKey tests

func TestPairKey_Unordered(t *testing.T) {
	a := shared.Team{Name: "Duke", Seed: 1}
	b := shared.Team{Name: "Houston", Seed: 2}
	assert.Equal(t, PairKey(a, b), PairKey(b, a))
}
