/* report_test.go
 * Contains unit tests for report.go
 */

package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bracket-pool/api/logic"
	"bracket-pool/api/shared"
)

// TestAssemble_FinalFour tests the report assembled from a Final Four analysis
func TestAssemble_FinalFour(t *testing.T) {
	state := stateThroughRound(t, 4)
	outcomes, err := Enumerate(state)
	require.NoError(t, err)

	south := shared.Team{Name: "South 1", Seed: 1, Region: shared.RegionSouth}
	a := resultsBracket("alice", state, 4)
	addPick(a, 63, shared.Championship, south)
	b := resultsBracket("bob", state, 2)

	brackets := []*shared.Bracket{a, b}
	result, err := AnalyzeOutcomes(context.Background(), state, brackets, outcomes, Options{})
	require.NoError(t, err)

	currentScores := []int{logic.ScoreBracket(a, state), logic.ScoreBracket(b, state)}
	report := Assemble(state, brackets, currentScores, result, []string{"bracket x dropped"})

	assert.Equal(t, "final4", report.Stage)
	assert.Equal(t, shared.FinalFour, report.CurrentRound)
	assert.Equal(t, "Final Four", report.RoundName)
	assert.Equal(t, "0/2 games complete", report.RoundProgress)
	assert.Equal(t, 2, report.TotalBrackets)
	assert.Equal(t, 8, report.TotalPossibleOutcomes)
	assert.False(t, report.Cancelled)
	assert.Equal(t, []string{"bracket x dropped"}, report.Warnings)
	assert.NotEmpty(t, report.Timestamp)

	require.Len(t, report.BracketResults, 2)
	alice := report.BracketResults["alice"]
	assert.Equal(t, 128, alice.CurrentScore)
	assert.Equal(t, "alice", alice.ParticipantName)
	assert.GreaterOrEqual(t, alice.MaxScore, alice.MinScore)

	// Alice wins every outcome; bob never reaches first.
	assert.Equal(t, 1, report.PlayersWithWinChance)
	assert.Equal(t, 0, report.PlayersWithNoPodiumChance)
	require.NotEmpty(t, report.PodiumContenders)

	require.Len(t, report.ChampionshipPicks, 1)
	assert.Equal(t, "South 1 (1)", report.ChampionshipPicks[0].Team)
	assert.Equal(t, 50.0, report.ChampionshipPicks[0].Percentage)

	assert.Len(t, report.PathAnalysis.TeamPaths, 4)
	assert.Len(t, report.PathAnalysis.ChampionshipScenarios, 4)

	assert.Equal(t, 128, report.ScoreDistribution.Max)
	assert.Equal(t, 64, report.ScoreDistribution.Min)
	assert.InDelta(t, 96.0, report.ScoreDistribution.Mean, 0.001)
}

// TestAssemble_NilWarnings tests that a report never carries a nil warning list
func TestAssemble_NilWarnings(t *testing.T) {
	state := stateThroughRound(t, 4)
	outcomes, err := Enumerate(state)
	require.NoError(t, err)

	result, err := AnalyzeOutcomes(context.Background(), state, nil, outcomes, Options{})
	require.NoError(t, err)

	report := Assemble(state, nil, nil, result, nil)
	assert.NotNil(t, report.Warnings)
	assert.Empty(t, report.Warnings)
}
