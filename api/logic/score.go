/* score.go
 * Contains the scorer: total and round/region decomposed scoring of a bracket
 * against a tournament state, plus the possible-score upper bound used by
 * standings
 */

package logic

import (
	"bracket-pool/api/bracket"
	"bracket-pool/api/shared"
)

// ScoreBracket computes a bracket's total score against the state: for every
// decided matchup, a pick matching the winner by name and seed earns the
// round's weight. Missing picks and unknown matchups score zero; the scorer
// never fails.
func ScoreBracket(b *shared.Bracket, state *shared.TournamentState) int {
	total := 0
	picks := b.PickIndex()
	for round := 1; round <= shared.Championship; round++ {
		weight := state.RoundWeight(round)
		for _, m := range state.Results[round] {
			if m.Winner == nil {
				continue
			}
			if picked, ok := picks[m.ID]; ok && picked.Equals(*m.Winner) {
				total += weight
			}
		}
	}
	return total
}

// DetailedScore decomposes a bracket's score by round and by region bucket.
// The two decompositions always sum to the same total.
type DetailedScore struct {
	RoundScores  map[int]int           `json:"roundScores"`
	RegionScores map[shared.Region]int `json:"regionScores"`
}

// ScoreDetailed runs the same matching as ScoreBracket but attributes each
// awarded point to its round and region. Rounds 5 and 6 attribute to the
// FinalFour bucket; for earlier rounds the region falls back through the
// layered inference when the matchup record lacks one.
func ScoreDetailed(b *shared.Bracket, state *shared.TournamentState) DetailedScore {
	detail := DetailedScore{
		RoundScores:  make(map[int]int),
		RegionScores: make(map[shared.Region]int),
	}
	picks := b.PickIndex()
	for round := 1; round <= shared.Championship; round++ {
		weight := state.RoundWeight(round)
		for _, m := range state.Results[round] {
			if m.Winner == nil {
				continue
			}
			picked, ok := picks[m.ID]
			if !ok || !picked.Equals(*m.Winner) {
				continue
			}
			detail.RoundScores[round] += weight
			region := bracket.InferRegion(state, m.ID, round, m.TeamA, m.TeamB, m.Winner)
			if region == "" {
				// Unattributable points stay out of the region map rather than
				// being double counted across buckets.
				continue
			}
			detail.RegionScores[region] += weight
		}
	}
	return detail
}

// ScoreProjected computes a bracket's score against a projected state. The
// computation is from scratch across all six rounds; the bracket's stored
// Score is a cached value, never a base to add to.
func ScoreProjected(b *shared.Bracket, projected *shared.TournamentState) int {
	return ScoreBracket(b, projected)
}

// PossibleScore returns the bracket's upper bound: its current score plus the
// weight of every undecided matchup whose picked winner is still active.
func PossibleScore(b *shared.Bracket, state *shared.TournamentState) int {
	possible := ScoreBracket(b, state)
	picks := b.PickIndex()
	for round := 1; round <= shared.Championship; round++ {
		weight := state.RoundWeight(round)
		for _, m := range state.Results[round] {
			if m.Winner != nil {
				continue
			}
			picked, ok := picks[m.ID]
			if !ok {
				continue
			}
			if rec, known := state.Teams[picked.Name]; known && rec.Eliminated {
				continue
			}
			possible += weight
		}
	}
	return possible
}

// ScoreChange pairs a bracket with a freshly computed score.
type ScoreChange struct {
	Bracket       *shared.Bracket
	NewScore      int
	PossibleScore int
}

// RecalculateAllScores rescans every bracket against the state and returns
// those whose stored score no longer matches, together with the standings
// upper bound.
func RecalculateAllScores(state *shared.TournamentState, brackets []*shared.Bracket) []ScoreChange {
	var changes []ScoreChange
	for _, b := range brackets {
		newScore := ScoreBracket(b, state)
		if newScore == b.Score {
			continue
		}
		changes = append(changes, ScoreChange{
			Bracket:       b,
			NewScore:      newScore,
			PossibleScore: PossibleScore(b, state),
		})
	}
	return changes
}
