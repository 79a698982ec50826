/* propagate.go
 * Contains the results propagator: applies a completed game result to the
 * tournament state, maintains team elimination bookkeeping, and forwards the
 * winner into the successor matchup's slot
 */

package logic

import (
	"fmt"
	"time"

	"bracket-pool/api/bracket"
	"bracket-pool/api/shared"
)

// ResultUpdate carries one game result from the score feed.
type ResultUpdate struct {
	Winner    shared.Team
	Score     *shared.MatchScore
	Completed bool
}

// ApplyResult applies a game result to the state in place. The propagator is
// the only component allowed to mutate TournamentState.
//
// On a completed write it records the winner on both the per-round entry and
// the flattened games view, marks the loser eliminated, clears elimination on
// the winner (covers amendments where a previously recorded winner is
// overturned), writes the winner into the successor slot selected by position
// parity, and recomputes which rounds are complete. A team previously
// occupying that successor slot is displaced without unwinding its own
// downstream propagation; the caller re-applies successor results as needed.
//
// A non-completed write only refreshes the in-progress score.
func ApplyResult(state *shared.TournamentState, matchupID int, update ResultUpdate) error {
	m, ok := bracket.MatchupByID(state, matchupID)
	if !ok {
		return &shared.NotFoundError{Resource: "matchup", ID: fmt.Sprint(matchupID)}
	}
	game, _ := bracket.GameByID(state, matchupID)

	if !update.Completed {
		if update.Score != nil {
			score := *update.Score
			m.Score = &score
			if game != nil {
				gameScore := score
				game.Score = &gameScore
			}
			state.LastUpdated = time.Now().UTC()
		}
		return nil
	}

	var winner, loser *shared.Team
	switch {
	case m.TeamA != nil && m.TeamA.Equals(update.Winner):
		winner, loser = m.TeamA, m.TeamB
	case m.TeamB != nil && m.TeamB.Equals(update.Winner):
		winner, loser = m.TeamB, m.TeamA
	default:
		return &shared.ValidationError{
			Message: fmt.Sprintf("winner %q is not a participant of matchup %d", update.Winner.Name, matchupID),
		}
	}

	applyToViews(m, game, winner, update.Score)

	// Elimination bookkeeping. Clearing the winner handles the amendment case
	// where this result overturns an earlier one that eliminated them.
	if rec, ok := state.Teams[winner.Name]; ok {
		rec.Eliminated = false
		rec.EliminationRound = 0
		rec.EliminationMatchupID = 0
		state.Teams[winner.Name] = rec
	}
	if loser != nil {
		if rec, ok := state.Teams[loser.Name]; ok {
			rec.Eliminated = true
			rec.EliminationRound = m.Round
			rec.EliminationMatchupID = matchupID
			state.Teams[loser.Name] = rec
		}
	}

	if m.NextMatchupID != nil {
		if err := propagateWinner(state, m, *winner); err != nil {
			return err
		}
	}

	recomputeCompletedRounds(state)
	state.LastUpdated = time.Now().UTC()
	return nil
}

// applyToViews stamps the result onto the per-round entry and the flat view.
func applyToViews(m, game *shared.Matchup, winner *shared.Team, score *shared.MatchScore) {
	now := time.Now().UTC()
	won := *winner
	m.Winner = &won
	m.Completed = true
	m.PlayedAt = now
	if score != nil {
		s := *score
		m.Score = &s
	}
	if game != nil {
		gameWinner := won
		game.Winner = &gameWinner
		game.Completed = true
		game.PlayedAt = now
		if score != nil {
			s := *score
			game.Score = &s
		}
	}
}

// propagateWinner writes the winner into the successor matchup's A or B slot
// on both views.
func propagateWinner(state *shared.TournamentState, m *shared.Matchup, winner shared.Team) error {
	successor, ok := bracket.MatchupByID(state, *m.NextMatchupID)
	if !ok {
		return &shared.InternalError{
			Message: fmt.Sprintf("matchup %d points at missing successor %d", m.ID, *m.NextMatchupID),
		}
	}
	successorGame, _ := bracket.GameByID(state, *m.NextMatchupID)

	slot := bracket.SlotOfChild(m)
	for _, target := range []*shared.Matchup{successor, successorGame} {
		if target == nil {
			continue
		}
		advanced := winner
		if slot == bracket.SlotA {
			target.TeamA = &advanced
		} else {
			target.TeamB = &advanced
		}
	}
	return nil
}

// recomputeCompletedRounds flips a round complete when every one of its
// matchups has a winner. Upstream behaviors (scheduler shutdown, analysis
// triggers) key off this flag; acting on it is the collaborator's concern.
func recomputeCompletedRounds(state *shared.TournamentState) {
	if state.CompletedRounds == nil {
		state.CompletedRounds = make(map[int]bool)
	}
	for round, matchups := range state.Results {
		complete := len(matchups) > 0
		for i := range matchups {
			if matchups[i].Winner == nil {
				complete = false
				break
			}
		}
		state.CompletedRounds[round] = complete
	}
}
