/* outcome.go
 * Contains the outcome enumerator: deterministic expansion of the residual
 * outcome space from the current round through the championship. Each
 * undecided matchup doubles the outcome set; projected team lineups are
 * carried forward per outcome
 */

package analysis

import (
	"fmt"

	"bracket-pool/api/bracket"
	"bracket-pool/api/shared"
)

// OutcomeResult is a committed winner inside one outcome.
type OutcomeResult struct {
	Winner shared.Team
	Round  int
}

// ProjectedMatchup is a future-round lineup implied by an outcome's assumed
// propagation rather than by the current state.
type ProjectedMatchup struct {
	TeamA *shared.Team
	TeamB *shared.Team
	Round int
}

// Outcome is one complete, consistent assignment of winners to every
// remaining live matchup. MatchupResults also carries pre-existing completed
// games so a single map scores the full bracket.
type Outcome struct {
	MatchupResults    map[int]OutcomeResult
	ProjectedMatchups map[int]ProjectedMatchup
}

// clone deep-copies the outcome. Projection entries are never shared across
// outcomes by reference.
func (o *Outcome) clone() *Outcome {
	c := &Outcome{
		MatchupResults:    make(map[int]OutcomeResult, len(o.MatchupResults)+4),
		ProjectedMatchups: make(map[int]ProjectedMatchup, len(o.ProjectedMatchups)+4),
	}
	for id, res := range o.MatchupResults {
		c.MatchupResults[id] = res
	}
	for id, proj := range o.ProjectedMatchups {
		copied := proj
		if proj.TeamA != nil {
			a := *proj.TeamA
			copied.TeamA = &a
		}
		if proj.TeamB != nil {
			b := *proj.TeamB
			copied.TeamB = &b
		}
		c.ProjectedMatchups[id] = copied
	}
	return c
}

// undecided describes one live matchup pending expansion in a round.
type undecided struct {
	id       int
	position int
	nextID   *int
	teamA    shared.Team
	teamB    shared.Team
}

// Enumerate produces every consistent completion of the residual bracket.
// The count is exactly 2^k for k undecided games from the current round
// through the championship. Enumeration refuses to run while more than 16
// teams remain active; at Sweet 16 the space is 2^15 = 32768 outcomes.
func Enumerate(state *shared.TournamentState) ([]*Outcome, error) {
	active := bracket.ActiveTeams(state)
	if len(active) > shared.MaxActiveTeams {
		return nil, shared.NewNeedsSweet16(len(active))
	}

	seed := &Outcome{
		MatchupResults:    make(map[int]OutcomeResult),
		ProjectedMatchups: make(map[int]ProjectedMatchup),
	}
	for round := 1; round <= shared.Championship; round++ {
		for _, m := range state.Results[round] {
			switch {
			case m.Winner != nil:
				seed.MatchupResults[m.ID] = OutcomeResult{Winner: *m.Winner, Round: round}
			case m.TeamA != nil || m.TeamB != nil:
				proj := ProjectedMatchup{Round: round}
				if m.TeamA != nil {
					a := *m.TeamA
					proj.TeamA = &a
				}
				if m.TeamB != nil {
					b := *m.TeamB
					proj.TeamB = &b
				}
				seed.ProjectedMatchups[m.ID] = proj
			}
		}
	}

	outcomes := []*Outcome{seed}
	current := bracket.DetermineCurrentRound(state)
	for round := current; round <= shared.Championship; round++ {
		outcomes = processRound(state, outcomes, round)
	}

	if err := validateChampionCoverage(state, active, outcomes); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// processRound expands each outcome across every live matchup of the round.
// An outcome with k live matchups becomes 2^k successors, one per bit pattern
// of the winner assignment (bit clear = team A wins). Newly decided winners
// are projected into the successor matchup's slot for later rounds.
func processRound(state *shared.TournamentState, outcomes []*Outcome, round int) []*Outcome {
	expanded := make([]*Outcome, 0, len(outcomes))
	for _, outcome := range outcomes {
		pending := collectUndecided(state, outcome, round)
		k := len(pending)
		if k == 0 {
			expanded = append(expanded, outcome)
			continue
		}
		for mask := 0; mask < 1<<k; mask++ {
			successor := outcome.clone()
			for bit, game := range pending {
				winner := game.teamA
				if mask&(1<<bit) != 0 {
					winner = game.teamB
				}
				successor.MatchupResults[game.id] = OutcomeResult{Winner: winner, Round: round}
				if game.nextID != nil {
					advance(successor, game, winner, round)
				}
			}
			expanded = append(expanded, successor)
		}
	}
	return expanded
}

// collectUndecided gathers the round's matchups that have both teams known,
// either directly in the state or via the outcome's projections, and no
// committed winner yet.
func collectUndecided(state *shared.TournamentState, outcome *Outcome, round int) []undecided {
	var pending []undecided
	for _, m := range state.Results[round] {
		if _, decided := outcome.MatchupResults[m.ID]; decided {
			continue
		}
		teamA, teamB := m.TeamA, m.TeamB
		if proj, ok := outcome.ProjectedMatchups[m.ID]; ok {
			if proj.TeamA != nil {
				teamA = proj.TeamA
			}
			if proj.TeamB != nil {
				teamB = proj.TeamB
			}
		}
		if teamA == nil || teamB == nil {
			continue
		}
		pending = append(pending, undecided{
			id:       m.ID,
			position: m.Position,
			nextID:   m.NextMatchupID,
			teamA:    *teamA,
			teamB:    *teamB,
		})
	}
	return pending
}

// advance records a decided winner in its successor's projected lineup.
func advance(outcome *Outcome, game undecided, winner shared.Team, round int) {
	proj, ok := outcome.ProjectedMatchups[*game.nextID]
	if !ok {
		proj = ProjectedMatchup{Round: round + 1}
	}
	advanced := winner
	if game.position%2 == 0 {
		proj.TeamA = &advanced
	} else {
		proj.TeamB = &advanced
	}
	outcome.ProjectedMatchups[*game.nextID] = proj
}

// validateChampionCoverage asserts that every active team wins the
// championship in at least one outcome. A gap here means projection lost a
// team somewhere between its current round and the final.
func validateChampionCoverage(state *shared.TournamentState, active []shared.Team, outcomes []*Outcome) error {
	finals := state.Results[shared.Championship]
	if len(finals) != 1 {
		return &shared.InternalError{
			Message: fmt.Sprintf("expected exactly one championship matchup, found %d", len(finals)),
		}
	}
	champID := finals[0].ID
	champions := make(map[string]bool, len(active))
	for _, outcome := range outcomes {
		res, ok := outcome.MatchupResults[champID]
		if !ok {
			return &shared.InternalError{Message: "outcome reached round 6 without a champion"}
		}
		champions[shared.NormalizeName(res.Winner.Name)] = true
	}
	for _, team := range active {
		if !champions[shared.NormalizeName(team.Name)] {
			return &shared.InternalError{
				Message: fmt.Sprintf("active team %q is champion in no outcome", team.Name),
			}
		}
	}
	return nil
}

// ChampionshipMatchupID returns the id of the round 6 matchup.
func ChampionshipMatchupID(state *shared.TournamentState) (int, bool) {
	finals := state.Results[shared.Championship]
	if len(finals) != 1 {
		return 0, false
	}
	return finals[0].ID, true
}

// Finalists resolves the two teams meeting in the championship for one
// outcome, from the outcome's projection or the state itself.
func Finalists(state *shared.TournamentState, outcome *Outcome) (shared.Team, shared.Team, bool) {
	champID, ok := ChampionshipMatchupID(state)
	if !ok {
		return shared.Team{}, shared.Team{}, false
	}
	m, _ := bracket.MatchupByID(state, champID)
	teamA, teamB := m.TeamA, m.TeamB
	if proj, ok := outcome.ProjectedMatchups[champID]; ok {
		if proj.TeamA != nil {
			teamA = proj.TeamA
		}
		if proj.TeamB != nil {
			teamB = proj.TeamB
		}
	}
	if teamA == nil || teamB == nil {
		return shared.Team{}, shared.Team{}, false
	}
	return *teamA, *teamB, true
}
