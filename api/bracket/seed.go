/* seed.go
 * Builds the 64-team single elimination graph at tournament creation time:
 * round one pairings by seed, placeholder matchups for later rounds, and the
 * next-matchup links that drive winner propagation
 */

package bracket

import (
	"fmt"
	"time"

	"bracket-pool/api/shared"
)

// RegionOrder fixes the left-to-right layout of the bracket. South and West
// share the first semifinal; East and Midwest share the second.
var RegionOrder = []shared.Region{
	shared.RegionSouth,
	shared.RegionWest,
	shared.RegionEast,
	shared.RegionMidwest,
}

// seedPairings is the standard first round order within a region. Index i
// feeds matchup i of the region block.
var seedPairings = [8][2]int{
	{1, 16}, {8, 9}, {5, 12}, {4, 13}, {6, 11}, {3, 14}, {7, 10}, {2, 15},
}

// matchupsInRound is the per-round matchup count for a 64-team field.
var matchupsInRound = map[int]int{1: 32, 2: 16, 3: 8, 4: 4, 5: 2, 6: 1}

// roundFirstID gives each round a contiguous id block so ids stay stable and
// the round is recoverable from the id alone when debugging.
var roundFirstID = map[int]int{1: 1, 2: 33, 3: 49, 4: 57, 5: 61, 6: 63}

// NewTournament seeds a fresh TournamentState from the per-region fields.
// Each region must supply exactly 16 teams seeded 1..16. Round one matchups
// carry their teams; later rounds are placeholders filled by propagation.
func NewTournament(year int, fields map[shared.Region][]shared.Team) (*shared.TournamentState, error) {
	for _, region := range RegionOrder {
		teams, ok := fields[region]
		if !ok || len(teams) != 16 {
			return nil, &shared.ValidationError{
				Message: fmt.Sprintf("region %s requires exactly 16 teams, got %d", region, len(teams)),
			}
		}
	}

	state := &shared.TournamentState{
		Year:            year,
		Results:         make(map[int][]shared.Matchup, 6),
		Teams:           make(map[string]shared.TeamRecord, 64),
		CompletedRounds: make(map[int]bool),
		ScoringConfig:   shared.DefaultScoringConfig(),
		LastUpdated:     time.Now().UTC(),
	}

	for round := 1; round <= shared.Championship; round++ {
		count := matchupsInRound[round]
		matchups := make([]shared.Matchup, 0, count)
		for pos := 0; pos < count; pos++ {
			m := shared.Matchup{
				ID:       roundFirstID[round] + pos,
				Round:    round,
				Position: pos,
			}
			if round < shared.FinalFour {
				m.Region = RegionOrder[pos/(count/4)]
			} else {
				m.Region = shared.RegionFinalFour
			}
			if round < shared.Championship {
				next := roundFirstID[round+1] + pos/2
				m.NextMatchupID = &next
			}
			matchups = append(matchups, m)
		}
		state.Results[round] = matchups
	}

	// Fill round one with the seeded field.
	for regionIdx, region := range RegionOrder {
		bySeed := make(map[int]shared.Team, 16)
		for _, team := range fields[region] {
			if team.Seed < 1 || team.Seed > 16 {
				return nil, &shared.ValidationError{
					Message: fmt.Sprintf("team %q has invalid seed %d", team.Name, team.Seed),
				}
			}
			team.Region = region
			if _, dup := bySeed[team.Seed]; dup {
				return nil, &shared.ValidationError{
					Message: fmt.Sprintf("region %s has duplicate seed %d", region, team.Seed),
				}
			}
			bySeed[team.Seed] = team
			state.Teams[team.Name] = shared.TeamRecord{Seed: team.Seed, Region: region}
		}
		for i, pair := range seedPairings {
			idx := regionIdx*8 + i
			a := bySeed[pair[0]]
			b := bySeed[pair[1]]
			state.Results[1][idx].TeamA = &a
			state.Results[1][idx].TeamB = &b
		}
	}

	rebuildGames(state)
	return state, nil
}

// rebuildGames regenerates the flattened games view from the per-round map.
func rebuildGames(state *shared.TournamentState) {
	state.Games = state.Games[:0]
	for round := 1; round <= shared.Championship; round++ {
		state.Games = append(state.Games, state.Results[round]...)
	}
}
