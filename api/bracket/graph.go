/* graph.go
 * Contains the lookup and traversal helpers for the bracket graph: matchup
 * lookups, liveness, slot parity, active teams, current round and the layered
 * region inference used by detailed scoring
 */

package bracket

import (
	"sort"

	"bracket-pool/api/shared"
)

// Slot identifies which side of a successor matchup a winner feeds into.
type Slot string

const (
	SlotA Slot = "A"
	SlotB Slot = "B"
)

// SlotOfChild returns the successor slot a matchup's winner occupies,
// determined by the matchup's position parity.
func SlotOfChild(parent *shared.Matchup) Slot {
	if parent.Position%2 == 0 {
		return SlotA
	}
	return SlotB
}

// MatchupByID returns a pointer to the matchup inside state.Results, so the
// propagator can mutate it in place. The boolean reports whether it exists.
func MatchupByID(state *shared.TournamentState, id int) (*shared.Matchup, bool) {
	for round := range state.Results {
		matchups := state.Results[round]
		for i := range matchups {
			if matchups[i].ID == id {
				return &matchups[i], true
			}
		}
	}
	return nil, false
}

// GameByID returns a pointer into the flattened games view for the same id.
func GameByID(state *shared.TournamentState, id int) (*shared.Matchup, bool) {
	for i := range state.Games {
		if state.Games[i].ID == id {
			return &state.Games[i], true
		}
	}
	return nil, false
}

// MatchupsByRound returns the matchups recorded for a round. The returned
// slice is the state's own; callers must not mutate it outside the propagator.
func MatchupsByRound(state *shared.TournamentState, round int) []shared.Matchup {
	return state.Results[round]
}

// DetermineCurrentRound returns the round currently in play: the largest r
// whose predecessor round is complete. Analysis never considers anything
// before the Sweet 16, so that is the floor.
func DetermineCurrentRound(state *shared.TournamentState) int {
	current := shared.MinimumRound
	for r := 2; r <= shared.Championship; r++ {
		if state.CompletedRounds[r-1] && r > current {
			current = r
		}
	}
	return current
}

// RoundProgress counts completed and total games for a round.
func RoundProgress(state *shared.TournamentState, round int) (done int, total int) {
	matchups := state.Results[round]
	for i := range matchups {
		if matchups[i].Winner != nil {
			done++
		}
	}
	return done, len(matchups)
}

// ActiveTeams returns the de-duplicated set of teams still capable of
// advancing. The team records are authoritative: every team without an
// elimination flag is active, regardless of how far winner propagation has
// filled the later rounds. States without team records fall back to scanning
// matchups from the current round on.
func ActiveTeams(state *shared.TournamentState) []shared.Team {
	if len(state.Teams) > 0 {
		active := make([]shared.Team, 0, shared.MaxActiveTeams)
		for name, rec := range state.Teams {
			if rec.Eliminated {
				continue
			}
			active = append(active, shared.Team{Name: name, Seed: rec.Seed, Region: rec.Region})
		}
		sort.Slice(active, func(a, b int) bool {
			return active[a].Name < active[b].Name
		})
		return active
	}

	current := DetermineCurrentRound(state)
	seen := make(map[string]bool)
	var active []shared.Team
	for round := current; round <= shared.Championship; round++ {
		for _, m := range state.Results[round] {
			for _, team := range []*shared.Team{m.TeamA, m.TeamB} {
				if team == nil {
					continue
				}
				key := shared.NormalizeName(team.Name)
				if seen[key] {
					continue
				}
				seen[key] = true
				active = append(active, *team)
			}
		}
	}
	return active
}

// SeedBandRegion maps a legacy absolute seed (1..64) onto a region. Used only
// when no other region source exists.
func SeedBandRegion(seed int) shared.Region {
	switch {
	case seed >= 1 && seed <= 16:
		return shared.RegionSouth
	case seed <= 32:
		return shared.RegionEast
	case seed <= 48:
		return shared.RegionWest
	case seed <= 64:
		return shared.RegionMidwest
	}
	return ""
}

// InferRegion resolves the region bucket a matchup's points attribute to.
// Rounds 5 and 6 always bucket as FinalFour. For earlier rounds legacy data
// may lack the region on the matchup record, so the fallbacks are layered:
// the matchup's own region, the flattened games view, the team records, and
// finally the seed band convention. A matchup attributes to exactly one
// bucket so round and region subtotals stay reconcilable.
func InferRegion(state *shared.TournamentState, id int, round int, teams ...*shared.Team) shared.Region {
	if round >= shared.FinalFour {
		return shared.RegionFinalFour
	}
	if m, ok := MatchupByID(state, id); ok && m.Region != "" {
		return m.Region
	}
	if g, ok := GameByID(state, id); ok && g.Region != "" {
		return g.Region
	}
	for _, team := range teams {
		if team == nil {
			continue
		}
		if team.Region != "" {
			return team.Region
		}
		if rec, ok := state.Teams[team.Name]; ok && rec.Region != "" {
			return rec.Region
		}
	}
	for _, team := range teams {
		if team == nil {
			continue
		}
		if region := SeedBandRegion(team.Seed); region != "" {
			return region
		}
	}
	return ""
}

// SemifinalSides derives which Final Four matchup each region feeds, by
// following the Elite Eight matchups' next pointers. Regions that share a
// Final Four matchup meet in the semifinal and can never meet in the
// championship.
func SemifinalSides(state *shared.TournamentState) map[shared.Region]int {
	sides := make(map[shared.Region]int, 4)
	for _, m := range state.Results[shared.EliteEight] {
		if m.NextMatchupID == nil || m.Region == "" {
			continue
		}
		sides[m.Region] = *m.NextMatchupID
	}
	return sides
}
