/* paths.go
 * Contains the path analysis stage: per-team "if this team wins the
 * championship" conditionals and per-championship-matchup scenarios. Scenario
 * pairings are derived from the graph so two regions sharing a semifinal are
 * never offered as a championship matchup
 */

package analysis

import (
	"sort"

	"bracket-pool/api/bracket"
	"bracket-pool/api/shared"
)

// teamPaths computes, for every active team, how each bracket's podium chance
// shifts if that team wins the championship.
func teamPaths(state *shared.TournamentState, brackets []*shared.Bracket, result *Result) map[string]TeamPath {
	paths := make(map[string]TeamPath)
	for _, team := range bracket.ActiveTeams(state) {
		group, ok := result.ChampionGroups[shared.NormalizeName(team.Name)]
		if !ok || group.Outcomes == 0 {
			continue
		}
		changes := make([]PodiumChange, 0, len(brackets))
		for i, b := range brackets {
			st := &result.Stats[i]
			unconditional := percentage(st.Places[0]+st.Places[1]+st.Places[2], result.ProcessedOutcomes)
			conditional := percentage(group.PodiumCounts[i], group.Outcomes)
			changes = append(changes, PodiumChange{
				BracketID:          b.ID,
				ParticipantName:    b.ParticipantName,
				EntryNumber:        b.EntryNumber,
				PodiumChance:       unconditional,
				PodiumChanceIfWins: conditional,
				Change:             conditional - unconditional,
			})
		}
		sort.Slice(changes, func(a, b int) bool {
			if changes[a].Change != changes[b].Change {
				return changes[a].Change > changes[b].Change
			}
			return changes[a].ParticipantName < changes[b].ParticipantName
		})
		paths[team.Name] = TeamPath{
			Seed:       team.Seed,
			Region:     teamRegion(state, team),
			Cinderella: team.Seed >= 5,
			WinsChampionship: WinsChampionship{
				Outcomes:      group.Outcomes,
				PodiumChanges: changes,
			},
		}
	}
	return paths
}

func teamRegion(state *shared.TournamentState, team shared.Team) shared.Region {
	if team.Region != "" {
		return team.Region
	}
	if rec, ok := state.Teams[team.Name]; ok {
		return rec.Region
	}
	return ""
}

// championshipScenarios enumerates every legal championship pairing of the
// remaining Final Four teams and, for each winner, the five brackets with the
// best average finishing position over that scenario's outcomes. Runs only
// once the field is down to the Final Four.
func championshipScenarios(state *shared.TournamentState, brackets []*shared.Bracket, result *Result) []ChampionshipScenario {
	if bracket.DetermineCurrentRound(state) < shared.FinalFour {
		return nil
	}
	sides := bracket.SemifinalSides(state)
	active := bracket.ActiveTeams(state)

	var scenarios []ChampionshipScenario
	for i := 0; i < len(active); i++ {
		for j := i + 1; j < len(active); j++ {
			a, b := active[i], active[j]
			sideA, okA := sides[teamRegion(state, a)]
			sideB, okB := sides[teamRegion(state, b)]
			if !okA || !okB || sideA == sideB {
				// Same semifinal: these teams cannot meet in the championship.
				continue
			}
			group, ok := result.ScenarioGroups[PairKey(a, b)]
			if !ok || group.Outcomes == 0 {
				continue
			}
			scenario := ChampionshipScenario{
				Matchup: ScenarioMatchup{TeamA: group.TeamA.Label(), TeamB: group.TeamB.Label()},
			}
			for _, finalist := range []shared.Team{group.TeamA, group.TeamB} {
				winner, ok := group.PerWinner[shared.NormalizeName(finalist.Name)]
				if !ok || winner.Outcomes == 0 {
					continue
				}
				scenario.Outcomes = append(scenario.Outcomes, ScenarioOutcome{
					Winner:         finalist.Label(),
					BracketImpacts: topImpacts(brackets, winner, 5),
				})
			}
			scenarios = append(scenarios, scenario)
		}
	}
	sort.Slice(scenarios, func(a, b int) bool {
		if scenarios[a].Matchup.TeamA != scenarios[b].Matchup.TeamA {
			return scenarios[a].Matchup.TeamA < scenarios[b].Matchup.TeamA
		}
		return scenarios[a].Matchup.TeamB < scenarios[b].Matchup.TeamB
	})
	return scenarios
}

// topImpacts ranks brackets by average finishing position, best first.
func topImpacts(brackets []*shared.Bracket, winner *ScenarioWinner, limit int) []ScenarioImpact {
	impacts := make([]ScenarioImpact, 0, len(brackets))
	for i, b := range brackets {
		impacts = append(impacts, ScenarioImpact{
			BracketID:       b.ID,
			ParticipantName: b.ParticipantName,
			EntryNumber:     b.EntryNumber,
			AvgPlace:        float64(winner.PositionSums[i]) / float64(winner.Outcomes),
		})
	}
	sort.Slice(impacts, func(a, b int) bool {
		if impacts[a].AvgPlace != impacts[b].AvgPlace {
			return impacts[a].AvgPlace < impacts[b].AvgPlace
		}
		return impacts[a].ParticipantName < impacts[b].ParticipantName
	})
	if len(impacts) > limit {
		impacts = impacts[:limit]
	}
	return impacts
}
