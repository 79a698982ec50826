/* stats.go
 * Contains the statistics stage: per-bracket aggregates, podium contenders,
 * championship pick distributions, common bracket outcomes and rare correct
 * picks, all derived from the analyzer output and the bracket submissions
 */

package analysis

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"bracket-pool/api/shared"
)

// percentage guards the divide so partial (cancelled) runs still report.
func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}

func placePercentagesFor(st *BracketStats, processed int) PlacePercentages {
	return PlacePercentages{
		First:  percentage(st.Places[0], processed),
		Second: percentage(st.Places[1], processed),
		Third:  percentage(st.Places[2], processed),
		Podium: percentage(st.Places[0]+st.Places[1]+st.Places[2], processed),
	}
}

func buildBracketResults(brackets []*shared.Bracket, currentScores []int, result *Result) map[string]BracketResult {
	results := make(map[string]BracketResult, len(brackets))
	for i, b := range brackets {
		st := &result.Stats[i]
		avg := 0.0
		if result.ProcessedOutcomes > 0 {
			avg = float64(st.SumScore) / float64(result.ProcessedOutcomes)
		}
		results[b.ID] = BracketResult{
			ParticipantName:  b.ParticipantName,
			EntryNumber:      b.EntryNumber,
			CurrentScore:     currentScores[i],
			MinScore:         st.MinScore,
			MaxScore:         st.MaxScore,
			AvgScore:         avg,
			WinPercentage:    percentage(st.Wins, result.ProcessedOutcomes),
			PlacePercentages: placePercentagesFor(st, result.ProcessedOutcomes),
			MinPlace:         st.MinPlace,
			MaxPlace:         st.MaxPlace,
		}
	}
	return results
}

// podiumContenders lists every bracket with a non-zero podium chance, best
// chance first, participant name as the deterministic tie breaker.
func podiumContenders(brackets []*shared.Bracket, currentScores []int, result *Result) []PodiumContender {
	contenders := make([]PodiumContender, 0, len(brackets))
	for i, b := range brackets {
		st := &result.Stats[i]
		places := placePercentagesFor(st, result.ProcessedOutcomes)
		if places.Podium <= 0 {
			continue
		}
		contenders = append(contenders, PodiumContender{
			ID:               b.ID,
			ParticipantName:  b.ParticipantName,
			EntryNumber:      b.EntryNumber,
			CurrentScore:     currentScores[i],
			PlacePercentages: places,
			MinPlace:         st.MinPlace,
			MaxPlace:         st.MaxPlace,
		})
	}
	sort.Slice(contenders, func(a, b int) bool {
		if contenders[a].PlacePercentages.Podium != contenders[b].PlacePercentages.Podium {
			return contenders[a].PlacePercentages.Podium > contenders[b].PlacePercentages.Podium
		}
		return contenders[a].ParticipantName < contenders[b].ParticipantName
	})
	return contenders
}

func chanceCounts(result *Result) (noPodium int, winChance int) {
	for i := range result.Stats {
		st := &result.Stats[i]
		if st.Places[0]+st.Places[1]+st.Places[2] == 0 {
			noPodium++
		}
		if st.Wins > 0 {
			winChance++
		}
	}
	return noPodium, winChance
}

// championshipPicks histograms the round 6 winner predictions.
func championshipPicks(brackets []*shared.Bracket) []ChampionshipPick {
	counts := make(map[string]int)
	for _, b := range brackets {
		for _, pick := range b.Picks[shared.Championship] {
			if pick.Winner != nil {
				counts[pick.Winner.Label()]++
			}
		}
	}
	picks := make([]ChampionshipPick, 0, len(counts))
	for team, count := range counts {
		picks = append(picks, ChampionshipPick{
			Team:       team,
			Count:      count,
			Percentage: percentage(count, len(brackets)),
		})
	}
	sort.Slice(picks, func(a, b int) bool {
		if picks[a].Count != picks[b].Count {
			return picks[a].Count > picks[b].Count
		}
		return picks[a].Team < picks[b].Team
	})
	return picks
}

// commonOutcomes surfaces the most popular predictions: top ten Sweet 16
// picks, predicted Final Four quartets and predicted championship pairings.
func commonOutcomes(brackets []*shared.Bracket) BracketOutcomes {
	sweet16Counts := make(map[string]*Sweet16Pick)
	finalFourCounts := make(map[string]*TeamSetCount)
	championshipCounts := make(map[string]*TeamSetCount)

	for _, b := range brackets {
		for _, pick := range b.Picks[shared.Sweet16] {
			if pick.Winner == nil {
				continue
			}
			mapKey := strconv.Itoa(pick.ID) + ":" + shared.NormalizeName(pick.Winner.Name)
			entry, ok := sweet16Counts[mapKey]
			if !ok {
				entry = &Sweet16Pick{MatchupID: pick.ID, Winner: pick.Winner.Name}
				sweet16Counts[mapKey] = entry
			}
			entry.Count++
		}

		if quartet := predictedWinners(b, shared.EliteEight); len(quartet) == 4 {
			key := strings.Join(quartet, " | ")
			entry, ok := finalFourCounts[key]
			if !ok {
				entry = &TeamSetCount{Teams: quartet}
				finalFourCounts[key] = entry
			}
			entry.Count++
		}
		if pair := predictedWinners(b, shared.FinalFour); len(pair) == 2 {
			key := strings.Join(pair, " | ")
			entry, ok := championshipCounts[key]
			if !ok {
				entry = &TeamSetCount{Teams: pair}
				championshipCounts[key] = entry
			}
			entry.Count++
		}
	}

	outcomes := BracketOutcomes{
		Sweet16:      make([]Sweet16Pick, 0, len(sweet16Counts)),
		FinalFour:    make([]TeamSetCount, 0, len(finalFourCounts)),
		Championship: make([]TeamSetCount, 0, len(championshipCounts)),
	}
	for _, entry := range sweet16Counts {
		entry.Percentage = percentage(entry.Count, len(brackets))
		outcomes.Sweet16 = append(outcomes.Sweet16, *entry)
	}
	sort.Slice(outcomes.Sweet16, func(a, b int) bool {
		if outcomes.Sweet16[a].Count != outcomes.Sweet16[b].Count {
			return outcomes.Sweet16[a].Count > outcomes.Sweet16[b].Count
		}
		if outcomes.Sweet16[a].MatchupID != outcomes.Sweet16[b].MatchupID {
			return outcomes.Sweet16[a].MatchupID < outcomes.Sweet16[b].MatchupID
		}
		return outcomes.Sweet16[a].Winner < outcomes.Sweet16[b].Winner
	})
	if len(outcomes.Sweet16) > 10 {
		outcomes.Sweet16 = outcomes.Sweet16[:10]
	}

	for _, entry := range finalFourCounts {
		entry.Percentage = percentage(entry.Count, len(brackets))
		outcomes.FinalFour = append(outcomes.FinalFour, *entry)
	}
	for _, entry := range championshipCounts {
		entry.Percentage = percentage(entry.Count, len(brackets))
		outcomes.Championship = append(outcomes.Championship, *entry)
	}
	sortTeamSets(outcomes.FinalFour)
	sortTeamSets(outcomes.Championship)
	return outcomes
}

func sortTeamSets(sets []TeamSetCount) {
	sort.Slice(sets, func(a, b int) bool {
		if sets[a].Count != sets[b].Count {
			return sets[a].Count > sets[b].Count
		}
		return strings.Join(sets[a].Teams, "|") < strings.Join(sets[b].Teams, "|")
	})
}

// predictedWinners returns the sorted names of the teams a bracket advances
// out of the given round.
func predictedWinners(b *shared.Bracket, round int) []string {
	var names []string
	for _, pick := range b.Picks[round] {
		if pick.Winner != nil {
			names = append(names, pick.Winner.Name)
		}
	}
	sort.Strings(names)
	return names
}

// entryLabel identifies a bracket's owner in user-facing lists. Participants
// with multiple entries get the entry number appended so their brackets stay
// distinguishable.
func entryLabel(b *shared.Bracket) string {
	if b.EntryNumber > 1 {
		return fmt.Sprintf("%s #%d", b.ParticipantName, b.EntryNumber)
	}
	return b.ParticipantName
}

// rareCorrectPicks flags completed games fewer than 10% of brackets called.
// The band is open on both ends: a pick at exactly 10% is not rare, and a
// pick nobody made cannot be correct for anyone.
func rareCorrectPicks(state *shared.TournamentState, brackets []*shared.Bracket) []RareCorrectPick {
	var rare []RareCorrectPick
	total := len(brackets)
	for round := 1; round <= shared.Championship; round++ {
		for _, m := range state.Results[round] {
			if m.Winner == nil {
				continue
			}
			var correct []string
			for _, b := range brackets {
				pick := b.PickByID(m.ID)
				if pick != nil && pick.Winner != nil && pick.Winner.Equals(*m.Winner) {
					correct = append(correct, entryLabel(b))
				}
			}
			pct := percentage(len(correct), total)
			if pct <= 0 || pct >= 10 {
				continue
			}
			var teams []string
			var loser string
			if m.TeamA != nil {
				teams = append(teams, m.TeamA.Name)
				if !m.TeamA.Equals(*m.Winner) {
					loser = m.TeamA.Name
				}
			}
			if m.TeamB != nil {
				teams = append(teams, m.TeamB.Name)
				if !m.TeamB.Equals(*m.Winner) {
					loser = m.TeamB.Name
				}
			}
			sort.Strings(correct)
			rare = append(rare, RareCorrectPick{
				MatchupID:           m.ID,
				Round:               round,
				Winner:              m.Winner.Label(),
				Loser:               loser,
				CorrectPicks:        len(correct),
				TotalPicks:          total,
				Percentage:          pct,
				Region:              m.Region,
				Teams:               teams,
				CorrectPicksByUsers: correct,
			})
		}
	}
	sort.Slice(rare, func(a, b int) bool {
		if rare[a].Percentage != rare[b].Percentage {
			return rare[a].Percentage < rare[b].Percentage
		}
		return rare[a].MatchupID < rare[b].MatchupID
	})
	return rare
}

// scoreDistribution summarizes current scores across the field.
func scoreDistribution(currentScores []int) ScoreDistribution {
	if len(currentScores) == 0 {
		return ScoreDistribution{}
	}
	scores := make([]float64, len(currentScores))
	min, max := currentScores[0], currentScores[0]
	for i, s := range currentScores {
		scores[i] = float64(s)
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	sort.Float64s(scores)
	return ScoreDistribution{
		Mean:   stat.Mean(scores, nil),
		Median: stat.Quantile(0.5, stat.Empirical, scores, nil),
		StdDev: stat.StdDev(scores, nil),
		Min:    min,
		Max:    max,
	}
}
