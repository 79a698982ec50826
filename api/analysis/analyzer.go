/* analyzer.go
 * Contains the outcome analyzer: scores every bracket against every outcome,
 * assigns positions with Olympic tie semantics, and accumulates win, place
 * and score aggregates. The per-outcome loop fans out across a worker pool;
 * each worker owns local accumulators that are reduced at the end
 */

package analysis

import (
	"context"
	"runtime"
	"sort"
	"strings"
	"sync"

	"bracket-pool/api/bracket"
	"bracket-pool/api/shared"
)

// BracketStats accumulates one bracket's aggregates across outcomes.
type BracketStats struct {
	MinScore int
	MaxScore int
	SumScore int64
	Wins     int
	Places   [3]int
	MinPlace int
	MaxPlace int
}

// ChampionGroup accumulates per-bracket podium counts over the outcomes in
// which one team wins the championship.
type ChampionGroup struct {
	Team         shared.Team
	Outcomes     int
	PodiumCounts []int
}

// ScenarioWinner accumulates finishing positions over the outcomes of one
// championship matchup in which a particular finalist wins.
type ScenarioWinner struct {
	Winner       shared.Team
	Outcomes     int
	PositionSums []int64
}

// ScenarioGroup accumulates outcomes sharing the same championship pairing.
type ScenarioGroup struct {
	TeamA     shared.Team
	TeamB     shared.Team
	Outcomes  int
	PerWinner map[string]*ScenarioWinner
}

// Result is the analyzer's raw output, consumed by the statistics stage.
type Result struct {
	TotalOutcomes     int
	ProcessedOutcomes int
	Cancelled         bool
	Stats             []BracketStats
	ChampionGroups    map[string]*ChampionGroup
	ScenarioGroups    map[string]*ScenarioGroup
}

// Options tunes the analyzer run.
type Options struct {
	// Workers caps the fan-out; zero means one worker per CPU.
	Workers int
}

// PairKey builds the canonical key for an unordered championship pairing.
func PairKey(a, b shared.Team) string {
	names := []string{a.Name, b.Name}
	sort.Strings(names)
	return strings.Join(names, " | ")
}

// AnalyzeOutcomes scores every bracket against every outcome and reduces the
// per-outcome rankings into per-bracket aggregates. Cancellation is checked
// between outcomes; on cancellation the partial accumulators are returned
// with Cancelled set.
func AnalyzeOutcomes(ctx context.Context, state *shared.TournamentState, brackets []*shared.Bracket, outcomes []*Outcome, opts Options) (*Result, error) {
	champID, ok := ChampionshipMatchupID(state)
	if !ok {
		return nil, &shared.InternalError{Message: "tournament state has no championship matchup"}
	}
	currentRound := bracket.DetermineCurrentRound(state)
	trackScenarios := currentRound >= shared.FinalFour

	var weights [shared.Championship + 1]int
	for round := 1; round <= shared.Championship; round++ {
		weights[round] = state.RoundWeight(round)
	}

	picks := make([]map[int]*shared.Team, len(brackets))
	for i, b := range brackets {
		picks[i] = b.PickIndex()
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(outcomes) {
		workers = len(outcomes)
	}
	if workers < 1 {
		workers = 1
	}

	locals := make([]*Result, workers)
	chunk := (len(outcomes) + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > len(outcomes) {
			end = len(outcomes)
		}
		local := newLocalResult(len(brackets))
		locals[w] = local

		wg.Add(1)
		go func(slice []*Outcome) {
			defer wg.Done()
			scores := make([]int, len(brackets))
			order := make([]int, len(brackets))
			for _, outcome := range slice {
				if ctx.Err() != nil {
					local.Cancelled = true
					return
				}
				scoreOutcome(outcome, picks, weights[:], scores)
				rankOutcome(scores, order, local)
				accumulateGroups(state, outcome, champID, trackScenarios, order, scores, local)
				local.ProcessedOutcomes++
			}
		}(outcomes[start:end])
	}
	wg.Wait()

	merged := reduce(locals, len(brackets))
	merged.TotalOutcomes = len(outcomes)
	if merged.Cancelled && ctx.Err() == nil {
		// Shouldn't happen; workers only flag on context error.
		merged.Cancelled = false
	}
	return merged, nil
}

func newLocalResult(brackets int) *Result {
	stats := make([]BracketStats, brackets)
	for i := range stats {
		stats[i].MinScore = -1
		stats[i].MinPlace = -1
	}
	return &Result{
		Stats:          stats,
		ChampionGroups: make(map[string]*ChampionGroup),
		ScenarioGroups: make(map[string]*ScenarioGroup),
	}
}

// scoreOutcome computes every bracket's projected score for one outcome. The
// outcome's result map carries both completed games and assumed winners, so a
// single pass covers all six rounds from scratch.
func scoreOutcome(outcome *Outcome, picks []map[int]*shared.Team, weights []int, scores []int) {
	for i := range scores {
		scores[i] = 0
	}
	for id, res := range outcome.MatchupResults {
		weight := weights[res.Round]
		for i, pickIndex := range picks {
			if picked, ok := pickIndex[id]; ok && picked.Equals(res.Winner) {
				scores[i] += weight
			}
		}
	}
}

// rankOutcome sorts brackets by score and assigns Olympic positions: every
// bracket in a tied group takes the group's position and the next group's
// position advances by the group size, never by one. All of position 1 count
// as winners of the outcome.
func rankOutcome(scores []int, order []int, local *Result) {
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	position := 1
	for start := 0; start < len(order); {
		end := start
		for end < len(order) && scores[order[end]] == scores[order[start]] {
			end++
		}
		for _, idx := range order[start:end] {
			st := &local.Stats[idx]
			score := scores[idx]
			if st.MinScore < 0 || score < st.MinScore {
				st.MinScore = score
			}
			if score > st.MaxScore {
				st.MaxScore = score
			}
			st.SumScore += int64(score)
			if position == 1 {
				st.Wins++
			}
			if position <= 3 {
				st.Places[position-1]++
			}
			if st.MinPlace < 0 || position < st.MinPlace {
				st.MinPlace = position
			}
			if position > st.MaxPlace {
				st.MaxPlace = position
			}
		}
		position += end - start
		start = end
	}
}

// accumulateGroups folds the outcome into the champion-conditional and
// championship-scenario accumulators. Positions are recovered from the sort
// order, so tie-group assignment stays local to the outcome.
func accumulateGroups(state *shared.TournamentState, outcome *Outcome, champID int, trackScenarios bool, order []int, scores []int, local *Result) {
	res, ok := outcome.MatchupResults[champID]
	if !ok {
		return
	}
	champKey := shared.NormalizeName(res.Winner.Name)
	group, exists := local.ChampionGroups[champKey]
	if !exists {
		group = &ChampionGroup{Team: res.Winner, PodiumCounts: make([]int, len(local.Stats))}
		local.ChampionGroups[champKey] = group
	}
	group.Outcomes++

	var scenario *ScenarioWinner
	if trackScenarios {
		if teamA, teamB, ok := Finalists(state, outcome); ok {
			key := PairKey(teamA, teamB)
			sg, exists := local.ScenarioGroups[key]
			if !exists {
				first, second := teamA, teamB
				if first.Name > second.Name {
					first, second = second, first
				}
				sg = &ScenarioGroup{TeamA: first, TeamB: second, PerWinner: make(map[string]*ScenarioWinner)}
				local.ScenarioGroups[key] = sg
			}
			sg.Outcomes++
			scenario, exists = sg.PerWinner[champKey]
			if !exists {
				scenario = &ScenarioWinner{Winner: res.Winner, PositionSums: make([]int64, len(local.Stats))}
				sg.PerWinner[champKey] = scenario
			}
			scenario.Outcomes++
		}
	}

	position := 1
	for start := 0; start < len(order); {
		end := start
		for end < len(order) && scores[order[end]] == scores[order[start]] {
			end++
		}
		for _, idx := range order[start:end] {
			if position <= 3 {
				group.PodiumCounts[idx]++
			}
			if scenario != nil {
				scenario.PositionSums[idx] += int64(position)
			}
		}
		position += end - start
		start = end
	}
}

// reduce merges worker-local accumulators into one result.
func reduce(locals []*Result, brackets int) *Result {
	merged := newLocalResult(brackets)
	for _, local := range locals {
		if local == nil {
			continue
		}
		merged.ProcessedOutcomes += local.ProcessedOutcomes
		merged.Cancelled = merged.Cancelled || local.Cancelled
		for i := range local.Stats {
			src := &local.Stats[i]
			dst := &merged.Stats[i]
			if src.MinScore >= 0 && (dst.MinScore < 0 || src.MinScore < dst.MinScore) {
				dst.MinScore = src.MinScore
			}
			if src.MaxScore > dst.MaxScore {
				dst.MaxScore = src.MaxScore
			}
			dst.SumScore += src.SumScore
			dst.Wins += src.Wins
			for p := 0; p < 3; p++ {
				dst.Places[p] += src.Places[p]
			}
			if src.MinPlace >= 0 && (dst.MinPlace < 0 || src.MinPlace < dst.MinPlace) {
				dst.MinPlace = src.MinPlace
			}
			if src.MaxPlace > dst.MaxPlace {
				dst.MaxPlace = src.MaxPlace
			}
		}
		for key, group := range local.ChampionGroups {
			dst, exists := merged.ChampionGroups[key]
			if !exists {
				dst = &ChampionGroup{Team: group.Team, PodiumCounts: make([]int, brackets)}
				merged.ChampionGroups[key] = dst
			}
			dst.Outcomes += group.Outcomes
			for i, count := range group.PodiumCounts {
				dst.PodiumCounts[i] += count
			}
		}
		for key, group := range local.ScenarioGroups {
			dst, exists := merged.ScenarioGroups[key]
			if !exists {
				dst = &ScenarioGroup{TeamA: group.TeamA, TeamB: group.TeamB, PerWinner: make(map[string]*ScenarioWinner)}
				merged.ScenarioGroups[key] = dst
			}
			dst.Outcomes += group.Outcomes
			for winnerKey, winner := range group.PerWinner {
				dstWinner, exists := dst.PerWinner[winnerKey]
				if !exists {
					dstWinner = &ScenarioWinner{Winner: winner.Winner, PositionSums: make([]int64, brackets)}
					dst.PerWinner[winnerKey] = dstWinner
				}
				dstWinner.Outcomes += winner.Outcomes
				for i, sum := range winner.PositionSums {
					dstWinner.PositionSums[i] += sum
				}
			}
		}
	}
	// Brackets that never saw an outcome keep zeroed aggregates.
	for i := range merged.Stats {
		if merged.Stats[i].MinScore < 0 {
			merged.Stats[i].MinScore = 0
		}
		if merged.Stats[i].MinPlace < 0 {
			merged.Stats[i].MinPlace = 0
		}
	}
	return merged
}
