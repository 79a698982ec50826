/* report.go
 * Contains the AnalysisReport value and its assembler. Field names are stable
 * for downstream consumers; the report is a snapshot and never mutated after
 * assembly
 */

package analysis

import (
	"fmt"
	"time"

	"bracket-pool/api/bracket"
	"bracket-pool/api/shared"
)

// PlacePercentages holds the chance of finishing in each podium position.
type PlacePercentages struct {
	First  float64 `json:"1"`
	Second float64 `json:"2"`
	Third  float64 `json:"3"`
	Podium float64 `json:"podium"`
}

// PodiumContender is a bracket with a non-zero podium chance.
type PodiumContender struct {
	ID               string           `json:"id"`
	ParticipantName  string           `json:"participantName"`
	EntryNumber      int              `json:"entryNumber"`
	CurrentScore     int              `json:"currentScore"`
	PlacePercentages PlacePercentages `json:"placePercentages"`
	MinPlace         int              `json:"minPlace"`
	MaxPlace         int              `json:"maxPlace"`
}

// ChampionshipPick is one entry of the champion prediction histogram.
type ChampionshipPick struct {
	Team       string  `json:"team"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Sweet16Pick counts brackets sharing one Sweet 16 winner prediction.
type Sweet16Pick struct {
	MatchupID  int     `json:"matchupId"`
	Winner     string  `json:"winner"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// TeamSetCount counts brackets sharing a predicted team set (Final Four
// quartet or championship pairing), keyed by the sorted team names.
type TeamSetCount struct {
	Teams      []string `json:"teams"`
	Count      int      `json:"count"`
	Percentage float64  `json:"percentage"`
}

// BracketOutcomes groups the most common predictions across brackets.
type BracketOutcomes struct {
	Sweet16      []Sweet16Pick  `json:"sweet16"`
	FinalFour    []TeamSetCount `json:"finalFour"`
	Championship []TeamSetCount `json:"championship"`
}

// RareCorrectPick is a completed game that fewer than 10% of brackets called.
// Winner carries the display label, Loser the beaten team's raw name.
type RareCorrectPick struct {
	MatchupID           int           `json:"matchupId"`
	Round               int           `json:"round"`
	Winner              string        `json:"winner"`
	Loser               string        `json:"loser"`
	CorrectPicks        int           `json:"correctPicks"`
	TotalPicks          int           `json:"totalPicks"`
	Percentage          float64       `json:"percentage"`
	Region              shared.Region `json:"region,omitempty"`
	Teams               []string      `json:"teams"`
	CorrectPicksByUsers []string      `json:"correctPicksByUsers"`
}

// PodiumChange is the shift in one bracket's podium chance under a
// conditional ("this team wins the championship") versus unconditional odds.
type PodiumChange struct {
	BracketID          string  `json:"bracketId"`
	ParticipantName    string  `json:"participantName"`
	EntryNumber        int     `json:"entryNumber"`
	PodiumChance       float64 `json:"podiumChance"`
	PodiumChanceIfWins float64 `json:"podiumChanceIfWins"`
	Change             float64 `json:"change"`
}

// WinsChampionship holds the conditional impacts of one team taking the title.
type WinsChampionship struct {
	Outcomes      int            `json:"outcomes"`
	PodiumChanges []PodiumChange `json:"podiumChanges"`
}

// TeamPath is the per-team conditional analysis entry.
type TeamPath struct {
	Seed             int              `json:"seed"`
	Region           shared.Region    `json:"region,omitempty"`
	Cinderella       bool             `json:"cinderella,omitempty"`
	WinsChampionship WinsChampionship `json:"winsChampionship"`
}

// ScenarioImpact ranks a bracket inside a championship scenario by its
// average finishing position over the scenario's outcomes.
type ScenarioImpact struct {
	BracketID       string  `json:"bracketId"`
	ParticipantName string  `json:"participantName"`
	EntryNumber     int     `json:"entryNumber"`
	AvgPlace        float64 `json:"avgPlace"`
}

// ScenarioOutcome is one branch of a championship scenario: a particular
// finalist wins.
type ScenarioOutcome struct {
	Winner         string           `json:"winner"`
	BracketImpacts []ScenarioImpact `json:"bracketImpacts"`
}

// ScenarioMatchup names the two finalists of a scenario.
type ScenarioMatchup struct {
	TeamA string `json:"teamA"`
	TeamB string `json:"teamB"`
}

// ChampionshipScenario covers one legal championship pairing.
type ChampionshipScenario struct {
	Matchup  ScenarioMatchup   `json:"matchup"`
	Outcomes []ScenarioOutcome `json:"outcomes"`
}

// PathAnalysis bundles the conditional analyses.
type PathAnalysis struct {
	TeamPaths             map[string]TeamPath    `json:"teamPaths"`
	ChampionshipScenarios []ChampionshipScenario `json:"championshipScenarios"`
}

// BracketResult is the full per-bracket aggregate block.
type BracketResult struct {
	ParticipantName  string           `json:"participantName"`
	EntryNumber      int              `json:"entryNumber"`
	CurrentScore     int              `json:"currentScore"`
	MinScore         int              `json:"minScore"`
	MaxScore         int              `json:"maxScore"`
	AvgScore         float64          `json:"avgScore"`
	WinPercentage    float64          `json:"winPercentage"`
	PlacePercentages PlacePercentages `json:"placePercentages"`
	MinPlace         int              `json:"minPlace"`
	MaxPlace         int              `json:"maxPlace"`
}

// ScoreDistribution summarizes the spread of current scores across brackets.
type ScoreDistribution struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"stdDev"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
}

// AnalysisReport is the single immutable output value of an analysis run.
type AnalysisReport struct {
	ID                        string                   `json:"id,omitempty"`
	Timestamp                 string                   `json:"timestamp"`
	Stage                     string                   `json:"stage"`
	CurrentRound              int                      `json:"currentRound"`
	RoundName                 string                   `json:"roundName"`
	RoundProgress             string                   `json:"roundProgress"`
	TotalBrackets             int                      `json:"totalBrackets"`
	TotalPossibleOutcomes     int                      `json:"totalPossibleOutcomes"`
	Cancelled                 bool                     `json:"cancelled,omitempty"`
	Warnings                  []string                 `json:"warnings"`
	PodiumContenders          []PodiumContender        `json:"podiumContenders"`
	PlayersWithNoPodiumChance int                      `json:"playersWithNoPodiumChance"`
	PlayersWithWinChance      int                      `json:"playersWithWinChance"`
	ChampionshipPicks         []ChampionshipPick       `json:"championshipPicks"`
	BracketOutcomes           BracketOutcomes          `json:"bracketOutcomes"`
	RareCorrectPicks          []RareCorrectPick        `json:"rareCorrectPicks"`
	PathAnalysis              PathAnalysis             `json:"pathAnalysis"`
	BracketResults            map[string]BracketResult `json:"bracketResults"`
	ScoreDistribution         ScoreDistribution        `json:"scoreDistribution"`
}

// Assemble packages the analyzer output and derived statistics into the
// report value. currentScores is indexed like brackets and holds each
// bracket's score against the real (unprojected) state.
func Assemble(state *shared.TournamentState, brackets []*shared.Bracket, currentScores []int, result *Result, warnings []string) *AnalysisReport {
	currentRound := bracket.DetermineCurrentRound(state)
	done, total := bracket.RoundProgress(state, currentRound)

	report := &AnalysisReport{
		Timestamp:             time.Now().UTC().Format(time.RFC3339),
		Stage:                 shared.StageName(currentRound),
		CurrentRound:          currentRound,
		RoundName:             shared.StageRoundName(currentRound),
		RoundProgress:         fmt.Sprintf("%d/%d games complete", done, total),
		TotalBrackets:         len(brackets),
		TotalPossibleOutcomes: result.TotalOutcomes,
		Cancelled:             result.Cancelled,
		Warnings:              warnings,
	}
	if report.Warnings == nil {
		report.Warnings = []string{}
	}

	report.BracketResults = buildBracketResults(brackets, currentScores, result)
	report.PodiumContenders = podiumContenders(brackets, currentScores, result)
	report.PlayersWithNoPodiumChance, report.PlayersWithWinChance = chanceCounts(result)
	report.ChampionshipPicks = championshipPicks(brackets)
	report.BracketOutcomes = commonOutcomes(brackets)
	report.RareCorrectPicks = rareCorrectPicks(state, brackets)
	report.PathAnalysis = PathAnalysis{
		TeamPaths:             teamPaths(state, brackets, result),
		ChampionshipScenarios: championshipScenarios(state, brackets, result),
	}
	report.ScoreDistribution = scoreDistribution(currentScores)
	return report
}
