/* models.go
 * Contains the structs and helper functions for the tournament domain that are shared between sub packages:
 * teams, matchups, tournament state and submitted brackets
 */

package shared

import (
	"fmt"
	"strings"
	"time"
)

// Region is one of the four geographic partitions of the 64-team field.
// Rounds 5 and 6 have no region and are bucketed as FinalFour.
type Region string

const (
	RegionSouth     Region = "South"
	RegionWest      Region = "West"
	RegionEast      Region = "East"
	RegionMidwest   Region = "Midwest"
	RegionFinalFour Region = "FinalFour"
)

// Rounds run 1..6. Round 3 (Sweet 16) is the earliest round the analyzer accepts.
const (
	RoundOf64      = 1
	RoundOf32      = 2
	Sweet16        = 3
	EliteEight     = 4
	FinalFour      = 5
	Championship   = 6
	MinimumRound   = Sweet16
	MaxActiveTeams = 16
)

type Team struct {
	Name   string `bson:"name" json:"name"`
	Seed   int    `bson:"seed" json:"seed"`
	Region Region `bson:"region,omitempty" json:"region,omitempty"`
}

// Equals reports whether two teams refer to the same entrant. Name comparison
// is case-insensitive after trimming, and the seed must match as well; feed
// data occasionally reuses a school name with a different seed.
func (t Team) Equals(other Team) bool {
	return NormalizeName(t.Name) == NormalizeName(other.Name) && t.Seed == other.Seed
}

// Label renders a team as "Name (seed)" for report output.
func (t Team) Label() string {
	return fmt.Sprintf("%s (%d)", t.Name, t.Seed)
}

// NormalizeName lowercases and trims a team name for comparisons.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

type MatchScore struct {
	A int `bson:"a" json:"a"`
	B int `bson:"b" json:"b"`
}

// Matchup is a single game node in the bracket graph. NextMatchupID is nil for
// the championship; Position's parity selects the successor slot the winner
// feeds into (even = A, odd = B).
type Matchup struct {
	ID            int         `bson:"id" json:"id"`
	Round         int         `bson:"round" json:"round"`
	Region        Region      `bson:"region,omitempty" json:"region,omitempty"`
	TeamA         *Team       `bson:"teamA,omitempty" json:"teamA,omitempty"`
	TeamB         *Team       `bson:"teamB,omitempty" json:"teamB,omitempty"`
	Winner        *Team       `bson:"winner,omitempty" json:"winner,omitempty"`
	Completed     bool        `bson:"completed" json:"completed"`
	NextMatchupID *int        `bson:"nextMatchupId,omitempty" json:"nextMatchupId,omitempty"`
	Position      int         `bson:"position" json:"position"`
	Score         *MatchScore `bson:"score,omitempty" json:"score,omitempty"`
	PlayedAt      time.Time   `bson:"playedAt,omitempty" json:"playedAt,omitempty"`
}

// Live reports whether both teams are known but no winner has been recorded.
func (m *Matchup) Live() bool {
	return m.TeamA != nil && m.TeamB != nil && m.Winner == nil
}

// TeamRecord tracks a team's seed, region and elimination state inside
// TournamentState.Teams, keyed by team name.
type TeamRecord struct {
	Seed                 int    `bson:"seed" json:"seed"`
	Region               Region `bson:"region,omitempty" json:"region,omitempty"`
	Eliminated           bool   `bson:"eliminated" json:"eliminated"`
	EliminationRound     int    `bson:"eliminationRound,omitempty" json:"eliminationRound,omitempty"`
	EliminationMatchupID int    `bson:"eliminationMatchupId,omitempty" json:"eliminationMatchupId,omitempty"`
}

// TournamentState is the single source of truth for the real tournament.
// Results and Games describe the same matchups; Games is the flattened view
// kept for region inference and whole-bracket scans. Mutations go through the
// propagator only.
type TournamentState struct {
	Year            int                   `json:"year"`
	Results         map[int][]Matchup     `json:"results"`
	Games           []Matchup             `json:"games"`
	Teams           map[string]TeamRecord `json:"teams"`
	CompletedRounds map[int]bool          `json:"completedRounds"`
	ScoringConfig   map[int]int           `json:"scoringConfig,omitempty"`
	LastUpdated     time.Time             `json:"lastUpdated"`
}

// DefaultScoringConfig returns the round weights used when the tournament
// doesn't carry its own: points double each round.
func DefaultScoringConfig() map[int]int {
	return map[int]int{1: 1, 2: 2, 3: 4, 4: 8, 5: 16, 6: 32}
}

// RoundWeight returns the point value of a correct pick in the given round,
// honouring the state's ScoringConfig override when present.
func (s *TournamentState) RoundWeight(round int) int {
	if s.ScoringConfig != nil {
		if w, ok := s.ScoringConfig[round]; ok {
			return w
		}
	}
	return DefaultScoringConfig()[round]
}

// Clone returns a deep copy of the state. The analyzer snapshots the state at
// entry so concurrent analyses never share mutable data.
func (s *TournamentState) Clone() *TournamentState {
	c := &TournamentState{
		Year:        s.Year,
		LastUpdated: s.LastUpdated,
	}
	if s.Results != nil {
		c.Results = make(map[int][]Matchup, len(s.Results))
		for round, matchups := range s.Results {
			copied := make([]Matchup, len(matchups))
			for i := range matchups {
				copied[i] = cloneMatchup(matchups[i])
			}
			c.Results[round] = copied
		}
	}
	if s.Games != nil {
		c.Games = make([]Matchup, len(s.Games))
		for i := range s.Games {
			c.Games[i] = cloneMatchup(s.Games[i])
		}
	}
	if s.Teams != nil {
		c.Teams = make(map[string]TeamRecord, len(s.Teams))
		for name, rec := range s.Teams {
			c.Teams[name] = rec
		}
	}
	if s.CompletedRounds != nil {
		c.CompletedRounds = make(map[int]bool, len(s.CompletedRounds))
		for round, done := range s.CompletedRounds {
			c.CompletedRounds[round] = done
		}
	}
	if s.ScoringConfig != nil {
		c.ScoringConfig = make(map[int]int, len(s.ScoringConfig))
		for round, weight := range s.ScoringConfig {
			c.ScoringConfig[round] = weight
		}
	}
	return c
}

func cloneMatchup(m Matchup) Matchup {
	copied := m
	copied.TeamA = cloneTeam(m.TeamA)
	copied.TeamB = cloneTeam(m.TeamB)
	copied.Winner = cloneTeam(m.Winner)
	if m.NextMatchupID != nil {
		next := *m.NextMatchupID
		copied.NextMatchupID = &next
	}
	if m.Score != nil {
		score := *m.Score
		copied.Score = &score
	}
	return copied
}

func cloneTeam(t *Team) *Team {
	if t == nil {
		return nil
	}
	copied := *t
	return &copied
}

// MatchupPick mirrors a Matchup inside a submitted bracket; Winner holds the
// participant's prediction rather than a real result.
type MatchupPick struct {
	ID     int    `bson:"id" json:"id"`
	Round  int    `bson:"round" json:"round"`
	Region Region `bson:"region,omitempty" json:"region,omitempty"`
	TeamA  *Team  `bson:"teamA,omitempty" json:"teamA,omitempty"`
	TeamB  *Team  `bson:"teamB,omitempty" json:"teamB,omitempty"`
	Winner *Team  `bson:"winner,omitempty" json:"winner,omitempty"`
}

// Bracket is a participant's submission: a complete prediction tree. Picks are
// immutable once IsLocked is set; only Score mutates afterwards.
type Bracket struct {
	ID              string                `json:"id"`
	ParticipantName string                `json:"participantName"`
	EntryNumber     int                   `json:"entryNumber"`
	UserEmail       string                `json:"userEmail,omitempty"`
	Picks           map[int][]MatchupPick `json:"picks"`
	IsLocked        bool                  `json:"isLocked"`
	Score           int                   `json:"score"`
	EditToken       string                `json:"-"`
}

// PickByID finds the bracket's pick for a matchup id, or nil when the bracket
// never submitted one. The scorer treats a missing pick as zero points.
func (b *Bracket) PickByID(id int) *MatchupPick {
	for round := range b.Picks {
		picks := b.Picks[round]
		for i := range picks {
			if picks[i].ID == id {
				return &picks[i]
			}
		}
	}
	return nil
}

// PickIndex builds a matchupId -> predicted winner index. Callers that score a
// bracket against many outcomes build this once instead of scanning Picks.
func (b *Bracket) PickIndex() map[int]*Team {
	index := make(map[int]*Team, 63)
	for _, picks := range b.Picks {
		for i := range picks {
			if picks[i].Winner != nil {
				index[picks[i].ID] = picks[i].Winner
			}
		}
	}
	return index
}

var roundNames = map[int]string{
	1: "First Round",
	2: "Second Round",
	3: "Sweet 16",
	4: "Elite Eight",
	5: "Final Four",
	6: "Championship",
}

// RoundName returns the display name for a round, e.g. 3 -> "Sweet 16".
func RoundName(round int) string {
	if name, ok := roundNames[round]; ok {
		return name
	}
	return "Unknown Round"
}

var stageNames = map[int]string{
	3: "sweet16",
	4: "elite8",
	5: "final4",
	6: "championship",
}

var stageRoundNames = map[int]string{
	3: "Sweet 16",
	4: "Elite 8",
	5: "Final Four",
	6: "Championship",
}

// StageName returns the report stage key for the current round.
func StageName(currentRound int) string {
	if name, ok := stageNames[currentRound]; ok {
		return name
	}
	return "unknown"
}

// StageRoundName returns the report's human readable round name for the
// current round. This differs from RoundName for round 4 ("Elite 8").
func StageRoundName(currentRound int) string {
	if name, ok := stageRoundNames[currentRound]; ok {
		return name
	}
	return RoundName(currentRound)
}
