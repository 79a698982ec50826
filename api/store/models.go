/* models.go
 * This file contains the document structs and conversion helpers for DB
 * objects. State is persisted with the flattened games view and rebuilt into
 * the per-round map on load, so round keys never appear as BSON map keys
 */

package store

import (
	"sort"
	"time"

	"bracket-pool/api/shared"
)

// tournamentDoc is the stored shape of a TournamentState.
type tournamentDoc struct {
	Year            int                          `bson:"_id"`
	Games           []shared.Matchup             `bson:"games"`
	Teams           map[string]shared.TeamRecord `bson:"teams"`
	CompletedRounds []int                        `bson:"completedRounds"`
	ScoringConfig   map[string]int               `bson:"scoringConfig,omitempty"`
	LastUpdated     time.Time                    `bson:"lastUpdated"`
}

func toTournamentDoc(state *shared.TournamentState) tournamentDoc {
	doc := tournamentDoc{
		Year:        state.Year,
		Teams:       state.Teams,
		LastUpdated: state.LastUpdated,
	}
	for round := 1; round <= shared.Championship; round++ {
		doc.Games = append(doc.Games, state.Results[round]...)
		if state.CompletedRounds[round] {
			doc.CompletedRounds = append(doc.CompletedRounds, round)
		}
	}
	if state.ScoringConfig != nil {
		doc.ScoringConfig = make(map[string]int, len(state.ScoringConfig))
		for round, weight := range state.ScoringConfig {
			doc.ScoringConfig[roundKey(round)] = weight
		}
	}
	return doc
}

func (doc tournamentDoc) toState() *shared.TournamentState {
	state := &shared.TournamentState{
		Year:            doc.Year,
		Results:         make(map[int][]shared.Matchup, 6),
		Games:           doc.Games,
		Teams:           doc.Teams,
		CompletedRounds: make(map[int]bool),
		LastUpdated:     doc.LastUpdated,
	}
	if state.Teams == nil {
		state.Teams = make(map[string]shared.TeamRecord)
	}
	for _, m := range doc.Games {
		state.Results[m.Round] = append(state.Results[m.Round], m)
	}
	for round := range state.Results {
		matchups := state.Results[round]
		sort.Slice(matchups, func(a, b int) bool {
			return matchups[a].Position < matchups[b].Position
		})
	}
	for _, round := range doc.CompletedRounds {
		state.CompletedRounds[round] = true
	}
	if doc.ScoringConfig != nil {
		state.ScoringConfig = make(map[int]int, len(doc.ScoringConfig))
		for key, weight := range doc.ScoringConfig {
			if round, ok := parseRoundKey(key); ok {
				state.ScoringConfig[round] = weight
			}
		}
	}
	return state
}

// bracketDoc is the stored shape of a submitted bracket; picks are flattened
// for the same round-key reason as the tournament games.
type bracketDoc struct {
	ID              string               `bson:"_id"`
	ParticipantName string               `bson:"participantName"`
	EntryNumber     int                  `bson:"entryNumber"`
	UserEmail       string               `bson:"userEmail,omitempty"`
	Picks           []shared.MatchupPick `bson:"picks"`
	IsLocked        bool                 `bson:"isLocked"`
	Score           int                  `bson:"score"`
	EditToken       string               `bson:"editToken,omitempty"`
}

func toBracketDoc(b *shared.Bracket) bracketDoc {
	doc := bracketDoc{
		ID:              b.ID,
		ParticipantName: b.ParticipantName,
		EntryNumber:     b.EntryNumber,
		UserEmail:       b.UserEmail,
		IsLocked:        b.IsLocked,
		Score:           b.Score,
		EditToken:       b.EditToken,
	}
	for round := 1; round <= shared.Championship; round++ {
		doc.Picks = append(doc.Picks, b.Picks[round]...)
	}
	return doc
}

func (doc bracketDoc) toBracket() *shared.Bracket {
	b := &shared.Bracket{
		ID:              doc.ID,
		ParticipantName: doc.ParticipantName,
		EntryNumber:     doc.EntryNumber,
		UserEmail:       doc.UserEmail,
		Picks:           make(map[int][]shared.MatchupPick, 6),
		IsLocked:        doc.IsLocked,
		Score:           doc.Score,
		EditToken:       doc.EditToken,
	}
	for _, pick := range doc.Picks {
		b.Picks[pick.Round] = append(b.Picks[pick.Round], pick)
	}
	return b
}

func roundKey(round int) string {
	return string(rune('0' + round))
}

func parseRoundKey(key string) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '6' {
		return 0, false
	}
	return int(key[0] - '0'), true
}
