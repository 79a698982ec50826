/* tournaments.go
 * Contains the methods for interacting with the tournaments collection
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bracket-pool/api/shared"
)

// LoadTournamentState fetches the tournament for a year and rebuilds the
// in-memory state from its stored document.
func (s *Store) LoadTournamentState(ctx context.Context, year int) (*shared.TournamentState, error) {
	var doc tournamentDoc
	err := s.Collections.Tournaments.FindOne(ctx, bson.D{{Key: "_id", Value: year}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &shared.NotFoundError{Resource: "tournament", ID: fmt.Sprint(year)}
		}
		return nil, fmt.Errorf("error fetching tournament from db: %w", err)
	}
	return doc.toState(), nil
}

// SaveTournamentState upserts the tournament document for its year.
func (s *Store) SaveTournamentState(ctx context.Context, state *shared.TournamentState) error {
	doc := toTournamentDoc(state)
	opts := options.Replace().SetUpsert(true)
	_, err := s.Collections.Tournaments.ReplaceOne(ctx, bson.D{{Key: "_id", Value: doc.Year}}, doc, opts)
	if err != nil {
		return fmt.Errorf("failed to save tournament state: %w", err)
	}
	return nil
}
