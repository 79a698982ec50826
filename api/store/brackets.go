/* brackets.go
 * Contains the methods for interacting with the brackets collection
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"bracket-pool/api/shared"
)

// LoadLockedBrackets returns every locked submission. Unlocked brackets are
// still editable and never enter scoring or analysis.
func (s *Store) LoadLockedBrackets(ctx context.Context) ([]*shared.Bracket, error) {
	cursor, err := s.Collections.Brackets.Find(ctx, bson.D{{Key: "isLocked", Value: true}})
	if err != nil {
		return nil, fmt.Errorf("error fetching brackets from db: %w", err)
	}
	defer cursor.Close(ctx)

	var brackets []*shared.Bracket
	for cursor.Next(ctx) {
		var doc bracketDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode bracket: %w", err)
		}
		brackets = append(brackets, doc.toBracket())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("bracket cursor failed: %w", err)
	}
	return brackets, nil
}

// CreateBracket inserts a new submission, assigning an id and edit token when
// the caller didn't provide them.
func (s *Store) CreateBracket(ctx context.Context, bracket *shared.Bracket) error {
	if bracket.ID == "" {
		bracket.ID = uuid.NewString()
	}
	if bracket.EditToken == "" {
		bracket.EditToken = uuid.NewString()
	}
	_, err := s.Collections.Brackets.InsertOne(ctx, toBracketDoc(bracket))
	if err != nil {
		return fmt.Errorf("failed to insert bracket: %w", err)
	}
	return nil
}

// UpdateBracketScore writes a recomputed score. Picks stay untouched; the
// score is the only field that mutates after lock.
func (s *Store) UpdateBracketScore(ctx context.Context, bracketID string, score int) error {
	filter := bson.D{{Key: "_id", Value: bracketID}}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "score", Value: score}}}}
	res, err := s.Collections.Brackets.UpdateOne(ctx, filter, update)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &shared.NotFoundError{Resource: "bracket", ID: bracketID}
		}
		return fmt.Errorf("failed to update bracket score: %w", err)
	}
	if res.MatchedCount == 0 {
		return &shared.NotFoundError{Resource: "bracket", ID: bracketID}
	}
	return nil
}

// LockBrackets locks every submission at tournament start and invalidates the
// edit tokens in the same write. Returns the number of brackets locked.
func (s *Store) LockBrackets(ctx context.Context) (int64, error) {
	filter := bson.D{{Key: "isLocked", Value: false}}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "isLocked", Value: true},
		{Key: "editToken", Value: ""},
	}}}
	res, err := s.Collections.Brackets.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to lock brackets: %w", err)
	}
	return res.ModifiedCount, nil
}
