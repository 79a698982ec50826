/* store.go
 * Contains the store struct and NewStore function. The methods for this package were split into three files:
 * tournaments, brackets and analyses. Each of these files contain methods for interacting with that
 * part of the database
 */

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	Client      *mongo.Client
	Database    *mongo.Database
	Collections struct {
		Tournaments *mongo.Collection
		Brackets    *mongo.Collection
		Analyses    *mongo.Collection
	}
}

// NewStore initialises the document store: connects the client, selects the
// database and binds the collection handles.
func NewStore(ctx context.Context, dbName string, mongoURI string) (*Store, error) {
	if dbName == "" {
		return nil, fmt.Errorf("dbName cannot be empty")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}
	db := client.Database(dbName)

	s := &Store{
		Client:   client,
		Database: db,
	}
	s.Collections.Tournaments = db.Collection("tournaments")
	s.Collections.Brackets = db.Collection("brackets")
	s.Collections.Analyses = db.Collection("analyses")
	return s, nil
}

// Disconnect closes the underlying client.
func (s *Store) Disconnect(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}
