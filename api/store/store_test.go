/* store_test.go
 * Contains unit tests for the store methods, using the mongo driver's mock
 * deployment
 */

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"bracket-pool/api/analysis"
	"bracket-pool/api/shared"
)

func mockStore(mt *mtest.T) *Store {
	s := &Store{Client: mt.Client, Database: mt.DB}
	s.Collections.Tournaments = mt.Coll
	s.Collections.Brackets = mt.Coll
	s.Collections.Analyses = mt.Coll
	return s
}

// region LoadTournamentState tests

func TestLoadTournamentState_Success(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("successfully loads tournament state", func(mt *mtest.T) {
		s := mockStore(mt)

		doc := mtest.CreateCursorResponse(1, "test.tournaments", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: 2026},
			{Key: "games", Value: bson.A{
				bson.D{
					{Key: "id", Value: 1},
					{Key: "round", Value: 1},
					{Key: "position", Value: 0},
					{Key: "region", Value: "East"},
					{Key: "teamA", Value: bson.D{{Key: "name", Value: "Duke"}, {Key: "seed", Value: 1}}},
					{Key: "teamB", Value: bson.D{{Key: "name", Value: "Norfolk State"}, {Key: "seed", Value: 16}}},
				},
			}},
			{Key: "teams", Value: bson.D{
				{Key: "Duke", Value: bson.D{{Key: "seed", Value: 1}, {Key: "region", Value: "East"}}},
			}},
			{Key: "completedRounds", Value: bson.A{}},
			{Key: "lastUpdated", Value: time.Now()},
		})
		mt.AddMockResponses(doc)

		state, err := s.LoadTournamentState(context.Background(), 2026)
		require.NoError(t, err)
		assert.Equal(t, 2026, state.Year)
		require.Len(t, state.Results[1], 1)
		assert.Equal(t, "Duke", state.Results[1][0].TeamA.Name)
		assert.Equal(t, 1, state.Teams["Duke"].Seed)
	})
}

func TestLoadTournamentState_NotFound(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns NotFoundError when no tournament exists", func(mt *mtest.T) {
		s := mockStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.tournaments", mtest.FirstBatch))

		_, err := s.LoadTournamentState(context.Background(), 1999)
		var notFound *shared.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "tournament", notFound.Resource)
		assert.Equal(t, "1999", notFound.ID)
	})
}

// region SaveTournamentState tests

func TestSaveTournamentState_Success(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("upserts the tournament document", func(mt *mtest.T) {
		s := mockStore(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		state := &shared.TournamentState{
			Year:            2026,
			Results:         map[int][]shared.Matchup{},
			CompletedRounds: map[int]bool{},
		}
		assert.NoError(t, s.SaveTournamentState(context.Background(), state))
	})
}

// region LoadLockedBrackets tests

func TestLoadLockedBrackets_Success(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("fetches locked brackets and rebuilds pick rounds", func(mt *mtest.T) {
		s := mockStore(mt)

		first := mtest.CreateCursorResponse(1, "test.brackets", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "b1"},
			{Key: "participantName", Value: "Alice"},
			{Key: "entryNumber", Value: 1},
			{Key: "isLocked", Value: true},
			{Key: "score", Value: 10},
			{Key: "picks", Value: bson.A{
				bson.D{
					{Key: "id", Value: 63},
					{Key: "round", Value: 6},
					{Key: "winner", Value: bson.D{{Key: "name", Value: "Duke"}, {Key: "seed", Value: 1}}},
				},
			}},
		})
		end := mtest.CreateCursorResponse(0, "test.brackets", mtest.NextBatch)
		mt.AddMockResponses(first, end)

		brackets, err := s.LoadLockedBrackets(context.Background())
		require.NoError(t, err)
		require.Len(t, brackets, 1)
		assert.Equal(t, "Alice", brackets[0].ParticipantName)
		require.Len(t, brackets[0].Picks[6], 1)
		assert.Equal(t, "Duke", brackets[0].Picks[6][0].Winner.Name)
	})
}

// region CreateBracket tests

func TestCreateBracket_AssignsIDs(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("generates an id and edit token when absent", func(mt *mtest.T) {
		s := mockStore(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		b := &shared.Bracket{ParticipantName: "Alice", Picks: map[int][]shared.MatchupPick{}}
		require.NoError(t, s.CreateBracket(context.Background(), b))
		assert.NotEmpty(t, b.ID)
		assert.NotEmpty(t, b.EditToken)
	})
}

// region UpdateBracketScore tests

func TestUpdateBracketScore_Success(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("writes the recomputed score", func(mt *mtest.T) {
		s := mockStore(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		assert.NoError(t, s.UpdateBracketScore(context.Background(), "b1", 42))
	})
}

func TestUpdateBracketScore_NotFound(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns NotFoundError when nothing matches", func(mt *mtest.T) {
		s := mockStore(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := s.UpdateBracketScore(context.Background(), "missing", 42)
		var notFound *shared.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "bracket", notFound.Resource)
	})
}

// region LockBrackets tests

func TestLockBrackets(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("locks every unlocked bracket", func(mt *mtest.T) {
		s := mockStore(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 3},
			bson.E{Key: "nModified", Value: 3},
		))

		locked, err := s.LockBrackets(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(3), locked)
	})
}

// region PersistAnalysis tests

func TestPersistAnalysis(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("inserts the report and returns its id", func(mt *mtest.T) {
		s := mockStore(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		report := &analysis.AnalysisReport{Stage: "final4"}
		id, err := s.PersistAnalysis(context.Background(), 2026, report)
		require.NoError(t, err)
		assert.NotEmpty(t, id)
	})
}

func TestPersistAnalysis_DatabaseError(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("wraps insert failures", func(mt *mtest.T) {
		s := mockStore(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11000,
			Message: "database error",
		}))

		_, err := s.PersistAnalysis(context.Background(), 2026, &analysis.AnalysisReport{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to persist analysis")
	})
}
