/* store_interface.go
 * Contains the Store interface for dependency injection and testing
 */

package store

import (
	"context"

	"bracket-pool/api/analysis"
	"bracket-pool/api/shared"
)

// Interface defines the methods that Store implements.
// This allows for mocking in tests.
type Interface interface {
	LoadTournamentState(ctx context.Context, year int) (*shared.TournamentState, error)
	SaveTournamentState(ctx context.Context, state *shared.TournamentState) error
	LoadLockedBrackets(ctx context.Context) ([]*shared.Bracket, error)
	CreateBracket(ctx context.Context, bracket *shared.Bracket) error
	UpdateBracketScore(ctx context.Context, bracketID string, score int) error
	LockBrackets(ctx context.Context) (int64, error)
	PersistAnalysis(ctx context.Context, year int, report *analysis.AnalysisReport) (string, error)
	Disconnect(ctx context.Context) error
}

// Ensure Store implements Interface
var _ Interface = (*Store)(nil)
