/* test_mocks.go
 * Contains mock structures for testing the API package
 */

package api

import (
	"context"

	"bracket-pool/api/analysis"
	"bracket-pool/api/shared"
	"bracket-pool/api/store"
)

// MockStore implements store.Interface for testing without a database.
type MockStore struct {
	State    *shared.TournamentState
	Brackets []*shared.Bracket

	// Recorded calls
	SavedStates     []*shared.TournamentState
	UpdatedScores   map[string]int
	PersistedYears  []int
	LockedCalls     int
	DisconnectCalls int

	// Error injection for testing error paths
	LoadTournamentStateError error
	SaveTournamentStateError error
	LoadLockedBracketsError  error
	UpdateBracketScoreError  error
	PersistAnalysisError     error
}

func NewMockStore(state *shared.TournamentState, brackets []*shared.Bracket) *MockStore {
	return &MockStore{
		State:         state,
		Brackets:      brackets,
		UpdatedScores: make(map[string]int),
	}
}

func (m *MockStore) LoadTournamentState(ctx context.Context, year int) (*shared.TournamentState, error) {
	if m.LoadTournamentStateError != nil {
		return nil, m.LoadTournamentStateError
	}
	if m.State == nil || m.State.Year != year {
		return nil, &shared.NotFoundError{Resource: "tournament", ID: "unknown"}
	}
	return m.State, nil
}

func (m *MockStore) SaveTournamentState(ctx context.Context, state *shared.TournamentState) error {
	if m.SaveTournamentStateError != nil {
		return m.SaveTournamentStateError
	}
	m.SavedStates = append(m.SavedStates, state)
	return nil
}

func (m *MockStore) LoadLockedBrackets(ctx context.Context) ([]*shared.Bracket, error) {
	if m.LoadLockedBracketsError != nil {
		return nil, m.LoadLockedBracketsError
	}
	return m.Brackets, nil
}

func (m *MockStore) CreateBracket(ctx context.Context, bracket *shared.Bracket) error {
	m.Brackets = append(m.Brackets, bracket)
	return nil
}

func (m *MockStore) UpdateBracketScore(ctx context.Context, bracketID string, score int) error {
	if m.UpdateBracketScoreError != nil {
		return m.UpdateBracketScoreError
	}
	m.UpdatedScores[bracketID] = score
	return nil
}

func (m *MockStore) LockBrackets(ctx context.Context) (int64, error) {
	m.LockedCalls++
	var locked int64
	for _, b := range m.Brackets {
		if !b.IsLocked {
			b.IsLocked = true
			b.EditToken = ""
			locked++
		}
	}
	return locked, nil
}

func (m *MockStore) PersistAnalysis(ctx context.Context, year int, report *analysis.AnalysisReport) (string, error) {
	if m.PersistAnalysisError != nil {
		return "", m.PersistAnalysisError
	}
	m.PersistedYears = append(m.PersistedYears, year)
	return "mock-report-id", nil
}

func (m *MockStore) Disconnect(ctx context.Context) error {
	m.DisconnectCalls++
	return nil
}

// Ensure MockStore implements the interface
var _ store.Interface = (*MockStore)(nil)
