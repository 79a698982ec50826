/* api.go
 * This file contains the public methods for interacting with this package. For consistent results, functions should
 * only be called from this file, not the sub packages for logic and analysis
 */

package api

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"bracket-pool/api/analysis"
	"bracket-pool/api/logic"
	"bracket-pool/api/shared"
	"bracket-pool/api/store"
)

// API provides methods for interacting with the bracket pool data layer and
// the analysis core.
type API struct {
	Store store.Interface
}

// NewAPI creates a new API instance backed by the document store.
func NewAPI(ctx context.Context, dbName string, mongoURI string) (*API, error) {
	if dbName == "" {
		return nil, fmt.Errorf("dbName is required")
	}
	s, err := store.NewStore(ctx, dbName, mongoURI)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	return &API{Store: s}, nil
}

// ApplyResult records one game result against the stored tournament state.
// The winner name arrives from the score feed, so it is resolved onto the
// bracket's canonical team names before validation. Changed bracket scores
// are recalculated and written back in the same call.
func (a *API) ApplyResult(ctx context.Context, year int, matchupID int, winnerName string, score *shared.MatchScore, completed bool) error {
	state, err := a.Store.LoadTournamentState(ctx, year)
	if err != nil {
		return err
	}

	update := logic.ResultUpdate{Score: score, Completed: completed}
	if completed {
		winner, err := logic.ResolveTeam(winnerName, state)
		if err != nil {
			return err
		}
		update.Winner = winner
	}

	if err := logic.ApplyResult(state, matchupID, update); err != nil {
		return err
	}
	if err := a.Store.SaveTournamentState(ctx, state); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"year":      year,
		"matchupId": matchupID,
		"winner":    winnerName,
		"completed": completed,
	}).Info("result applied")

	if !completed {
		return nil
	}
	_, err = a.RecalculateAllScores(ctx, year)
	return err
}

// RecalculateAllScores rescans every locked bracket against the stored state
// and persists the scores that changed. Returns the changed set.
func (a *API) RecalculateAllScores(ctx context.Context, year int) ([]logic.ScoreChange, error) {
	state, err := a.Store.LoadTournamentState(ctx, year)
	if err != nil {
		return nil, err
	}
	brackets, err := a.Store.LoadLockedBrackets(ctx)
	if err != nil {
		return nil, err
	}

	changes := logic.RecalculateAllScores(state, brackets)
	for _, change := range changes {
		if err := a.Store.UpdateBracketScore(ctx, change.Bracket.ID, change.NewScore); err != nil {
			return nil, err
		}
		change.Bracket.Score = change.NewScore
	}
	if len(changes) > 0 {
		logrus.WithFields(logrus.Fields{
			"year":    year,
			"changed": len(changes),
		}).Info("bracket scores recalculated")
	}
	return changes, nil
}

// LockBrackets locks every submission at tournament start. Picks are
// immutable afterwards.
func (a *API) LockBrackets(ctx context.Context) (int64, error) {
	locked, err := a.Store.LockBrackets(ctx)
	if err != nil {
		return 0, err
	}
	if locked > 0 {
		logrus.WithField("locked", locked).Info("brackets locked")
	}
	return locked, nil
}

// AnalyzeOptions tunes one analysis run.
type AnalyzeOptions struct {
	// Persist stores the finished report and stamps its id.
	Persist bool
	// Workers caps the analyzer fan-out; zero sizes to the CPU count.
	Workers int
}

// Analyze runs the full possibilities analysis for a year: enumerate every
// residual outcome, score every bracket against each, and derive the
// statistics and path analyses. Before the Sweet 16 this returns a
// PreconditionError carrying the active team count. Cancelling the context
// yields a partial report flagged cancelled instead of an error.
func (a *API) Analyze(ctx context.Context, year int, opts AnalyzeOptions) (*analysis.AnalysisReport, error) {
	started := time.Now()

	state, err := a.Store.LoadTournamentState(ctx, year)
	if err != nil {
		return nil, err
	}
	allBrackets, err := a.Store.LoadLockedBrackets(ctx)
	if err != nil {
		return nil, err
	}
	brackets, warnings := filterMalformed(state, allBrackets)

	// Snapshot: analysis projections must never leak into the live state.
	snapshot := state.Clone()

	outcomes, err := analysis.Enumerate(snapshot)
	if err != nil {
		return nil, err
	}

	result, err := analysis.AnalyzeOutcomes(ctx, snapshot, brackets, outcomes, analysis.Options{Workers: opts.Workers})
	if err != nil {
		return nil, err
	}

	currentScores := make([]int, len(brackets))
	for i, b := range brackets {
		currentScores[i] = logic.ScoreBracket(b, snapshot)
	}

	report := analysis.Assemble(snapshot, brackets, currentScores, result, warnings)

	if opts.Persist && !report.Cancelled {
		id, err := a.Store.PersistAnalysis(ctx, year, report)
		if err != nil {
			return nil, err
		}
		report.ID = id
	}

	logrus.WithFields(logrus.Fields{
		"year":      year,
		"stage":     report.Stage,
		"outcomes":  report.TotalPossibleOutcomes,
		"brackets":  report.TotalBrackets,
		"cancelled": report.Cancelled,
		"duration":  time.Since(started).Round(time.Millisecond).String(),
	}).Info("analysis complete")
	return report, nil
}

// filterMalformed drops brackets the analyzer cannot score and records a
// warning for each; the rest of the field proceeds.
func filterMalformed(state *shared.TournamentState, brackets []*shared.Bracket) ([]*shared.Bracket, []string) {
	valid := make([]*shared.Bracket, 0, len(brackets))
	var warnings []string
	for _, b := range brackets {
		if err := validateBracket(state, b); err != nil {
			warnings = append(warnings, fmt.Sprintf("bracket %s (%s) dropped: %v", b.ID, b.ParticipantName, err))
			continue
		}
		valid = append(valid, b)
	}
	return valid, warnings
}

func validateBracket(state *shared.TournamentState, b *shared.Bracket) error {
	if len(b.Picks) == 0 {
		return fmt.Errorf("no picks submitted")
	}
	champPicks := b.Picks[shared.Championship]
	if len(champPicks) == 0 || champPicks[0].Winner == nil {
		return fmt.Errorf("missing championship pick")
	}
	if len(state.Teams) == 0 {
		return nil
	}
	known := make(map[string]bool, len(state.Teams))
	for name := range state.Teams {
		known[shared.NormalizeName(name)] = true
	}
	seen := make(map[string]bool)
	var invalid []string
	for _, picks := range b.Picks {
		for _, pick := range picks {
			if pick.Winner == nil {
				continue
			}
			key := shared.NormalizeName(pick.Winner.Name)
			if known[key] || seen[key] {
				continue
			}
			seen[key] = true
			invalid = append(invalid, pick.Winner.Name)
		}
	}
	sort.Strings(invalid)
	return logic.DescribeInvalidTeams(invalid)
}
