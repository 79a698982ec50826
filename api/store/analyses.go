/* analyses.go
 * Contains the methods for interacting with the analyses collection
 */

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"bracket-pool/api/analysis"
)

// analysisDoc wraps a persisted report with its lookup metadata.
type analysisDoc struct {
	ID        string                   `bson:"_id"`
	Year      int                      `bson:"year"`
	Stage     string                   `bson:"stage"`
	CreatedAt time.Time                `bson:"createdAt"`
	Report    *analysis.AnalysisReport `bson:"report"`
}

// PersistAnalysis stores a finished report and returns its generated id.
func (s *Store) PersistAnalysis(ctx context.Context, year int, report *analysis.AnalysisReport) (string, error) {
	doc := analysisDoc{
		ID:        uuid.NewString(),
		Year:      year,
		Stage:     report.Stage,
		CreatedAt: time.Now().UTC(),
		Report:    report,
	}
	if _, err := s.Collections.Analyses.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("failed to persist analysis: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"year":  year,
		"stage": report.Stage,
		"id":    doc.ID,
	}).Info("analysis report persisted")
	return doc.ID, nil
}
