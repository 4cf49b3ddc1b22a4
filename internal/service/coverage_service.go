package service

import (
	"context"
	"math"

	"github.com/act-collective/intelligence-service/internal/model"

	"go.uber.org/zap"
)

// CoverageService scores how aligned each record source is to the project
// taxonomy
type CoverageService struct {
	records RecordStore
	logger  *zap.Logger
}

// NewCoverageService creates a new coverage service
func NewCoverageService(records RecordStore, logger *zap.Logger) *CoverageService {
	return &CoverageService{
		records: records,
		logger:  logger,
	}
}

// ComputeCoverage recomputes the per-source and overall alignment scores
// from the current record snapshot
func (s *CoverageService) ComputeCoverage(ctx context.Context) (*model.CoverageReport, error) {
	records, err := s.records.List(ctx)
	if err != nil {
		s.logger.Error("Failed to load records for coverage", zap.Error(err))
		return nil, err
	}
	report := ComputeCoverage(records)
	return &report, nil
}

// ComputeCoverage computes per-source tagged percentages and the
// total-weighted overall score. Zero-total sources score 0 rather than
// dividing; an empty record set yields a valid all-zero report.
func ComputeCoverage(records []model.TaggableRecord) model.CoverageReport {
	type tally struct {
		total  int
		tagged int
	}
	bySource := make(map[model.Source]*tally, len(model.Sources))
	for _, src := range model.Sources {
		bySource[src] = &tally{}
	}
	for i := range records {
		t, ok := bySource[records[i].Source]
		if !ok {
			continue
		}
		t.total++
		if records[i].Tagged() {
			t.tagged++
		}
	}

	report := model.CoverageReport{Sources: make([]model.CoverageScore, 0, len(model.Sources))}
	weighted := 0.0
	totalAll := 0
	for _, src := range model.Sources {
		t := bySource[src]
		pct := 0
		if t.total > 0 {
			pct = int(math.Round(100 * float64(t.tagged) / float64(t.total)))
		}
		report.Sources = append(report.Sources, model.CoverageScore{
			Source: src,
			Total:  t.total,
			Tagged: t.tagged,
			Pct:    pct,
		})
		weighted += float64(pct) * float64(t.total)
		totalAll += t.total
	}
	if totalAll > 0 {
		report.OverallScore = int(math.Round(weighted / float64(totalAll)))
	}
	return report
}
