package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/act-collective/intelligence-service/internal/model"

	"go.uber.org/zap"
)

// RDOffsetRate is the refundable R&D tax offset rate. Statutory; revisit
// when the legislated rate changes.
const RDOffsetRate = 0.435

const (
	// DefaultRunwayWindow is the trailing number of months burn is averaged over
	DefaultRunwayWindow = 3
	// RunwayDisplayCap is the presentation ceiling for runway months
	RunwayDisplayCap = 99
	// ConcentrationThreshold flags any single revenue source above this share
	ConcentrationThreshold = 0.30

	burnTrendMonths = 12
)

// MetricsService derives the forward-looking indicators: runway, burn
// trend, diversification, grant cliffs and the R&D offset
type MetricsService struct {
	records  RecordStore
	projects ProjectRegistry
	finance  FinanceStore
	logger   *zap.Logger
}

// NewMetricsService creates a new metrics service
func NewMetricsService(records RecordStore, projects ProjectRegistry, finance FinanceStore, logger *zap.Logger) *MetricsService {
	return &MetricsService{
		records:  records,
		projects: projects,
		finance:  finance,
		logger:   logger,
	}
}

// Runway computes the cash-position snapshot as of the given date
func (s *MetricsService) Runway(ctx context.Context, asOf time.Time, windowMonths int) (*model.RunwaySnapshot, error) {
	records, err := s.records.List(ctx)
	if err != nil {
		s.logger.Error("Failed to load records for runway", zap.Error(err))
		return nil, err
	}
	facts, err := s.finance.Facts(ctx)
	if err != nil {
		s.logger.Error("Failed to load financial facts", zap.Error(err))
		return nil, err
	}

	transactions := filterSource(records, model.SourceTransaction)
	snapshot := ComputeRunway(transactions, facts.CurrentBalance, asOf, windowMonths)
	return &snapshot, nil
}

// GrantCliffs lists declared grants ranked by expiry urgency
func (s *MetricsService) GrantCliffs(ctx context.Context, asOf time.Time) ([]model.GrantCliff, error) {
	grants, err := s.finance.Grants(ctx)
	if err != nil {
		s.logger.Error("Failed to load grants", zap.Error(err))
		return nil, err
	}
	return ComputeGrantCliffs(grants, asOf), nil
}

// RDOffset sums R&D-eligible spend for a fiscal year and derives the offset
func (s *MetricsService) RDOffset(ctx context.Context, fiscalYear int) (*model.RDOffsetSummary, error) {
	records, err := s.records.List(ctx)
	if err != nil {
		s.logger.Error("Failed to load records for R&D offset", zap.Error(err))
		return nil, err
	}
	projects, err := s.projects.List(ctx)
	if err != nil {
		s.logger.Error("Failed to load project lexicon", zap.Error(err))
		return nil, err
	}
	summary := ComputeRDOffset(records, projects, fiscalYear)
	return &summary, nil
}

// ComputeRunway derives burn rate, runway and revenue diversification from
// the transaction snapshot. Burn is the trailing-window average of monthly
// net outflow over all transactions, tagged or not. Net-positive months
// produce a "healthy" snapshot instead of a division by a non-positive
// burn; the raw runway value is preserved alongside the capped display one.
func ComputeRunway(transactions []model.TaggableRecord, balance int64, asOf time.Time, windowMonths int) model.RunwaySnapshot {
	if windowMonths <= 0 {
		windowMonths = DefaultRunwayWindow
	}

	netByMonth := make(map[int]int64)
	for i := range transactions {
		netByMonth[monthKey(transactions[i].Date)] += transactions[i].Amount
	}

	current := monthKey(asOf)
	trend := make([]int64, 0, burnTrendMonths)
	for m := current - burnTrendMonths + 1; m <= current; m++ {
		trend = append(trend, -netByMonth[m])
	}

	var windowBurn int64
	for m := current - windowMonths + 1; m <= current; m++ {
		windowBurn += -netByMonth[m]
	}
	avgBurn := float64(windowBurn) / float64(windowMonths)

	snapshot := model.RunwaySnapshot{
		BurnRate:       int64(math.Round(avgBurn)),
		CurrentBalance: balance,
		BurnTrend:      trend,
	}

	if avgBurn > 0 {
		snapshot.RunwayMonths = float64(balance) / avgBurn
		if snapshot.RunwayMonths < 0 {
			snapshot.RunwayMonths = 0
		}
		display := int(math.Floor(snapshot.RunwayMonths))
		if display > RunwayDisplayCap {
			display = RunwayDisplayCap
		}
		snapshot.DisplayMonths = display
	} else {
		snapshot.Healthy = true
		snapshot.DisplayMonths = RunwayDisplayCap
	}

	revenue := make(map[string]int64)
	for i := range transactions {
		if transactions[i].Amount <= 0 {
			continue
		}
		code := transactions[i].ProjectCode
		if code == "" {
			code = "untagged"
		}
		revenue[code] += transactions[i].Amount
	}
	index, flags, noData := Diversification(revenue)
	snapshot.DiversificationIndex = index
	snapshot.ConcentrationFlags = flags
	snapshot.NoRevenueData = noData

	return snapshot
}

// Diversification computes the complement of the Herfindahl-Hirschman
// index as a 0-100 score: 0 for a single source, approaching 100 as
// revenue spreads out. A zero total is undefined and reported as no data.
// Sources above the concentration threshold are flagged individually.
func Diversification(amounts map[string]int64) (int, []model.ConcentrationFlag, bool) {
	var total int64
	for _, amount := range amounts {
		total += amount
	}
	if total == 0 {
		return 0, nil, true
	}

	hhi := 0.0
	var flags []model.ConcentrationFlag
	for code, amount := range amounts {
		share := float64(amount) / float64(total)
		hhi += share * share
		if share > ConcentrationThreshold {
			flags = append(flags, model.ConcentrationFlag{Code: code, Share: share})
		}
	}
	sort.Slice(flags, func(i, j int) bool {
		if flags[i].Share != flags[j].Share {
			return flags[i].Share > flags[j].Share
		}
		return flags[i].Code < flags[j].Code
	})

	return int(math.Round(100 * (1 - hhi))), flags, false
}

// ComputeGrantCliffs annotates each declared grant with days remaining and
// a severity bucket relative to asOf, most urgent first. Boundary days (30,
// 90) fall into the lower-day bucket.
func ComputeGrantCliffs(grants []model.Grant, asOf time.Time) []model.GrantCliff {
	cliffs := make([]model.GrantCliff, 0, len(grants))
	for _, grant := range grants {
		days := int(math.Floor(grant.ExpiresAt.Sub(asOf).Hours() / 24))
		cliffs = append(cliffs, model.GrantCliff{
			Name:          grant.Name,
			ProjectCode:   grant.ProjectCode,
			Amount:        grant.Amount,
			ExpiresAt:     grant.ExpiresAt,
			DaysRemaining: days,
			Severity:      cliffSeverity(days),
		})
	}
	sort.Slice(cliffs, func(i, j int) bool {
		if cliffs[i].DaysRemaining != cliffs[j].DaysRemaining {
			return cliffs[i].DaysRemaining < cliffs[j].DaysRemaining
		}
		return cliffs[i].Name < cliffs[j].Name
	})
	return cliffs
}

func cliffSeverity(daysRemaining int) model.CliffSeverity {
	switch {
	case daysRemaining < 0:
		return model.CliffOverdue
	case daysRemaining <= 30:
		return model.CliffCritical
	case daysRemaining <= 90:
		return model.CliffWarning
	default:
		return model.CliffHealthy
	}
}

// ComputeRDOffset sums expense transactions tagged to R&D-eligible projects
// within the fiscal year (July-June, named by its ending year) and applies
// the statutory offset rate. Candidates are expense transactions that are
// either untagged or tagged R&D-eligible; the coverage ratio reports how
// many of them carry an eligible tag.
func ComputeRDOffset(records []model.TaggableRecord, projects []model.Project, fiscalYear int) model.RDOffsetSummary {
	eligibleCodes := make(map[string]bool)
	for i := range projects {
		if projects[i].RDEligible {
			eligibleCodes[projects[i].Code] = true
		}
	}

	start := time.Date(fiscalYear-1, time.July, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	summary := model.RDOffsetSummary{
		FiscalYear: fiscalYear,
		ByProject:  make(map[string]int64),
	}
	candidates := 0
	eligible := 0
	for i := range records {
		r := &records[i]
		if r.Source != model.SourceTransaction || r.Amount >= 0 {
			continue
		}
		if r.Date.Before(start) || !r.Date.Before(end) {
			continue
		}
		if r.Tagged() && !eligibleCodes[r.ProjectCode] {
			continue
		}
		candidates++
		if r.Tagged() {
			eligible++
			summary.EligibleSpend += -r.Amount
			summary.ByProject[r.ProjectCode] += -r.Amount
		}
	}

	summary.Offset = int64(math.Round(float64(summary.EligibleSpend) * RDOffsetRate))
	if candidates > 0 {
		summary.CoveragePct = int(math.Round(100 * float64(eligible) / float64(candidates)))
	}
	return summary
}

func filterSource(records []model.TaggableRecord, source model.Source) []model.TaggableRecord {
	out := make([]model.TaggableRecord, 0, len(records))
	for i := range records {
		if records[i].Source == source {
			out = append(out, records[i])
		}
	}
	return out
}

func monthKey(t time.Time) int {
	return t.UTC().Year()*12 + int(t.UTC().Month()) - 1
}
