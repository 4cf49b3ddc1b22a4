package service

import (
	"context"
	"math"

	"github.com/act-collective/intelligence-service/internal/model"
	"github.com/act-collective/intelligence-service/internal/validator"

	"go.uber.org/zap"
)

// DefaultHorizonYears is the projection length when the caller does not ask
// for a specific horizon
const DefaultHorizonYears = 10

// ForecastService projects multi-year revenue tables per named scenario
type ForecastService struct {
	finance FinanceStore
	logger  *zap.Logger
}

// NewForecastService creates a new forecast service
func NewForecastService(finance FinanceStore, logger *zap.Logger) *ForecastService {
	return &ForecastService{
		finance: finance,
		logger:  logger,
	}
}

// ProjectScenarios projects every configured scenario over the configured
// revenue streams. startYear only aligns the year labels for display; the
// projection itself has no clock dependence.
func (s *ForecastService) ProjectScenarios(ctx context.Context, horizonYears, startYear int) ([]model.ScenarioProjection, error) {
	scenarios, err := s.finance.Scenarios(ctx)
	if err != nil {
		s.logger.Error("Failed to load scenarios", zap.Error(err))
		return nil, err
	}
	streams, err := s.finance.Streams(ctx)
	if err != nil {
		s.logger.Error("Failed to load revenue streams", zap.Error(err))
		return nil, err
	}

	projections := make([]model.ScenarioProjection, 0, len(scenarios))
	for i := range scenarios {
		if err := validator.ValidateScenario(&scenarios[i], streams); err != nil {
			s.logger.Warn("Skipping invalid scenario",
				zap.String("scenario_id", scenarios[i].ID),
				zap.Error(err))
			continue
		}
		projections = append(projections, ProjectScenario(&scenarios[i], streams, horizonYears, startYear))
	}
	return projections, nil
}

// ProjectScenario compounds each stream's annualized target by its growth
// rate for every projected year. Pure and deterministic: identical inputs
// give identical tables. A stream with no override in the scenario's
// assumptions compounds at the scenario default rate. Year-over-year growth
// is nil for the first year, which has no prior year to compare against.
func ProjectScenario(scenario *model.Scenario, streams []model.RevenueStream, horizonYears, startYear int) model.ScenarioProjection {
	if horizonYears <= 0 {
		horizonYears = DefaultHorizonYears
	}

	projection := model.ScenarioProjection{
		ScenarioID:   scenario.ID,
		ScenarioName: scenario.Name,
		Years:        make([]model.YearTotal, 0, horizonYears),
	}

	var prevTotal int64
	for y := 0; y < horizonYears; y++ {
		row := model.YearTotal{
			Year:     startYear + y,
			ByStream: make(map[string]int64, len(streams)),
		}
		for i := range streams {
			stream := &streams[i]
			growth := scenario.GrowthFor(*stream)
			value := int64(math.Round(float64(stream.TargetMonthly) * 12 * math.Pow(1+growth, float64(y))))
			row.ByStream[stream.Code] = value
			row.Total += value
		}
		if y > 0 && prevTotal != 0 {
			yoy := float64(row.Total)/float64(prevTotal) - 1
			row.YoYGrowth = &yoy
		}
		prevTotal = row.Total
		projection.Years = append(projection.Years, row)
	}
	return projection
}
