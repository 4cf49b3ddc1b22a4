package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/act-collective/intelligence-service/internal/model"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// FinanceRepository handles database operations for declared financial
// facts: balances, grants, revenue streams and scenarios
type FinanceRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewFinanceRepository creates a new finance repository
func NewFinanceRepository(db *sqlx.DB, logger *zap.Logger) *FinanceRepository {
	return &FinanceRepository{
		db:     db,
		logger: logger,
	}
}

// Facts retrieves the declared balance figures. A missing row is a data
// gap, not an error: zero facts are returned so downstream metrics degrade
// to their defined defaults.
func (r *FinanceRepository) Facts(ctx context.Context) (*model.FinancialFacts, error) {
	query := `
		SELECT current_balance, restricted_funds, unrestricted_funds
		FROM finance_facts
		LIMIT 1
	`

	var facts model.FinancialFacts
	err := r.db.GetContext(ctx, &facts, query)
	if errors.Is(err, sql.ErrNoRows) {
		return &model.FinancialFacts{}, nil
	}
	if err != nil {
		r.logger.Error("Failed to get financial facts", zap.Error(err))
		return nil, err
	}
	return &facts, nil
}

// Grants retrieves the declared grants with expiry dates
func (r *FinanceRepository) Grants(ctx context.Context) ([]model.Grant, error) {
	query := `
		SELECT id, name, project_code, amount, expires_at
		FROM grants
		ORDER BY expires_at, name
	`

	var grants []model.Grant
	if err := r.db.SelectContext(ctx, &grants, query); err != nil {
		r.logger.Error("Failed to list grants", zap.Error(err))
		return nil, err
	}
	return grants, nil
}

// Streams retrieves the configured revenue streams
func (r *FinanceRepository) Streams(ctx context.Context) ([]model.RevenueStream, error) {
	query := `
		SELECT id, name, code, category, target_monthly
		FROM revenue_streams
		ORDER BY code
	`

	var streams []model.RevenueStream
	if err := r.db.SelectContext(ctx, &streams, query); err != nil {
		r.logger.Error("Failed to list revenue streams", zap.Error(err))
		return nil, err
	}
	return streams, nil
}

// Scenarios retrieves the named growth scenarios
func (r *FinanceRepository) Scenarios(ctx context.Context) ([]model.Scenario, error) {
	query := `
		SELECT id, name, description, default_growth, assumptions
		FROM scenarios
		ORDER BY name
	`

	var scenarios []model.Scenario
	if err := r.db.SelectContext(ctx, &scenarios, query); err != nil {
		r.logger.Error("Failed to list scenarios", zap.Error(err))
		return nil, err
	}
	return scenarios, nil
}
