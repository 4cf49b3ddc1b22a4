package model

import "time"

// FinancialFacts is the small set of declared figures the engine cannot
// derive from records: balances and the restricted/unrestricted split.
// Owned by finance configuration, read-only to the engine.
type FinancialFacts struct {
	CurrentBalance    int64 `json:"current_balance" db:"current_balance"` // minor units
	RestrictedFunds   int64 `json:"restricted_funds" db:"restricted_funds"`
	UnrestrictedFunds int64 `json:"unrestricted_funds" db:"unrestricted_funds"`
}

// Grant is a declared grant with an expiry date
type Grant struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	ProjectCode string    `json:"project_code" db:"project_code"`
	Amount      int64     `json:"amount" db:"amount"`
	ExpiresAt   time.Time `json:"expires_at" db:"expires_at"`
}

// CliffSeverity buckets a grant expiry by urgency
type CliffSeverity string

// Cliff severity buckets
const (
	CliffOverdue  CliffSeverity = "overdue"
	CliffCritical CliffSeverity = "critical"
	CliffWarning  CliffSeverity = "warning"
	CliffHealthy  CliffSeverity = "healthy"
)

// GrantCliff is a grant annotated with urgency relative to an as-of date.
// DaysRemaining and Severity are computed at query time, never stored.
type GrantCliff struct {
	Name          string        `json:"name"`
	ProjectCode   string        `json:"project_code"`
	Amount        int64         `json:"amount"`
	ExpiresAt     time.Time     `json:"expires_at"`
	DaysRemaining int           `json:"days_remaining"`
	Severity      CliffSeverity `json:"severity"`
}

// RevenueStream is a configured revenue line with a monthly target
type RevenueStream struct {
	ID            string `json:"id" db:"id" validate:"required"`
	Name          string `json:"name" db:"name" validate:"required"`
	Code          string `json:"code" db:"code" validate:"required"`
	Category      string `json:"category" db:"category"`
	TargetMonthly int64  `json:"target_monthly" db:"target_monthly" validate:"gte=0"` // minor units
}

// Scenario is a named set of growth assumptions. DefaultGrowth applies to
// every stream that has no override in Assumptions (keyed by stream code).
type Scenario struct {
	ID            string    `json:"id" db:"id" validate:"required"`
	Name          string    `json:"name" db:"name" validate:"required"`
	Description   string    `json:"description" db:"description"`
	DefaultGrowth float64   `json:"default_growth" db:"default_growth" validate:"gte=-1,lte=10"`
	Assumptions   GrowthMap `json:"assumptions" db:"assumptions"`
}

// GrowthFor resolves the growth rate for a stream. Total: a missing
// override falls back to the scenario default, never errors.
func (s *Scenario) GrowthFor(stream RevenueStream) float64 {
	if s.Assumptions != nil {
		if g, ok := s.Assumptions[stream.Code]; ok {
			return g
		}
	}
	return s.DefaultGrowth
}

// YearTotal is one row of a scenario projection
type YearTotal struct {
	Year     int              `json:"year"`
	ByStream map[string]int64 `json:"by_stream"`
	Total    int64            `json:"total"`
	// YoYGrowth is nil for the first projected year, which has no prior year
	YoYGrowth *float64 `json:"yoy_growth"`
}

// ScenarioProjection is the multi-year revenue table for one scenario
type ScenarioProjection struct {
	ScenarioID   string      `json:"scenario_id"`
	ScenarioName string      `json:"scenario_name"`
	Years        []YearTotal `json:"years"`
}

// ConcentrationFlag marks a single revenue source exceeding the
// concentration threshold, independent of the aggregate index
type ConcentrationFlag struct {
	Code  string  `json:"code"`
	Share float64 `json:"share"`
}

// RunwaySnapshot is the derived cash-position view. RunwayMonths holds the
// raw computed value; DisplayMonths is capped for presentation.
type RunwaySnapshot struct {
	RunwayMonths         float64             `json:"runway_months"`
	DisplayMonths        int                 `json:"display_months"`
	Healthy              bool                `json:"healthy"`   // net positive: no burn
	BurnRate             int64               `json:"burn_rate"` // avg monthly, minor units
	CurrentBalance       int64               `json:"current_balance"`
	DiversificationIndex int                 `json:"diversification_index"`
	NoRevenueData        bool                `json:"no_revenue_data"`
	ConcentrationFlags   []ConcentrationFlag `json:"concentration_flags,omitempty"`
	BurnTrend            []int64             `json:"burn_trend"` // oldest month first
}

// RDOffsetSummary reports R&D-eligible spend and the resulting tax offset
// for one fiscal year
type RDOffsetSummary struct {
	FiscalYear    int              `json:"fiscal_year"`
	EligibleSpend int64            `json:"eligible_spend"`
	Offset        int64            `json:"offset"`
	CoveragePct   int              `json:"coverage_pct"`
	ByProject     map[string]int64 `json:"by_project"`
}
