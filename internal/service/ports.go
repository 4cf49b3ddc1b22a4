package service

import (
	"context"
	"time"

	"github.com/act-collective/intelligence-service/internal/model"
)

// RecordStore is the record-source collaborator surface the engine needs.
// The Postgres repository implements it; tests use in-memory fakes.
type RecordStore interface {
	List(ctx context.Context) ([]model.TaggableRecord, error)
	GetByID(ctx context.Context, id string) (*model.TaggableRecord, error)
	Upsert(ctx context.Context, records []model.TaggableRecord) (int, error)
	ApplyTag(ctx context.Context, id, projectCode string, taggedBy model.TaggedBy, taggedAt time.Time) (*model.TaggableRecord, error)
}

// ProjectRegistry yields the current project lexicon
type ProjectRegistry interface {
	List(ctx context.Context) ([]model.Project, error)
	GetByCode(ctx context.Context, code string) (*model.Project, error)
	ReplaceAll(ctx context.Context, projects []model.Project) error
}

// FinanceStore yields the declared financial facts: balances, grants,
// revenue streams and scenarios
type FinanceStore interface {
	Facts(ctx context.Context) (*model.FinancialFacts, error)
	Grants(ctx context.Context) ([]model.Grant, error)
	Streams(ctx context.Context) ([]model.RevenueStream, error)
	Scenarios(ctx context.Context) ([]model.Scenario, error)
}

// EventPublisher emits engine events for downstream consumers.
// Publishing is best-effort; failures are logged, never surfaced.
type EventPublisher interface {
	PublishTagApplied(ctx context.Context, record *model.TaggableRecord) error
	PublishRecordsSynced(ctx context.Context, source model.Source, count int) error
}
