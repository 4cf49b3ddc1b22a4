package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/act-collective/intelligence-service/internal/model"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// RecordRepository handles database operations for taggable records
type RecordRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewRecordRepository creates a new record repository
func NewRecordRepository(db *sqlx.DB, logger *zap.Logger) *RecordRepository {
	return &RecordRepository{
		db:     db,
		logger: logger,
	}
}

// List retrieves the full record snapshot in a stable order
func (r *RecordRepository) List(ctx context.Context) ([]model.TaggableRecord, error) {
	query := `
		SELECT id, source, external_id, counterparty_name, amount, date, project_code, tagged_by, tagged_at
		FROM records
		ORDER BY date, id
	`

	var records []model.TaggableRecord
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		r.logger.Error("Failed to list records", zap.Error(err))
		return nil, err
	}
	return records, nil
}

// GetByID retrieves a single record
func (r *RecordRepository) GetByID(ctx context.Context, id string) (*model.TaggableRecord, error) {
	query := `
		SELECT id, source, external_id, counterparty_name, amount, date, project_code, tagged_by, tagged_at
		FROM records
		WHERE id = $1
	`

	var record model.TaggableRecord
	err := r.db.GetContext(ctx, &record, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrRecordNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get record", zap.Error(err), zap.String("id", id))
		return nil, err
	}
	return &record, nil
}

// Upsert inserts or replaces records keyed by source + external id so a
// re-sync supersedes the previous copy. An incoming untagged record does
// not clobber a tag already committed locally.
func (r *RecordRepository) Upsert(ctx context.Context, records []model.TaggableRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO records (id, source, external_id, counterparty_name, amount, date, project_code, tagged_by, tagged_at)
		VALUES (:id, :source, :external_id, :counterparty_name, :amount, :date, :project_code, :tagged_by, :tagged_at)
		ON CONFLICT (id) DO UPDATE SET
			counterparty_name = EXCLUDED.counterparty_name,
			amount            = EXCLUDED.amount,
			date              = EXCLUDED.date,
			project_code      = CASE WHEN EXCLUDED.tagged_by <> 'none' THEN EXCLUDED.project_code ELSE records.project_code END,
			tagged_by         = CASE WHEN EXCLUDED.tagged_by <> 'none' THEN EXCLUDED.tagged_by ELSE records.tagged_by END,
			tagged_at         = CASE WHEN EXCLUDED.tagged_by <> 'none' THEN EXCLUDED.tagged_at ELSE records.tagged_at END
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	for i := range records {
		if _, err := tx.NamedExecContext(ctx, query, &records[i]); err != nil {
			r.logger.Error("Failed to upsert record",
				zap.Error(err),
				zap.String("id", records[i].ID))
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(records), nil
}

// ApplyTag commits a tag onto one record. The single-row UPDATE makes the
// write atomic at the record level; concurrent applies resolve to
// last-write-wins on tagged_at.
func (r *RecordRepository) ApplyTag(ctx context.Context, id, projectCode string, taggedBy model.TaggedBy, taggedAt time.Time) (*model.TaggableRecord, error) {
	query := `
		UPDATE records
		SET project_code = $2, tagged_by = $3, tagged_at = $4
		WHERE id = $1
		RETURNING id, source, external_id, counterparty_name, amount, date, project_code, tagged_by, tagged_at
	`

	var record model.TaggableRecord
	err := r.db.GetContext(ctx, &record, query, id, projectCode, taggedBy, taggedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrRecordNotFound
	}
	if err != nil {
		r.logger.Error("Failed to apply tag",
			zap.Error(err),
			zap.String("id", id),
			zap.String("project_code", projectCode))
		return nil, err
	}
	return &record, nil
}
