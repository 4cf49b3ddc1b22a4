package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/act-collective/intelligence-service/internal/model"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// ProjectRepository handles database operations for the project lexicon
type ProjectRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sqlx.DB, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{
		db:     db,
		logger: logger,
	}
}

// List retrieves the full lexicon ordered by code
func (r *ProjectRepository) List(ctx context.Context) ([]model.Project, error) {
	query := `
		SELECT code, display_name, aliases, rd_eligible
		FROM projects
		ORDER BY code
	`

	var projects []model.Project
	if err := r.db.SelectContext(ctx, &projects, query); err != nil {
		r.logger.Error("Failed to list projects", zap.Error(err))
		return nil, err
	}
	return projects, nil
}

// GetByCode retrieves one lexicon entry
func (r *ProjectRepository) GetByCode(ctx context.Context, code string) (*model.Project, error) {
	query := `
		SELECT code, display_name, aliases, rd_eligible
		FROM projects
		WHERE code = $1
	`

	var project model.Project
	err := r.db.GetContext(ctx, &project, query, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrUnknownProjectCode
	}
	if err != nil {
		r.logger.Error("Failed to get project", zap.Error(err), zap.String("code", code))
		return nil, err
	}
	return &project, nil
}

// ReplaceAll swaps in a freshly fetched lexicon in one transaction
func (r *ProjectRepository) ReplaceAll(ctx context.Context, projects []model.Project) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM projects`); err != nil {
		r.logger.Error("Failed to clear projects", zap.Error(err))
		return err
	}

	query := `
		INSERT INTO projects (code, display_name, aliases, rd_eligible)
		VALUES (:code, :display_name, :aliases, :rd_eligible)
	`
	for i := range projects {
		if _, err := tx.NamedExecContext(ctx, query, &projects[i]); err != nil {
			r.logger.Error("Failed to insert project",
				zap.Error(err),
				zap.String("code", projects[i].Code))
			return err
		}
	}

	return tx.Commit()
}
