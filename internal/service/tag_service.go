package service

import (
	"context"
	"time"

	"github.com/act-collective/intelligence-service/internal/model"

	"go.uber.org/zap"
)

// TagService validates and commits project tags onto records. It is the
// engine's only mutation surface; everything else is a read-only transform.
type TagService struct {
	records  RecordStore
	projects ProjectRegistry
	events   EventPublisher
	logger   *zap.Logger
	now      func() time.Time
}

// NewTagService creates a new tag service
func NewTagService(records RecordStore, projects ProjectRegistry, events EventPublisher, logger *zap.Logger) *TagService {
	return &TagService{
		records:  records,
		projects: projects,
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
}

// ApplyTag commits a manual (or accepted-suggestion) tag onto a record.
// Idempotent: applying the same code twice leaves the same tagged state,
// with the most recent taggedAt winning. The update is atomic at the
// record level; writes to different records never contend.
func (s *TagService) ApplyTag(ctx context.Context, recordID, projectCode string) (*model.TaggableRecord, error) {
	project, err := s.projects.GetByCode(ctx, projectCode)
	if err != nil {
		s.logger.Warn("Rejected tag apply",
			zap.String("record_id", recordID),
			zap.String("project_code", projectCode),
			zap.Error(err))
		return nil, err
	}

	record, err := s.records.ApplyTag(ctx, recordID, project.Code, model.TaggedByManual, s.now().UTC())
	if err != nil {
		s.logger.Error("Failed to apply tag",
			zap.String("record_id", recordID),
			zap.String("project_code", project.Code),
			zap.Error(err))
		return nil, err
	}

	if s.events != nil {
		if err := s.events.PublishTagApplied(ctx, record); err != nil {
			// The committed tag is authoritative; the event is advisory.
			s.logger.Warn("Failed to publish tag-applied event",
				zap.String("record_id", record.ID),
				zap.Error(err))
		}
	}

	s.logger.Info("Applied tag",
		zap.String("record_id", record.ID),
		zap.String("project_code", record.ProjectCode))
	return record, nil
}

// SyncRecords normalizes a raw batch and upserts the accepted records,
// keyed by source + external id so re-syncs are idempotent. Malformed
// records are rejected individually and reported back.
func (s *TagService) SyncRecords(ctx context.Context, source model.Source, raws []model.RawRecord) (int, []RejectedRecord, error) {
	records := make([]model.TaggableRecord, 0, len(raws))
	var rejected []RejectedRecord
	for i, raw := range raws {
		rec, err := Normalize(raw)
		if err != nil {
			rejected = append(rejected, RejectedRecord{Index: i, ExternalID: raw.ExternalID, Reason: err.Error()})
			continue
		}
		if rec.Source != source {
			rejected = append(rejected, RejectedRecord{Index: i, ExternalID: raw.ExternalID, Reason: "record source does not match batch source"})
			continue
		}
		records = append(records, rec)
	}

	count, err := s.records.Upsert(ctx, records)
	if err != nil {
		s.logger.Error("Failed to upsert synced records",
			zap.String("source", string(source)),
			zap.Error(err))
		return 0, nil, err
	}

	if s.events != nil && count > 0 {
		if err := s.events.PublishRecordsSynced(ctx, source, count); err != nil {
			s.logger.Warn("Failed to publish records-synced event", zap.Error(err))
		}
	}

	s.logger.Info("Synced records",
		zap.String("source", string(source)),
		zap.Int("accepted", count),
		zap.Int("rejected", len(rejected)))
	return count, rejected, nil
}
