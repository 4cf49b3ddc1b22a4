package kafka

import (
	"context"
	"time"

	"github.com/act-collective/intelligence-service/internal/model"
)

// TagAppliedEvent announces a committed project tag
type TagAppliedEvent struct {
	RecordID    string    `json:"record_id"`
	Source      string    `json:"source"`
	ProjectCode string    `json:"project_code"`
	TaggedBy    string    `json:"tagged_by"`
	TaggedAt    time.Time `json:"tagged_at"`
}

// RecordsSyncedEvent announces a completed record sync batch
type RecordsSyncedEvent struct {
	Source   string    `json:"source"`
	Count    int       `json:"count"`
	SyncedAt time.Time `json:"synced_at"`
}

// Events publishes engine events on the configured topics. Implements the
// engine's EventPublisher port.
type Events struct {
	producer  *Producer
	tagTopic  string
	syncTopic string
}

// NewEvents creates the event publisher
func NewEvents(producer *Producer, tagTopic, syncTopic string) *Events {
	return &Events{
		producer:  producer,
		tagTopic:  tagTopic,
		syncTopic: syncTopic,
	}
}

// PublishTagApplied emits a tag-applied event keyed by record id
func (e *Events) PublishTagApplied(ctx context.Context, record *model.TaggableRecord) error {
	event := TagAppliedEvent{
		RecordID:    record.ID,
		Source:      string(record.Source),
		ProjectCode: record.ProjectCode,
		TaggedBy:    string(record.TaggedBy),
	}
	if record.TaggedAt != nil {
		event.TaggedAt = *record.TaggedAt
	}
	return e.producer.Publish(ctx, e.tagTopic, Message{Key: record.ID, Value: event})
}

// PublishRecordsSynced emits a records-synced event keyed by source
func (e *Events) PublishRecordsSynced(ctx context.Context, source model.Source, count int) error {
	event := RecordsSyncedEvent{
		Source:   string(source),
		Count:    count,
		SyncedAt: time.Now().UTC(),
	}
	return e.producer.Publish(ctx, e.syncTopic, Message{Key: string(source), Value: event})
}
