package service

import (
	"fmt"
	"strings"

	"github.com/act-collective/intelligence-service/internal/model"
)

// RejectedRecord describes one raw record that failed normalization
type RejectedRecord struct {
	Index      int    `json:"index"`
	ExternalID string `json:"external_id"`
	Reason     string `json:"reason"`
}

// Normalize validates a raw synced record and shapes it into the internal
// TaggableRecord form. A malformed record is rejected whole, never
// partially applied.
func Normalize(raw model.RawRecord) (model.TaggableRecord, error) {
	src := model.Source(strings.ToLower(strings.TrimSpace(raw.Source)))
	if !src.Valid() {
		return model.TaggableRecord{}, fmt.Errorf("%w: unknown source %q", model.ErrMalformedRecord, raw.Source)
	}
	externalID := strings.TrimSpace(raw.ExternalID)
	if externalID == "" {
		return model.TaggableRecord{}, fmt.Errorf("%w: missing external id", model.ErrMalformedRecord)
	}
	if raw.Date.IsZero() {
		return model.TaggableRecord{}, fmt.Errorf("%w: missing date", model.ErrMalformedRecord)
	}

	rec := model.TaggableRecord{
		ID:               model.RecordID(src, externalID),
		Source:           src,
		ExternalID:       externalID,
		CounterpartyName: strings.Join(strings.Fields(raw.CounterpartyName), " "),
		Amount:           raw.Amount,
		Date:             raw.Date.UTC(),
		TaggedBy:         model.TaggedByNone,
	}

	if code := strings.TrimSpace(raw.ProjectCode); code != "" {
		rec.ProjectCode = code
		if model.TaggedBy(raw.TaggedBy) == model.TaggedByManual {
			rec.TaggedBy = model.TaggedByManual
		} else {
			rec.TaggedBy = model.TaggedBySystem
		}
		if raw.TaggedAt != nil {
			t := raw.TaggedAt.UTC()
			rec.TaggedAt = &t
		} else {
			// Upstream did not say when the tag was applied; the record
			// date is the best available ordering signal.
			t := rec.Date
			rec.TaggedAt = &t
		}
	}
	return rec, nil
}
