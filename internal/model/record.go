package model

import (
	"fmt"
	"time"
)

// Source identifies which upstream system a record came from
type Source string

// Record sources
const (
	SourceTransaction  Source = "transaction"
	SourceInvoice      Source = "invoice"
	SourceSubscription Source = "subscription"
	SourceOpportunity  Source = "opportunity"
)

// Sources lists all record sources in their canonical reporting order
var Sources = []Source{SourceTransaction, SourceInvoice, SourceSubscription, SourceOpportunity}

// Valid reports whether s is a known record source
func (s Source) Valid() bool {
	switch s {
	case SourceTransaction, SourceInvoice, SourceSubscription, SourceOpportunity:
		return true
	}
	return false
}

// TaggedBy indicates how a record's project tag was applied
type TaggedBy string

// Tag provenance values
const (
	TaggedBySystem TaggedBy = "system"
	TaggedByManual TaggedBy = "manual"
	TaggedByNone   TaggedBy = "none"
)

// TaggableRecord is the normalized shape shared by transactions, invoices,
// subscriptions and pipeline opportunities. Everything except the tag fields
// is immutable after normalization.
type TaggableRecord struct {
	ID               string     `json:"id" db:"id"`
	Source           Source     `json:"source" db:"source"`
	ExternalID       string     `json:"external_id" db:"external_id"`
	CounterpartyName string     `json:"counterparty_name" db:"counterparty_name"`
	Amount           int64      `json:"amount" db:"amount"` // signed, minor units
	Date             time.Time  `json:"date" db:"date"`
	ProjectCode      string     `json:"project_code,omitempty" db:"project_code"`
	TaggedBy         TaggedBy   `json:"tagged_by" db:"tagged_by"`
	TaggedAt         *time.Time `json:"tagged_at,omitempty" db:"tagged_at"`
}

// Tagged reports whether the record carries a committed project tag
func (r *TaggableRecord) Tagged() bool {
	return r.ProjectCode != "" && r.TaggedBy != TaggedByNone
}

// RawRecord is a record as delivered by a sync collaborator, before
// normalization. External IDs are stable so re-syncs are idempotent.
type RawRecord struct {
	ExternalID       string     `json:"external_id" binding:"required"`
	Source           string     `json:"source" binding:"required"`
	CounterpartyName string     `json:"counterparty_name"`
	Amount           int64      `json:"amount"`
	Date             time.Time  `json:"date"`
	ProjectCode      string     `json:"project_code"`
	TaggedBy         string     `json:"tagged_by"`
	TaggedAt         *time.Time `json:"tagged_at"`
}

// RecordID builds the internal record identifier for a source + external id pair
func RecordID(source Source, externalID string) string {
	return fmt.Sprintf("%s:%s", source, externalID)
}

// Project is one entry of the project lexicon: a tracked project code with
// its display name and the aliases it is known by on bank statements and in
// the pipeline. Codes are unique and non-empty.
type Project struct {
	Code        string     `json:"code" db:"code" validate:"required"`
	DisplayName string     `json:"display_name" db:"display_name" validate:"required"`
	Aliases     StringList `json:"aliases" db:"aliases"`
	RDEligible  bool       `json:"rd_eligible" db:"rd_eligible"`
}

// SuggestionBasis describes which signal produced a tag suggestion
type SuggestionBasis string

// Suggestion bases
const (
	BasisHistorical   SuggestionBasis = "historical"
	BasisLexicalMatch SuggestionBasis = "lexicalMatch"
	BasisNone         SuggestionBasis = "none"
)

// TagSuggestion is an ephemeral, recomputed-on-demand proposal to tag a
// record with a project code. Only a committed tag is authoritative.
type TagSuggestion struct {
	RecordID      string          `json:"record_id"`
	SuggestedCode *string         `json:"suggested_code"`
	Confidence    float64         `json:"confidence"`
	Basis         SuggestionBasis `json:"basis"`
}

// CoverageScore reports how much of one source is tagged to a project
type CoverageScore struct {
	Source Source `json:"source"`
	Total  int    `json:"total"`
	Tagged int    `json:"tagged"`
	Pct    int    `json:"pct"`
}

// CoverageReport is the per-source breakdown plus the total-weighted overall score
type CoverageReport struct {
	Sources      []CoverageScore `json:"sources"`
	OverallScore int             `json:"overall_score"`
}
