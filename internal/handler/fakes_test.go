package handler

import (
	"context"
	"time"

	"github.com/act-collective/intelligence-service/internal/model"
)

// In-memory collaborators for handler tests. Handlers are exercised through
// real services wired onto these fakes.

type fakeRecordStore struct {
	records map[string]model.TaggableRecord
	order   []string
}

func newFakeRecordStore(records ...model.TaggableRecord) *fakeRecordStore {
	s := &fakeRecordStore{records: make(map[string]model.TaggableRecord)}
	for _, r := range records {
		s.order = append(s.order, r.ID)
		s.records[r.ID] = r
	}
	return s
}

func (s *fakeRecordStore) List(ctx context.Context) ([]model.TaggableRecord, error) {
	out := make([]model.TaggableRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id])
	}
	return out, nil
}

func (s *fakeRecordStore) GetByID(ctx context.Context, id string) (*model.TaggableRecord, error) {
	r, ok := s.records[id]
	if !ok {
		return nil, model.ErrRecordNotFound
	}
	return &r, nil
}

func (s *fakeRecordStore) Upsert(ctx context.Context, records []model.TaggableRecord) (int, error) {
	for _, r := range records {
		if _, exists := s.records[r.ID]; !exists {
			s.order = append(s.order, r.ID)
		}
		s.records[r.ID] = r
	}
	return len(records), nil
}

func (s *fakeRecordStore) ApplyTag(ctx context.Context, id, projectCode string, taggedBy model.TaggedBy, taggedAt time.Time) (*model.TaggableRecord, error) {
	r, ok := s.records[id]
	if !ok {
		return nil, model.ErrRecordNotFound
	}
	r.ProjectCode = projectCode
	r.TaggedBy = taggedBy
	r.TaggedAt = &taggedAt
	s.records[id] = r
	return &r, nil
}

type fakeProjectRegistry struct {
	projects []model.Project
}

func (s *fakeProjectRegistry) List(ctx context.Context) ([]model.Project, error) {
	return s.projects, nil
}

func (s *fakeProjectRegistry) GetByCode(ctx context.Context, code string) (*model.Project, error) {
	for i := range s.projects {
		if s.projects[i].Code == code {
			return &s.projects[i], nil
		}
	}
	return nil, model.ErrUnknownProjectCode
}

func (s *fakeProjectRegistry) ReplaceAll(ctx context.Context, projects []model.Project) error {
	s.projects = projects
	return nil
}

type fakeFinanceStore struct {
	facts     model.FinancialFacts
	grants    []model.Grant
	streams   []model.RevenueStream
	scenarios []model.Scenario
}

func (s *fakeFinanceStore) Facts(ctx context.Context) (*model.FinancialFacts, error) {
	f := s.facts
	return &f, nil
}

func (s *fakeFinanceStore) Grants(ctx context.Context) ([]model.Grant, error) {
	return s.grants, nil
}

func (s *fakeFinanceStore) Streams(ctx context.Context) ([]model.RevenueStream, error) {
	return s.streams, nil
}

func (s *fakeFinanceStore) Scenarios(ctx context.Context) ([]model.Scenario, error) {
	return s.scenarios, nil
}

type fakeEvents struct{}

func (e *fakeEvents) PublishTagApplied(ctx context.Context, record *model.TaggableRecord) error {
	return nil
}

func (e *fakeEvents) PublishRecordsSynced(ctx context.Context, source model.Source, count int) error {
	return nil
}
