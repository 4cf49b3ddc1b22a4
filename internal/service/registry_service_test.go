package service

import (
	"context"
	"errors"
	"testing"

	"github.com/act-collective/intelligence-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
)

type fakeFetcher struct {
	projects []model.Project
	err      error
}

func (f *fakeFetcher) FetchProjects(ctx context.Context) ([]model.Project, error) {
	return f.projects, f.err
}

func TestRegistryService_Refresh(t *testing.T) {
	registry := &fakeProjectRegistry{projects: []model.Project{{Code: "OLD", DisplayName: "Old"}}}
	fetcher := &fakeFetcher{projects: []model.Project{
		{Code: "JH", DisplayName: "JusticeHub"},
		{Code: "EL", DisplayName: "Empathy Ledger"},
	}}
	svc := NewRegistryService(fetcher, registry, zap.NewNop())

	count, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	stored, _ := registry.List(context.Background())
	assert.Len(t, stored, 2)
}

func TestRegistryService_Refresh_InvalidLexiconKeepsPrevious(t *testing.T) {
	registry := &fakeProjectRegistry{projects: []model.Project{{Code: "JH", DisplayName: "JusticeHub"}}}
	fetcher := &fakeFetcher{projects: []model.Project{
		{Code: "X", DisplayName: "One"},
		{Code: "X", DisplayName: "Duplicate code"},
	}}
	svc := NewRegistryService(fetcher, registry, zap.NewNop())

	_, err := svc.Refresh(context.Background())
	require.Error(t, err)

	stored, _ := registry.List(context.Background())
	require.Len(t, stored, 1)
	assert.Equal(t, "JH", stored[0].Code)
}

func TestRegistryService_Refresh_FetchError(t *testing.T) {
	fetchErr := errors.New("registry unavailable")
	svc := NewRegistryService(&fakeFetcher{err: fetchErr}, &fakeProjectRegistry{}, zap.NewNop())

	_, err := svc.Refresh(context.Background())
	assert.ErrorIs(t, err, fetchErr)
}
