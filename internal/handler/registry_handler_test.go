package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/act-collective/intelligence-service/internal/model"
	"github.com/act-collective/intelligence-service/internal/service"

	"github.com/gin-gonic/gin"
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

func newRegistryRouter(fetcher *fakeFetcher, projects *fakeProjectRegistry) *gin.Engine {
	logger := zap.NewNop()
	registryService := service.NewRegistryService(fetcher, projects, logger)
	h := NewRegistryHandler(registryService, logger)

	router := gin.New()
	router.POST("/api/v1/registry/refresh", h.RefreshRegistry)
	return router
}

func TestRefreshRegistry(t *testing.T) {
	fetcher := &fakeFetcher{projects: []model.Project{
		{Code: "EL", DisplayName: "Empathy Ledger"},
		{Code: "JH", DisplayName: "JusticeHub"},
	}}
	projects := &fakeProjectRegistry{}
	router := newRegistryRouter(fetcher, projects)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/registry/refresh", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Projects int `json:"projects"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.Projects)
	assert.Len(t, projects.projects, 2)
}

func TestRefreshRegistryUpstreamFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("registry unreachable")}
	router := newRegistryRouter(fetcher, &fakeProjectRegistry{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/registry/refresh", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}
