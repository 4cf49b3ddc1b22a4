package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/act-collective/intelligence-service/internal/model"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// RegistryClient handles communication with the project registry service
type RegistryClient struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	maxElapsed time.Duration
	logger     *zap.Logger
}

// NewRegistryClient creates a new project registry client
func NewRegistryClient(baseURL, serviceKey string, timeout, maxElapsed time.Duration, logger *zap.Logger) *RegistryClient {
	return &RegistryClient{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxElapsed: maxElapsed,
		logger:     logger,
	}
}

// FetchProjects pulls the current project lexicon. Transient failures are
// retried with exponential backoff up to the configured elapsed budget.
func (c *RegistryClient) FetchProjects(ctx context.Context) ([]model.Project, error) {
	url := fmt.Sprintf("%s/api/v1/projects", c.baseURL)

	var projects []model.Project
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("X-Service-Key", c.serviceKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn("Registry fetch failed, will retry", zap.Error(err))
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			err := fmt.Errorf("registry returned status %d", resp.StatusCode)
			c.logger.Warn("Registry fetch failed, will retry", zap.Error(err))
			return err
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("registry returned status %d", resp.StatusCode))
		}

		var payload struct {
			Data []model.Project `json:"data"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode registry response: %w", err))
		}
		projects = payload.Data
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = c.maxElapsed
	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		return nil, err
	}
	return projects, nil
}
