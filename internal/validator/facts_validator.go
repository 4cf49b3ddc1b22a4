package validator

import (
	"errors"
	"fmt"

	"github.com/act-collective/intelligence-service/internal/model"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateProjects checks the lexicon invariant: codes unique and
// non-empty, display names present
func ValidateProjects(projects []model.Project) error {
	if len(projects) == 0 {
		return errors.New("project lexicon cannot be empty")
	}
	seen := make(map[string]bool, len(projects))
	for i := range projects {
		if err := validate.Struct(&projects[i]); err != nil {
			return fmt.Errorf("project %q: %w", projects[i].Code, err)
		}
		if seen[projects[i].Code] {
			return fmt.Errorf("duplicate project code %q", projects[i].Code)
		}
		seen[projects[i].Code] = true
	}
	return nil
}

// ValidateStreams checks revenue stream configuration
func ValidateStreams(streams []model.RevenueStream) error {
	seen := make(map[string]bool, len(streams))
	for i := range streams {
		if err := validate.Struct(&streams[i]); err != nil {
			return fmt.Errorf("stream %q: %w", streams[i].Code, err)
		}
		if seen[streams[i].Code] {
			return fmt.Errorf("duplicate stream code %q", streams[i].Code)
		}
		seen[streams[i].Code] = true
	}
	return nil
}

// ValidateScenario checks a scenario against the configured streams at
// load time, so the forecaster never meets a malformed assumption during
// computation. Overrides must reference known stream codes and stay within
// the same bounds as the default rate.
func ValidateScenario(scenario *model.Scenario, streams []model.RevenueStream) error {
	if err := validate.Struct(scenario); err != nil {
		return fmt.Errorf("scenario %q: %w", scenario.ID, err)
	}

	known := make(map[string]bool, len(streams))
	for i := range streams {
		known[streams[i].Code] = true
	}
	for code, growth := range scenario.Assumptions {
		if !known[code] {
			return fmt.Errorf("scenario %q: assumption references unknown stream %q", scenario.ID, code)
		}
		if growth < -1 || growth > 10 {
			return fmt.Errorf("scenario %q: growth override %v for stream %q out of range", scenario.ID, growth, code)
		}
	}
	return nil
}
