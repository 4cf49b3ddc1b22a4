package service

import (
	"context"
	"math"
	"runtime"
	"sync"

	"github.com/act-collective/intelligence-service/internal/model"

	"go.uber.org/zap"
)

// Matcher tuning. The confidence bands consumed by the dashboard (>=0.5
// "likely correct") live in the presentation layer, not here.
const (
	historicalBase = 0.5
	historicalStep = 0.1
	historicalCap  = 0.95
	lexicalFloor   = 0.3
)

// MatcherService proposes project codes for untagged records
type MatcherService struct {
	records  RecordStore
	projects ProjectRegistry
	logger   *zap.Logger
}

// NewMatcherService creates a new matcher service
func NewMatcherService(records RecordStore, projects ProjectRegistry, logger *zap.Logger) *MatcherService {
	return &MatcherService{
		records:  records,
		projects: projects,
		logger:   logger,
	}
}

// SuggestTags loads the current record snapshot and lexicon, rebuilds the
// history index and returns a suggestion for every untagged record.
func (s *MatcherService) SuggestTags(ctx context.Context) ([]model.TagSuggestion, error) {
	records, err := s.records.List(ctx)
	if err != nil {
		s.logger.Error("Failed to load records for matching", zap.Error(err))
		return nil, err
	}

	lexicon, err := s.projects.List(ctx)
	if err != nil {
		s.logger.Error("Failed to load project lexicon", zap.Error(err))
		return nil, err
	}

	suggestions := SuggestForRecords(records, lexicon)
	s.logger.Info("Computed tag suggestions",
		zap.Int("records", len(records)),
		zap.Int("suggestions", len(suggestions)))
	return suggestions, nil
}

// SuggestForRecords computes a suggestion for every untagged record in the
// snapshot. Pure and deterministic: identical inputs produce identical
// output. Records are scored in parallel; each suggestion depends only on
// the shared read-only index and lexicon.
func SuggestForRecords(records []model.TaggableRecord, lexicon []model.Project) []model.TagSuggestion {
	idx := BuildHistoryIndex(records)

	var untagged []*model.TaggableRecord
	for i := range records {
		if !records[i].Tagged() {
			untagged = append(untagged, &records[i])
		}
	}

	suggestions := make([]model.TagSuggestion, len(untagged))
	workers := runtime.GOMAXPROCS(0)
	if workers > len(untagged) {
		workers = len(untagged)
	}
	if workers <= 1 {
		for i, r := range untagged {
			suggestions[i] = suggestOne(r, lexicon, idx)
		}
		return suggestions
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				suggestions[i] = suggestOne(untagged[i], lexicon, idx)
			}
		}()
	}
	for i := range untagged {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return suggestions
}

// suggestOne applies the matching cascade: a vendor seen before is trusted
// over any string heuristic; otherwise the lexicon is scanned for the best
// lexical match above the acceptance floor.
func suggestOne(r *model.TaggableRecord, lexicon []model.Project, idx *HistoryIndex) model.TagSuggestion {
	canonical := Canonicalize(r.CounterpartyName)

	if code, observations, ok := idx.Lookup(canonical); ok {
		confidence := math.Min(historicalCap, historicalBase+historicalStep*float64(observations))
		return model.TagSuggestion{
			RecordID:      r.ID,
			SuggestedCode: &code,
			Confidence:    confidence,
			Basis:         model.BasisHistorical,
		}
	}

	bestCode := ""
	bestScore := 0.0
	for i := range lexicon {
		entry := &lexicon[i]
		score := entryScore(canonical, entry)
		if score > bestScore {
			bestCode, bestScore = entry.Code, score
			continue
		}
		if score == bestScore && score > 0 && bestCode != "" {
			// Equal scores: prefer the globally more popular code, then
			// lexical order, so repeated runs agree.
			if idx.CodePopularity(entry.Code) > idx.CodePopularity(bestCode) ||
				(idx.CodePopularity(entry.Code) == idx.CodePopularity(bestCode) && entry.Code < bestCode) {
				bestCode = entry.Code
			}
		}
	}

	if bestScore >= lexicalFloor {
		code := bestCode
		return model.TagSuggestion{
			RecordID:      r.ID,
			SuggestedCode: &code,
			Confidence:    bestScore,
			Basis:         model.BasisLexicalMatch,
		}
	}

	return model.TagSuggestion{
		RecordID:   r.ID,
		Confidence: 0,
		Basis:      model.BasisNone,
	}
}

// entryScore is the best similarity between the canonical record name and
// any of the entry's names (display name plus aliases)
func entryScore(canonical string, entry *model.Project) float64 {
	best := Similarity(canonical, entry.DisplayName)
	for _, alias := range entry.Aliases {
		if score := Similarity(canonical, alias); score > best {
			best = score
		}
	}
	return best
}
