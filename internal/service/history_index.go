package service

import (
	"time"

	"github.com/act-collective/intelligence-service/internal/model"
)

type codeTally struct {
	count int
	last  time.Time
}

type historyEntry struct {
	codes     map[string]*codeTally
	total     int
	preferred string
}

// HistoryIndex maps canonical counterparty names to the project codes they
// have been tagged with before. Built as an immutable snapshot at the start
// of each computation pass; rebuilding is O(n) in tagged-record count.
type HistoryIndex struct {
	entries    map[string]*historyEntry
	codeTotals map[string]int
}

// BuildHistoryIndex groups all already-tagged records by canonical
// counterparty name. For each name the preferred code is the mode;
// ties prefer the most recently applied code, then lexical order.
func BuildHistoryIndex(records []model.TaggableRecord) *HistoryIndex {
	idx := &HistoryIndex{
		entries:    make(map[string]*historyEntry),
		codeTotals: make(map[string]int),
	}
	for i := range records {
		r := &records[i]
		if !r.Tagged() {
			continue
		}
		key := Canonicalize(r.CounterpartyName)
		if key == "" {
			continue
		}
		entry := idx.entries[key]
		if entry == nil {
			entry = &historyEntry{codes: make(map[string]*codeTally)}
			idx.entries[key] = entry
		}
		tally := entry.codes[r.ProjectCode]
		if tally == nil {
			tally = &codeTally{}
			entry.codes[r.ProjectCode] = tally
		}
		tally.count++
		if r.TaggedAt != nil && r.TaggedAt.After(tally.last) {
			tally.last = *r.TaggedAt
		}
		entry.total++
		idx.codeTotals[r.ProjectCode]++
	}
	for _, entry := range idx.entries {
		entry.preferred = entry.pickPreferred()
	}
	return idx
}

func (e *historyEntry) pickPreferred() string {
	var best string
	var bestTally *codeTally
	for code, tally := range e.codes {
		if bestTally == nil ||
			tally.count > bestTally.count ||
			(tally.count == bestTally.count && tally.last.After(bestTally.last)) ||
			(tally.count == bestTally.count && tally.last.Equal(bestTally.last) && code < best) {
			best = code
			bestTally = tally
		}
	}
	return best
}

// Lookup returns the preferred project code and observation count for a
// canonical name, or ok=false when the name has never been tagged.
func (idx *HistoryIndex) Lookup(canonical string) (code string, observations int, ok bool) {
	entry, found := idx.entries[canonical]
	if !found || entry.total == 0 {
		return "", 0, false
	}
	return entry.preferred, entry.total, true
}

// CodePopularity returns how many tagged records carry the code overall.
// Used as the matcher's deterministic tie-break between lexicon entries.
func (idx *HistoryIndex) CodePopularity(code string) int {
	return idx.codeTotals[code]
}
