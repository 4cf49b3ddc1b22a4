package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/act-collective/intelligence-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
)

var testLexicon = []model.Project{
	{Code: "EL", DisplayName: "Empathy Ledger", Aliases: []string{"empathy ledger platform"}},
	{Code: "JH", DisplayName: "JusticeHub", Aliases: []string{"justice hub"}},
	{Code: "TH", DisplayName: "The Harvest", Aliases: []string{"harvest cafe", "harvest kitchen"}},
	{Code: "AF", DisplayName: "ACT Farm", Aliases: []string{"act farm residency"}, RDEligible: true},
}

func TestSuggestForRecords_HistoricalDominance(t *testing.T) {
	date := day(2026, time.February, 1)
	records := make([]model.TaggableRecord, 0, 6)
	for i := 0; i < 5; i++ {
		records = append(records, txn(fmt.Sprintf("t-%d", i), "Brightside Printing", -2000, date, "JH"))
	}
	records = append(records, txn("t-new", "Brightside Printing", -2500, date, ""))

	suggestions := SuggestForRecords(records, testLexicon)
	require.Len(t, suggestions, 1)

	s := suggestions[0]
	assert.Equal(t, model.BasisHistorical, s.Basis)
	require.NotNil(t, s.SuggestedCode)
	assert.Equal(t, "JH", *s.SuggestedCode)
	assert.GreaterOrEqual(t, s.Confidence, 0.5)
	assert.InDelta(t, 0.95, s.Confidence, 1e-9) // 0.5 + 0.1*5, capped
}

func TestSuggestForRecords_SingleObservationConfidence(t *testing.T) {
	date := day(2026, time.February, 1)
	records := []model.TaggableRecord{
		txn("t-0", "Seedling Supplies", -900, date, "AF"),
		txn("t-1", "Seedling Supplies", -950, date, ""),
	}

	suggestions := SuggestForRecords(records, testLexicon)
	require.Len(t, suggestions, 1)
	assert.InDelta(t, 0.6, suggestions[0].Confidence, 1e-9)
}

func TestSuggestForRecords_LexicalMatch(t *testing.T) {
	records := []model.TaggableRecord{
		txn("t-0", "Harvest Cafe Pty Ltd", 15000, day(2026, time.March, 3), ""),
	}

	suggestions := SuggestForRecords(records, testLexicon)
	require.Len(t, suggestions, 1)

	s := suggestions[0]
	assert.Equal(t, model.BasisLexicalMatch, s.Basis)
	require.NotNil(t, s.SuggestedCode)
	assert.Equal(t, "TH", *s.SuggestedCode)
	assert.Equal(t, 1.0, s.Confidence)
}

func TestSuggestForRecords_NoMatch(t *testing.T) {
	records := []model.TaggableRecord{
		txn("t-0", "Quarterly Office Rent", -400000, day(2026, time.March, 3), ""),
	}

	suggestions := SuggestForRecords(records, testLexicon)
	require.Len(t, suggestions, 1)

	s := suggestions[0]
	assert.Equal(t, model.BasisNone, s.Basis)
	assert.Nil(t, s.SuggestedCode)
	assert.Equal(t, 0.0, s.Confidence)
}

func TestSuggestForRecords_BelowFloorIsNoMatch(t *testing.T) {
	// One shared token out of four distinct: 0.25, under the 0.3 floor.
	records := []model.TaggableRecord{
		txn("t-0", "harvest equipment hire co", -8000, day(2026, time.March, 3), ""),
	}
	lexicon := []model.Project{{Code: "TH", DisplayName: "the harvest"}}

	suggestions := SuggestForRecords(records, lexicon)
	require.Len(t, suggestions, 1)
	assert.Equal(t, model.BasisNone, suggestions[0].Basis)
}

func TestSuggestForRecords_EqualScoresPreferPopularCode(t *testing.T) {
	date := day(2026, time.January, 10)
	lexicon := []model.Project{
		{Code: "TH", DisplayName: "community garden"},
		{Code: "AF", DisplayName: "community orchard"},
	}
	records := []model.TaggableRecord{
		// AF is globally more popular than TH in tagged history.
		txn("t-a", "Soil Lab", -100, date, "AF"),
		txn("t-b", "Soil Co", -100, date, "AF"),
		txn("t-c", "Cafe One", -100, date, "TH"),
		// "community" overlaps both entries equally (score 0.5).
		txn("t-u", "community workshop", -100, date, ""),
	}

	suggestions := SuggestForRecords(records, lexicon)
	require.Len(t, suggestions, 1)
	require.NotNil(t, suggestions[0].SuggestedCode)
	assert.Equal(t, "AF", *suggestions[0].SuggestedCode)
}

func TestSuggestForRecords_Deterministic(t *testing.T) {
	date := day(2026, time.April, 1)
	records := make([]model.TaggableRecord, 0, 120)
	for i := 0; i < 40; i++ {
		records = append(records, txn(fmt.Sprintf("tag-%d", i), fmt.Sprintf("Vendor %d", i%10), -500, date, testLexicon[i%4].Code))
	}
	for i := 0; i < 80; i++ {
		records = append(records, txn(fmt.Sprintf("untag-%d", i), fmt.Sprintf("Vendor %d", i%20), -700, date, ""))
	}

	first := SuggestForRecords(records, testLexicon)
	for run := 0; run < 5; run++ {
		assert.Equal(t, first, SuggestForRecords(records, testLexicon))
	}
}

func TestMatcherService_SuggestTags(t *testing.T) {
	date := day(2026, time.February, 1)
	store := newFakeRecordStore(
		txn("t-0", "Brightside Printing", -2000, date, "JH"),
		txn("t-1", "Brightside Printing", -2500, date, ""),
	)
	svc := NewMatcherService(store, &fakeProjectRegistry{projects: testLexicon}, zap.NewNop())

	suggestions, err := svc.SuggestTags(context.Background())
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, model.BasisHistorical, suggestions[0].Basis)
}

// Mirrors the production shape: 500 transactions, 60% pre-tagged across four
// codes, 200 untagged names of which 30 exactly match a previously tagged
// vendor.
func TestSuggestForRecords_EndToEnd(t *testing.T) {
	date := day(2026, time.May, 1)
	codes := []string{"EL", "JH", "TH", "AF"}

	records := make([]model.TaggableRecord, 0, 500)
	for i := 0; i < 30; i++ {
		records = append(records, txn(fmt.Sprintf("seen-%d", i), fmt.Sprintf("Repeat Vendor %d", i), -1000, date, codes[i%4]))
	}
	for i := 0; i < 270; i++ {
		records = append(records, txn(fmt.Sprintf("tagged-%d", i), fmt.Sprintf("Known Supplier %d", i), -1000, date, codes[i%4]))
	}
	for i := 0; i < 30; i++ {
		records = append(records, txn(fmt.Sprintf("match-%d", i), fmt.Sprintf("Repeat Vendor %d", i), -2000, date, ""))
	}
	for i := 0; i < 170; i++ {
		records = append(records, txn(fmt.Sprintf("fresh-%d", i), fmt.Sprintf("Unseen Counterparty %d", i), -2000, date, ""))
	}

	coverage := ComputeCoverage(records)
	require.Equal(t, model.SourceTransaction, coverage.Sources[0].Source)
	assert.Equal(t, 500, coverage.Sources[0].Total)
	assert.Equal(t, 60, coverage.Sources[0].Pct)

	suggestions := SuggestForRecords(records, testLexicon)
	require.Len(t, suggestions, 200)

	historical := 0
	for _, s := range suggestions {
		if s.Basis != model.BasisHistorical {
			continue
		}
		historical++
		assert.GreaterOrEqual(t, s.Confidence, 0.5)
	}
	assert.Equal(t, 30, historical)
}
