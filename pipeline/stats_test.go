package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatsCounters(t *testing.T) {
	stats := NewStats()

	stats.Inc(StatValidTexts)
	stats.Inc(StatValidTexts)
	stats.Inc(StatShortTexts)
	stats.Inc(SkippedTypeKey("ad"))

	assert.Equal(t, int64(2), stats.Get(StatValidTexts))
	assert.Equal(t, int64(1), stats.Get(StatShortTexts))
	assert.Equal(t, int64(1), stats.Get("skipped_type_ad"))
	assert.Equal(t, int64(0), stats.Get("never_incremented"))
}

func TestStatsKeysSorted(t *testing.T) {
	stats := NewStats()
	stats.Inc("valid_texts")
	stats.Inc("char_count_bucket_5k_5000")
	stats.Inc("short_texts")

	assert.Equal(t, []string{"char_count_bucket_5k_5000", "short_texts", "valid_texts"}, stats.Keys())
}

func TestStatsEmbedTime(t *testing.T) {
	stats := NewStats()

	stats.AddEmbedTime(100 * time.Millisecond)
	stats.AddEmbedTime(300 * time.Millisecond)
	assert.Equal(t, 400*time.Millisecond, stats.EmbedTime())

	// No valid texts yet: average is zero
	assert.Equal(t, time.Duration(0), stats.AverageEmbedTime())

	stats.Inc(StatValidTexts)
	stats.Inc(StatValidTexts)
	assert.Equal(t, 200*time.Millisecond, stats.AverageEmbedTime())
}

func TestCharBucketKey(t *testing.T) {
	tests := []struct {
		length   int
		expected string
	}{
		{1, "char_count_bucket_5k_5000"},
		{4999, "char_count_bucket_5k_5000"},
		{5000, "char_count_bucket_5k_5000"},
		{5001, "char_count_bucket_5k_10000"},
		{12345, "char_count_bucket_5k_15000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, CharBucketKey(tt.length), "length %d", tt.length)
	}
}

func TestDynamicKeys(t *testing.T) {
	assert.Equal(t, "skipped_type_page", SkippedTypeKey("page"))
	assert.Equal(t, "valid_texts_lg_de", ValidLangKey("de"))
}

func TestStatsSnapshotIsCopy(t *testing.T) {
	stats := NewStats()
	stats.Inc(StatValidTexts)

	snapshot := stats.Snapshot()
	snapshot[StatValidTexts] = 99

	assert.Equal(t, int64(1), stats.Get(StatValidTexts))
}
