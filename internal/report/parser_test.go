package report

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContentStructuredText(t *testing.T) {
	raw := `**WEEKLY PROGRESS SUMMARY**
The intern made steady progress on the ingestion pipeline this week.

**STRENGTHS OBSERVED**
- Completed the database migration ahead of schedule
- Wrote thorough tests for the parser module

**AREAS FOR IMPROVEMENT**
- Needs to communicate blockers earlier in the day

**RECOMMENDATIONS**
- Pair with a senior engineer on the deployment work
- Keep the daily logbook entries more detailed`

	content := ParseContent(raw)

	assert.Contains(t, content.Summary, "steady progress")
	require.Len(t, content.Strengths, 2)
	assert.Contains(t, content.Strengths[0], "database migration")
	require.Len(t, content.Weaknesses, 1)
	require.Len(t, content.Recommendations, 2)
	assert.GreaterOrEqual(t, content.PerformanceScore, 0)
	assert.LessOrEqual(t, content.PerformanceScore, 100)
	assert.Equal(t, raw, content.RawResponse)
}

func TestParseContentJSON(t *testing.T) {
	raw := `{
		"summary": "Strong week overall.",
		"strengths": ["Shipped the auth flow"],
		"weaknesses": [],
		"recommendations": ["Start on the reporting dashboard"],
		"performance_score": 88
	}`

	content := ParseContent(raw)

	assert.Equal(t, "Strong week overall.", content.Summary)
	assert.Equal(t, []string{"Shipped the auth flow"}, content.Strengths)
	assert.Empty(t, content.Weaknesses)
	assert.Equal(t, 88, content.PerformanceScore)
}

func TestParseContentJSONInCodeFence(t *testing.T) {
	raw := "```json\n{\"summary\": \"Good month.\", \"performance_score\": 91}\n```"

	content := ParseContent(raw)

	assert.Equal(t, "Good month.", content.Summary)
	assert.Equal(t, 91, content.PerformanceScore)
	assert.NotNil(t, content.Strengths)
}

func TestParseContentScoreClamped(t *testing.T) {
	high := ParseContent(`{"summary": "x", "performance_score": 250}`)
	assert.Equal(t, 100, high.PerformanceScore)

	low := ParseContent(`{"summary": "x", "performance_score": -10}`)
	assert.Equal(t, 0, low.PerformanceScore)
}

func TestParseContentTruncatedReply(t *testing.T) {
	// No recognizable sections: empty collections, zero score, still a
	// usable result.
	content := ParseContent("qq")

	assert.Equal(t, "qq", content.Summary)
	assert.Empty(t, content.Strengths)
	assert.Empty(t, content.Weaknesses)
	assert.Empty(t, content.Recommendations)
	assert.Equal(t, 0, content.PerformanceScore)
}

func TestParseContentFreeTextBecomesSummary(t *testing.T) {
	raw := "The intern worked diligently on several tasks and showed good initiative throughout the period."

	content := ParseContent(raw)

	assert.Contains(t, content.Summary, "diligently")
	assert.Empty(t, content.Strengths)
}

func TestParseContentLongFreeTextKeepsValidUTF8(t *testing.T) {
	// a multi-byte rune straddles the 500-byte cutoff
	raw := strings.Repeat("a", 499) + strings.Repeat("čćžšđ", 40)

	content := ParseContent(raw)

	assert.True(t, utf8.ValidString(content.Summary))
	assert.True(t, strings.HasSuffix(content.Summary, "..."))
	assert.LessOrEqual(t, len(content.Summary), 503)
}

func TestParseContentNumberedLists(t *testing.T) {
	raw := `**STRENGTHS OBSERVED**
1. Delivered the search feature end to end
2. Helped onboard the new intern cohort`

	content := ParseContent(raw)

	require.Len(t, content.Strengths, 2)
	assert.Equal(t, "Delivered the search feature end to end", content.Strengths[0])
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("abc"))
	assert.Equal(t, 1, EstimateTokens("abcd"))
	assert.Equal(t, 2, EstimateTokens("abcde"))
	assert.Equal(t, 25, EstimateTokens(string(make([]byte, 100))))
}
