package report

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/TimashaWanninyake/intern-progress-analyzer/pkg/api"
)

// ParseContent turns a raw model reply into structured report content.
// Hosted models are asked to follow the section template but are not
// trusted to: well-formed JSON is taken as-is, everything else goes
// through heuristic section extraction. A reply that yields no sections
// at all (typically truncation) still parses, with empty collections
// and a zero score.
func ParseContent(raw string) api.ReportContent {
	content := api.ReportContent{
		Strengths:       []string{},
		Weaknesses:      []string{},
		Recommendations: []string{},
		RawResponse:     raw,
	}

	if c, ok := parseJSON(raw); ok {
		c.RawResponse = raw
		c.PerformanceScore = clampScore(c.PerformanceScore)
		return c
	}

	if recognized := parseSections(raw, &content); !recognized {
		// No section headers at all, typically a truncated or off-template
		// reply. Keep a prefix as the summary so the caller still has
		// something to show; score stays 0.
		if content.Summary == "" {
			content.Summary = truncate(raw, 500)
		}
		return content
	}

	content.PerformanceScore = scoreFromContent(content)
	return content
}

func parseJSON(raw string) (api.ReportContent, bool) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return api.ReportContent{}, false
	}

	var c api.ReportContent
	if err := json.Unmarshal([]byte(trimmed), &c); err != nil {
		return api.ReportContent{}, false
	}
	if c.Strengths == nil {
		c.Strengths = []string{}
	}
	if c.Weaknesses == nil {
		c.Weaknesses = []string{}
	}
	if c.Recommendations == nil {
		c.Recommendations = []string{}
	}
	return c, true
}

type sectionKind int

const (
	sectionNone sectionKind = iota
	sectionSummary
	sectionStrengths
	sectionWeaknesses
	sectionRecommendations
)

// classify maps a section's first line onto one of the known buckets
// using keyword matching, mirroring the headers the prompts ask for.
func classify(header string) sectionKind {
	h := strings.ToLower(header)
	switch {
	case containsAny(h, "summary", "overview", "assessment"):
		return sectionSummary
	case containsAny(h, "strength", "achievement", "positive", "contribution"):
		return sectionStrengths
	case containsAny(h, "weakness", "improvement", "challenge", "obstacle"):
		return sectionWeaknesses
	case containsAny(h, "recommend", "suggest", "next step", "action"):
		return sectionRecommendations
	default:
		return sectionNone
	}
}

func parseSections(raw string, content *api.ReportContent) bool {
	current := sectionNone
	recognized := false
	var summaryParts []string

	for _, block := range strings.Split(raw, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		lines := strings.Split(block, "\n")
		kind := classify(lines[0])
		body := block
		if kind != sectionNone {
			current = kind
			recognized = true
			body = strings.TrimSpace(strings.Join(lines[1:], "\n"))
			if body == "" {
				continue
			}
		} else if current == sectionNone {
			// Free text before any recognized header reads as summary.
			current = sectionSummary
		}

		switch current {
		case sectionSummary:
			summaryParts = append(summaryParts, stripBullets(body))
		case sectionStrengths:
			content.Strengths = append(content.Strengths, listItems(body)...)
		case sectionWeaknesses:
			content.Weaknesses = append(content.Weaknesses, listItems(body)...)
		case sectionRecommendations:
			content.Recommendations = append(content.Recommendations, listItems(body)...)
		}
	}

	content.Summary = strings.TrimSpace(strings.Join(summaryParts, "\n"))
	return recognized
}

// listItems extracts bullet and numbered items from a section body.
// Lines without a list marker count too, as long as they carry real text.
func listItems(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		cleaned := strings.TrimLeft(line, "-*•→ ")
		if i := strings.Index(cleaned, ". "); i > 0 && isDigits(cleaned[:i]) {
			cleaned = strings.TrimSpace(cleaned[i+2:])
		}
		cleaned = strings.TrimSpace(cleaned)
		if len(cleaned) > 10 {
			items = append(items, cleaned)
		}
	}
	return items
}

func stripBullets(text string) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*• "))
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// scoreFromContent derives a performance score when the model did not
// supply one: richer strengths push it up, weaknesses pull it down.
func scoreFromContent(c api.ReportContent) int {
	score := 60
	score += 5 * len(c.Strengths)
	score -= 3 * len(c.Weaknesses)
	score += 2 * len(c.Recommendations)
	return clampScore(score)
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// back up to a rune boundary so the cut never splits a character
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
