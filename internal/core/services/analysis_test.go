package services

import (
	"context"
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karaar-labs/karaar/internal/core/domain"
)

func testAnalysisSettings() domain.AnalysisSettings {
	return domain.AnalysisSettings{
		ChunkSize:    1000,
		ChunkOverlap: 200,
		ContextCap:   2000,
		RetrievalK:   3,
		Jurisdiction: "Indian law",
	}
}

func TestAnalyze_FullPipeline(t *testing.T) {
	gen := &mockGenerator{
		responses: map[string]string{
			"Summarize": "This contract says you will be paid monthly.",
			"identify":  "Indemnity, Arbitration, Notice Period",
		},
		structured: map[string]string{
			termKey("Indemnity"):     `{"explanation": "You promise to cover certain losses.", "url": "https://example.org/indemnity"}`,
			termKey("Arbitration"):   `{"explanation": "Disputes go to a private judge, not a court.", "url": "https://example.org/arbitration"}`,
			termKey("Notice Period"): `{"explanation": "Time you must give before quitting.", "url": ""}`,
		},
	}
	search := &mockWebSearch{digest: "Some Site - https://example.org: legal terms explained"}

	svc := NewAnalysisService(gen, search, testAnalysisSettings())
	report, err := svc.Analyze(context.Background(), "A consulting agreement with indemnity and arbitration clauses.")
	require.NoError(t, err)

	assert.Equal(t, "This contract says you will be paid monthly.", report.Summary)
	assert.Equal(t, domain.OverallAdvice, report.OverallAdvice)

	require.Len(t, report.KeyTerms, 3)
	// Order matches the identification output, not lookup completion order.
	assert.Equal(t, "Indemnity", report.KeyTerms[0].Term)
	assert.Equal(t, "Arbitration", report.KeyTerms[1].Term)
	assert.Equal(t, "Notice Period", report.KeyTerms[2].Term)

	assert.Equal(t, "You promise to cover certain losses.", report.KeyTerms[0].Explanation)
	assert.Equal(t, "https://example.org/indemnity", report.KeyTerms[0].ResourceLink)

	// Empty URL in the structured response falls back to the default link.
	assert.Equal(t, domain.DefaultResourceLink, report.KeyTerms[2].ResourceLink)

	// One search per term.
	assert.Equal(t, 3, search.queryCount())
}

func TestAnalyze_SummaryFailureUsesPlaceholder(t *testing.T) {
	gen := &mockGenerator{
		responses: map[string]string{
			"Summarize": "",
			"identify":  "Indemnity",
		},
		structured: map[string]string{
			termKey("Indemnity"): `{"explanation": "You cover losses.", "url": "https://example.org"}`,
		},
	}

	svc := NewAnalysisService(gen, &mockWebSearch{digest: "ctx"}, testAnalysisSettings())
	report, err := svc.Analyze(context.Background(), "doc")
	require.NoError(t, err)

	assert.Equal(t, summaryPlaceholder, report.Summary)
	// Later stages still ran.
	require.Len(t, report.KeyTerms, 1)
	assert.Equal(t, "You cover losses.", report.KeyTerms[0].Explanation)
}

func TestAnalyze_TermIdentificationFailure(t *testing.T) {
	gen := &mockGenerator{
		responses: map[string]string{
			"Summarize": "A summary.",
			"identify":  "",
		},
	}

	svc := NewAnalysisService(gen, nil, testAnalysisSettings())
	report, err := svc.Analyze(context.Background(), "doc")
	require.NoError(t, err)

	assert.Equal(t, "A summary.", report.Summary)
	assert.Empty(t, report.KeyTerms)
	assert.Equal(t, domain.OverallAdvice, report.OverallAdvice)
}

func TestAnalyze_NoGenerator(t *testing.T) {
	svc := NewAnalysisService(nil, nil, testAnalysisSettings())
	report, err := svc.Analyze(context.Background(), "doc")
	require.NoError(t, err)

	assert.Equal(t, summaryPlaceholder, report.Summary)
	assert.Empty(t, report.KeyTerms)
	assert.Equal(t, domain.OverallAdvice, report.OverallAdvice)
}

func TestAnalyze_TermCapAtFive(t *testing.T) {
	gen := &mockGenerator{
		responses: map[string]string{
			"Summarize": "A summary.",
			"identify":  "One, Two, Three, Four, Five, Six, Seven",
		},
	}

	svc := NewAnalysisService(gen, nil, testAnalysisSettings())
	report, err := svc.Analyze(context.Background(), "doc")
	require.NoError(t, err)

	require.Len(t, report.KeyTerms, domain.MaxKeyTerms)
	assert.Equal(t, "One", report.KeyTerms[0].Term)
	assert.Equal(t, "Five", report.KeyTerms[4].Term)
}

func TestAnalyze_MarkerFallback(t *testing.T) {
	// No structured entries at all, so GenerateStructured reports the
	// capability as unsupported and the marker path runs.
	gen := &mockGenerator{
		responses: map[string]string{
			"Summarize":       "A summary.",
			"identify":        "Indemnity",
			"exactly this format": "Explanation: You cover some losses.\nURL: https://example.org/marker",
		},
	}

	svc := NewAnalysisService(gen, &mockWebSearch{digest: "ctx"}, testAnalysisSettings())
	report, err := svc.Analyze(context.Background(), "doc")
	require.NoError(t, err)

	require.Len(t, report.KeyTerms, 1)
	assert.Equal(t, "You cover some losses.", report.KeyTerms[0].Explanation)
	assert.Equal(t, "https://example.org/marker", report.KeyTerms[0].ResourceLink)
}

func TestAnalyze_MarkerFallbackMissingURL(t *testing.T) {
	gen := &mockGenerator{
		responses: map[string]string{
			"Summarize":       "A summary.",
			"identify":        "Indemnity",
			"exactly this format": "Explanation: You cover some losses.",
		},
	}

	svc := NewAnalysisService(gen, nil, testAnalysisSettings())
	report, err := svc.Analyze(context.Background(), "doc")
	require.NoError(t, err)

	require.Len(t, report.KeyTerms, 1)
	assert.Equal(t, "You cover some losses.", report.KeyTerms[0].Explanation)
	assert.Equal(t, domain.DefaultResourceLink, report.KeyTerms[0].ResourceLink)
}

func TestAnalyze_TermLookupFailureUsesFallbacks(t *testing.T) {
	// Marker fallback produces unparseable output: both fields empty.
	gen := &mockGenerator{
		responses: map[string]string{
			"Summarize":       "A summary.",
			"identify":        "Indemnity, Arbitration",
			"exactly this format": "I cannot answer that.",
		},
	}
	search := &mockWebSearch{searchErr: errors.New("tavily down")}

	svc := NewAnalysisService(gen, search, testAnalysisSettings())
	report, err := svc.Analyze(context.Background(), "doc")
	require.NoError(t, err)

	require.Len(t, report.KeyTerms, 2)
	for _, term := range report.KeyTerms {
		assert.Equal(t, domain.FallbackExplanation, term.Explanation)
		assert.Equal(t, domain.DefaultResourceLink, term.ResourceLink)
	}
}

func TestAnalyze_SearchUnavailableStillExplains(t *testing.T) {
	gen := &mockGenerator{
		responses: map[string]string{
			"Summarize": "A summary.",
			"identify":  "Indemnity",
		},
		structured: map[string]string{
			termKey("Indemnity"): `{"explanation": "Explained without search.", "url": ""}`,
		},
	}

	svc := NewAnalysisService(gen, nil, testAnalysisSettings())
	report, err := svc.Analyze(context.Background(), "doc")
	require.NoError(t, err)

	require.Len(t, report.KeyTerms, 1)
	assert.Equal(t, "Explained without search.", report.KeyTerms[0].Explanation)
	assert.Equal(t, domain.DefaultResourceLink, report.KeyTerms[0].ResourceLink)
}

func TestAnalyze_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := &mockGenerator{generateErr: context.Canceled}
	svc := NewAnalysisService(gen, nil, testAnalysisSettings())

	_, err := svc.Analyze(ctx, "doc")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseTermList(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     []string
	}{
		{
			name:     "plain list",
			response: "Indemnity, Arbitration, Force Majeure",
			want:     []string{"Indemnity", "Arbitration", "Force Majeure"},
		},
		{
			name:     "labelled response",
			response: "Key terms: Indemnity, Arbitration",
			want:     []string{"Indemnity", "Arbitration"},
		},
		{
			name:     "quoted and trailing punctuation",
			response: `"Indemnity", 'Arbitration'.`,
			want:     []string{"Indemnity", "Arbitration"},
		},
		{
			name:     "empty segments dropped",
			response: "Indemnity,, ,Arbitration",
			want:     []string{"Indemnity", "Arbitration"},
		},
		{
			name:     "capped at five",
			response: "a, b, c, d, e, f, g",
			want:     []string{"a", "b", "c", "d", "e"},
		},
		{
			name:     "empty response",
			response: "   ",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseTermList(tt.response))
		})
	}
}

func TestParseMarkers(t *testing.T) {
	explanation, url := parseMarkers("Explanation: A simple explanation.\nURL: https://example.org")
	assert.Equal(t, "A simple explanation.", explanation)
	assert.Equal(t, "https://example.org", url)

	explanation, url = parseMarkers("some preamble\nExplanation: Deep meaning.\nand a trailer")
	assert.Equal(t, "Deep meaning.", explanation)
	assert.Empty(t, url)

	explanation, url = parseMarkers("no markers here")
	assert.Empty(t, explanation)
	assert.Empty(t, url)
}

func TestCapContext(t *testing.T) {
	assert.Equal(t, "abc", capContext("abc", 10))
	assert.Equal(t, "ab", capContext("abcdef", 2))
	assert.Equal(t, "abcdef", capContext("abcdef", 0))

	// The cut never splits a multi-byte character; Devanagari runes are
	// three bytes each.
	capped := capContext("अनुबंध की शर्तें", 7)
	assert.True(t, utf8.ValidString(capped))
	assert.Equal(t, "अन", capped)

	// A limit landing exactly on a rune boundary keeps the full rune.
	assert.Equal(t, "अनु", capContext("अनुबंध", 9))
}
