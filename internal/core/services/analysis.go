package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/karaar-labs/karaar/internal/core/domain"
	"github.com/karaar-labs/karaar/internal/core/ports/driven"
	"github.com/karaar-labs/karaar/internal/logger"
)

const (
	// summaryPlaceholder is reported when the generator cannot produce a summary.
	summaryPlaceholder = "Summary could not be generated for this document."

	// enrichConcurrency bounds parallel term lookups so one document does not
	// exhaust the provider's request quota.
	enrichConcurrency = 4
)

// AnalysisService runs the three-stage document analysis pipeline:
// summarize, identify key terms, and enrich each term with a grounded
// explanation and resource link.
type AnalysisService struct {
	generator driven.Generator
	webSearch driven.WebSearch
	settings  domain.AnalysisSettings
}

// NewAnalysisService creates an analysis service. Both generator and
// webSearch may be nil; the pipeline degrades per stage.
func NewAnalysisService(
	generator driven.Generator,
	webSearch driven.WebSearch,
	settings domain.AnalysisSettings,
) *AnalysisService {
	return &AnalysisService{
		generator: generator,
		webSearch: webSearch,
		settings:  settings,
	}
}

// Analyze produces a full report for the document content. Stage failures
// degrade: a failed summary yields a placeholder, failed term identification
// yields no terms, and a failed term lookup yields the term with fallback
// explanation and resource link. Analyze itself only fails on a cancelled
// context.
func (s *AnalysisService) Analyze(ctx context.Context, content string) (domain.Report, error) {
	logger.Section("Document Analysis")

	report := domain.Report{
		OverallAdvice: domain.OverallAdvice,
	}

	summary, err := s.summarize(ctx, content)
	if err != nil {
		if ctx.Err() != nil {
			return domain.Report{}, ctx.Err()
		}
		logger.Warn("Summary generation failed: %v", err)
		summary = summaryPlaceholder
	}
	report.Summary = summary

	terms, err := s.identifyTerms(ctx, content)
	if err != nil {
		if ctx.Err() != nil {
			return domain.Report{}, ctx.Err()
		}
		logger.Warn("Key term identification failed: %v", err)
		report.KeyTerms = []domain.ExplainedTerm{}
		return report, nil
	}
	logger.Info("Identified %d key terms", len(terms))

	explained, err := s.enrichTerms(ctx, terms)
	if err != nil {
		return domain.Report{}, err
	}
	report.KeyTerms = explained

	return report, nil
}

// summarize generates a plain-language summary of the document.
func (s *AnalysisService) summarize(ctx context.Context, content string) (string, error) {
	if s.generator == nil {
		return "", domain.ErrGenerationUnavailable
	}

	excerpt := capContext(content, s.settings.ContextCap)
	prompt := fmt.Sprintf(
		"You are a helpful assistant explaining legal documents to workers in India who may "+
			"have limited legal knowledge. Summarize the following document in simple, clear "+
			"language. Focus on what the document means for the worker: their obligations, "+
			"their rights, payment terms, and anything they should be careful about. "+
			"Use short sentences and avoid legal jargon.\n\nDocument:\n%s",
		excerpt,
	)

	out, err := s.generator.Generate(ctx, prompt, driven.GenerateOptions{})
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("summarize: %w", domain.ErrGenerationUnavailable)
	}

	return out, nil
}

// identifyTerms extracts the 3-5 most important legal terms from the document.
func (s *AnalysisService) identifyTerms(ctx context.Context, content string) ([]string, error) {
	if s.generator == nil {
		return nil, domain.ErrGenerationUnavailable
	}

	excerpt := capContext(content, s.settings.ContextCap)
	prompt := fmt.Sprintf(
		"From the following legal document, identify the 3 to 5 most important legal terms "+
			"or jargon that a layperson would struggle to understand. Respond with ONLY the "+
			"terms as a comma-separated list, nothing else.\n\nDocument:\n%s",
		excerpt,
	)

	out, err := s.generator.Generate(ctx, prompt, driven.GenerateOptions{})
	if err != nil {
		return nil, fmt.Errorf("identify terms: %w", err)
	}

	terms := parseTermList(out)
	if len(terms) == 0 {
		return nil, fmt.Errorf("identify terms: no terms in response")
	}

	return terms, nil
}

// enrichTerms looks up every term in parallel, preserving input order.
func (s *AnalysisService) enrichTerms(ctx context.Context, terms []string) ([]domain.ExplainedTerm, error) {
	explained := make([]domain.ExplainedTerm, len(terms))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)

	for i, term := range terms {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			explained[i] = s.explainTerm(gctx, term)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return explained, nil
}

// explainTerm produces an explanation and resource link for a single term.
// It never fails: every degradation path ends in the fallback explanation
// and default resource link.
func (s *AnalysisService) explainTerm(ctx context.Context, term string) domain.ExplainedTerm {
	result := domain.ExplainedTerm{
		Term:         term,
		Explanation:  domain.FallbackExplanation,
		ResourceLink: domain.DefaultResourceLink,
	}

	searchContext := s.searchTerm(ctx, term)
	if s.generator == nil {
		logger.Warn("Term %q: generator unavailable, using fallback", term)
		return result
	}

	explanation, url, err := s.generateExplanation(ctx, term, searchContext)
	if err != nil {
		logger.Warn("Term %q: explanation failed: %v", term, err)
		return result
	}

	if explanation != "" {
		result.Explanation = explanation
	}
	if url != "" {
		result.ResourceLink = url
	}

	return result
}

// searchTerm fetches web context for a term. Returns "" on any failure.
func (s *AnalysisService) searchTerm(ctx context.Context, term string) string {
	if s.webSearch == nil {
		logger.Debug("Term %q: web search unavailable", term)
		return ""
	}

	query := fmt.Sprintf("simple explanation of legal term %q in %s", term, s.settings.Jurisdiction)
	logger.Debug("Term %q: searching %q", term, query)

	digest, err := s.webSearch.Search(ctx, query)
	if err != nil {
		logger.Warn("Term %q: web search failed: %v", term, err)
		return ""
	}

	return digest
}

// termResponse is the structured-output shape requested from the generator.
type termResponse struct {
	Explanation string `json:"explanation"`
	URL         string `json:"url"`
}

// generateExplanation asks the generator to explain a term grounded in the
// search digest. It tries structured output first and falls back to marker
// parsing for providers without schema support.
func (s *AnalysisService) generateExplanation(
	ctx context.Context, term, searchContext string,
) (explanation, url string, err error) {
	basePrompt := fmt.Sprintf(
		"Explain the legal term %q in one or two simple sentences that a worker in India "+
			"with no legal background can understand. Also pick ONE trustworthy URL from the "+
			"search results below where they can learn more. If no search results are given "+
			"or none are suitable, leave the URL empty.\n\nSearch results:\n%s",
		term, searchContext,
	)

	structured, serr := s.generator.GenerateStructured(ctx, basePrompt, driven.ResponseSchema{
		Fields: map[string]string{
			"explanation": "A simple one-to-two sentence explanation of the term.",
			"url":         "A single trustworthy URL for further reading, or empty.",
		},
		Required: []string{"explanation"},
	})
	if serr == nil {
		var parsed termResponse
		if jerr := json.Unmarshal(structured, &parsed); jerr == nil {
			return strings.TrimSpace(parsed.Explanation), strings.TrimSpace(parsed.URL), nil
		}
		logger.Warn("Term %q: structured response was not valid JSON", term)
	} else if !errors.Is(serr, driven.ErrStructuredUnsupported) {
		return "", "", serr
	}

	// Marker fallback for generators without structured output.
	markerPrompt := basePrompt + "\n\nRespond in exactly this format:\nExplanation: <your explanation>\nURL: <the url, or nothing>"
	out, gerr := s.generator.Generate(ctx, markerPrompt, driven.GenerateOptions{})
	if gerr != nil {
		return "", "", gerr
	}

	explanation, url = parseMarkers(out)
	return explanation, url, nil
}

// parseTermList splits a comma-separated model response into clean terms,
// capped at the key-term limit.
func parseTermList(response string) []string {
	response = strings.TrimSpace(response)
	if response == "" {
		return nil
	}

	// Models sometimes prefix a label despite instructions.
	if idx := strings.Index(response, ":"); idx >= 0 && idx < 40 && !strings.Contains(response[:idx], ",") {
		response = response[idx+1:]
	}

	var terms []string
	for _, part := range strings.Split(response, ",") {
		term := strings.Trim(strings.TrimSpace(part), ".\"'`*")
		if term == "" {
			continue
		}
		terms = append(terms, term)
		if len(terms) == domain.MaxKeyTerms {
			break
		}
	}

	return terms
}

// parseMarkers extracts the Explanation: and URL: lines from a marker-format
// response. Either may be empty.
func parseMarkers(response string) (explanation, url string) {
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Explanation:"):
			explanation = strings.TrimSpace(strings.TrimPrefix(line, "Explanation:"))
		case strings.HasPrefix(line, "URL:"):
			url = strings.TrimSpace(strings.TrimPrefix(line, "URL:"))
		}
	}
	return explanation, url
}

// capContext truncates content to at most limit bytes so prompts stay
// within provider context windows. The cut point backs off to a rune
// boundary so multi-byte text is never split mid-character.
func capContext(content string, limit int) string {
	if limit <= 0 || len(content) <= limit {
		return content
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut]
}
