package domain

// DefaultResourceLink is the fallback resource for a key term when web
// search and generation produce no usable URL. Every key term must carry
// a user-facing link, so this is substituted rather than leaving the
// field empty.
const DefaultResourceLink = "https://www.indiacode.nic.in/"

// FallbackExplanation is substituted when the generator's response for a
// term cannot be parsed. The term still renders with user-facing content.
const FallbackExplanation = "A simple explanation could not be generated for this term. Please consult the linked resource."

// OverallAdvice is the fixed disclaimer appended to every report.
const OverallAdvice = "This is an automated analysis. For critical matters, please consult with a qualified legal professional."

// ExplainedTerm is a legal term identified in a document, with a plain
// language explanation and a resource link.
type ExplainedTerm struct {
	// Term is the legal term or jargon as identified.
	Term string `json:"term"`

	// Explanation is a simple plain-English explanation.
	// Never empty; falls back to FallbackExplanation.
	Explanation string `json:"explanation"`

	// ResourceLink is a URL for further reading.
	// Never empty; falls back to DefaultResourceLink.
	ResourceLink string `json:"resource_link"`
}

// Report is the structured result of the document analysis pipeline.
// Immutable after creation. Stage failures are absorbed into degraded
// but valid fields rather than surfaced as errors.
type Report struct {
	// Summary is a concise summary of the document's purpose and key
	// points. A placeholder when the generator was unavailable.
	Summary string `json:"summary"`

	// KeyTerms lists the explained legal terms in identification order.
	// Between 0 and MaxKeyTerms entries.
	KeyTerms []ExplainedTerm `json:"key_terms"`

	// OverallAdvice is the fixed disclaimer.
	OverallAdvice string `json:"overall_advice"`
}

// MaxKeyTerms bounds the number of terms enriched per document.
const MaxKeyTerms = 5
