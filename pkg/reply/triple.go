// Package reply parses the structured three-part wire format scribe expects
// from the language model.
//
// The model is asked to answer with three sections delimited by markers:
//
//	---TAXONOMY_ANALYSIS---
//	---MAIN_RESPONSE---
//	---MACHINE_TRIM---
//
// Models are not strict grammar emitters — markers occasionally shift order
// or get reworded — so parsing is two-tier: a strict marker grammar first,
// then an anchor-slicing fallback that degrades to placeholders instead of
// failing. All of the fragile text parsing for the system lives in this
// package so it can be tested exhaustively in isolation.
package reply

// Section markers as they appear between "---" delimiters.
const (
	MarkerTaxonomyAnalysis = "TAXONOMY_ANALYSIS"
	MarkerMainResponse     = "MAIN_RESPONSE"
	MarkerMachineTrim      = "MACHINE_TRIM"
)

// Full anchors used by the fallback grammar and by streaming scans.
const (
	AnchorTaxonomyAnalysis = "---" + MarkerTaxonomyAnalysis + "---"
	AnchorMainResponse     = "---" + MarkerMainResponse + "---"
	AnchorMachineTrim      = "---" + MarkerMachineTrim + "---"
)

// Placeholders substituted for sections the model failed to provide.
// Callers can compare against these to detect degraded parses.
const (
	PlaceholderTaxonomyAnalysis = "No taxonomy analysis provided"
	PlaceholderMainResponse     = "No main response provided"
	PlaceholderMachineTrim      = "No machine trim provided"
)

// TripleResponse is one parsed model reply: the taxonomy analysis used for
// indexing and evolution, the main response shown to the user, and the
// condensed trim stored in the journal.
type TripleResponse struct {
	TaxonomyAnalysis string
	MainResponse     string
	MachineTrim      string
}

// Degraded reports whether any section was replaced with a placeholder by
// the fallback grammar.
func (t TripleResponse) Degraded() bool {
	return t.TaxonomyAnalysis == PlaceholderTaxonomyAnalysis ||
		t.MainResponse == PlaceholderMainResponse ||
		t.MachineTrim == PlaceholderMachineTrim
}
