package reply

import "strings"

// Parse parses a raw model reply into a TripleResponse.
//
// The strict grammar splits the text on the literal delimiter "---" and
// treats recognized marker words as section headers; everything following a
// marker up to the next marker belongs to that section. Marker matching is
// case-insensitive and order-insensitive.
//
// When strict parsing leaves any section empty, the fallback grammar
// independently searches for the full anchors and slices text between them.
// If no anchors are present at all, the entire input becomes the main
// response. Missing sections are always filled with explicit placeholders —
// Parse never fails.
func Parse(raw string) TripleResponse {
	if parsed, ok := parseStrict(raw); ok {
		return parsed
	}

	return parseFallback(raw)
}

// parseStrict implements the primary marker grammar. It succeeds only when
// all three sections are present and non-empty.
func parseStrict(raw string) (TripleResponse, bool) {
	segments := strings.Split(raw, "---")

	sections := map[string]*strings.Builder{
		MarkerTaxonomyAnalysis: {},
		MarkerMainResponse:     {},
		MarkerMachineTrim:      {},
	}

	var current *strings.Builder
	for _, segment := range segments {
		marker := strings.ToUpper(strings.TrimSpace(segment))
		if builder, ok := sections[marker]; ok {
			current = builder
			continue
		}

		if current == nil {
			// Preamble before the first marker is discarded.
			continue
		}

		// A section body containing a literal "---" was split apart;
		// re-join it so content survives verbatim.
		if current.Len() > 0 {
			current.WriteString("---")
		}
		current.WriteString(segment)
	}

	parsed := TripleResponse{
		TaxonomyAnalysis: trimBlank(sections[MarkerTaxonomyAnalysis].String()),
		MainResponse:     trimBlank(sections[MarkerMainResponse].String()),
		MachineTrim:      trimBlank(sections[MarkerMachineTrim].String()),
	}

	if parsed.TaxonomyAnalysis == "" || parsed.MainResponse == "" || parsed.MachineTrim == "" {
		return TripleResponse{}, false
	}

	return parsed, true
}

// knownAnchors in the order they are expected on the wire. The fallback
// scanner uses them both as section starts and as terminators for the
// preceding section.
var knownAnchors = []string{
	AnchorTaxonomyAnalysis,
	AnchorMainResponse,
	AnchorMachineTrim,
}

// parseFallback slices sections between literal anchors, substituting
// placeholders for anything it cannot find.
func parseFallback(raw string) TripleResponse {
	analysis, analysisFound := sliceSection(raw, AnchorTaxonomyAnalysis)
	main, mainFound := sliceSection(raw, AnchorMainResponse)
	trim, trimFound := sliceSection(raw, AnchorMachineTrim)

	if !analysisFound && !mainFound && !trimFound {
		// No recognizable structure: the whole reply is the main response.
		return TripleResponse{
			TaxonomyAnalysis: PlaceholderTaxonomyAnalysis,
			MainResponse:     trimBlank(raw),
			MachineTrim:      PlaceholderMachineTrim,
		}
	}

	result := TripleResponse{
		TaxonomyAnalysis: PlaceholderTaxonomyAnalysis,
		MainResponse:     PlaceholderMainResponse,
		MachineTrim:      PlaceholderMachineTrim,
	}

	if s := trimBlank(analysis); analysisFound && s != "" {
		result.TaxonomyAnalysis = s
	}
	if s := trimBlank(main); mainFound && s != "" {
		result.MainResponse = s
	}
	if s := trimBlank(trim); trimFound && s != "" {
		result.MachineTrim = s
	}

	return result
}

// sliceSection returns the text between anchor and the next known anchor
// (or end of input). The second return reports whether the anchor was found.
func sliceSection(raw, anchor string) (string, bool) {
	start := indexFold(raw, anchor)
	if start < 0 {
		return "", false
	}
	start += len(anchor)

	end := len(raw)
	for _, other := range knownAnchors {
		if other == anchor {
			continue
		}

		if idx := indexFold(raw[start:], other); idx >= 0 && start+idx < end {
			end = start + idx
		}
	}

	return raw[start:end], true
}

// indexFold returns the byte offset in s of the first case-insensitive
// occurrence of substr. It compares equal-length windows in place rather
// than indexing into a case-folded copy, so offsets stay valid even when
// folding would change a rune's byte length (e.g. U+0131 uppercases to a
// one-byte "I").
func indexFold(s, substr string) int {
	if len(substr) == 0 {
		return 0
	}
	for i := 0; i+len(substr) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(substr)], substr) {
			return i
		}
	}
	return -1
}

// trimBlank removes surrounding blank lines and whitespace from a section
// body without touching interior content.
func trimBlank(s string) string {
	return strings.Trim(s, " \t\r\n")
}
