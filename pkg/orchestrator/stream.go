package orchestrator

import (
	"strings"

	"github.com/quillhq/scribe/pkg/reply"
)

// streamAccumulator collects raw reply deltas and progressively reveals
// only the main-response section. The raw text stays intact for the
// authoritative parse after the stream ends.
//
// Until the main-response anchor has arrived nothing is emitted; once it
// has, text after it is emitted as it accumulates, stopping at the next
// section anchor. Bytes that could be the start of an anchor are held
// back until the following deltas disambiguate them.
type streamAccumulator struct {
	emit func(string)

	raw       strings.Builder
	state     accumState
	emittedTo int
	trimming  bool
}

type accumState int

const (
	stateScanning accumState = iota
	stateEmitting
	stateDone
)

// anchors that terminate the main-response section if they appear after
// it. Matching is case-insensitive, like the fallback parse.
var stopAnchors = []string{
	reply.AnchorMachineTrim,
	reply.AnchorTaxonomyAnalysis,
}

func newStreamAccumulator(emit func(string)) *streamAccumulator {
	return &streamAccumulator{emit: emit, trimming: true}
}

// Add appends one raw delta and emits whatever main-response text it
// completes.
func (a *streamAccumulator) Add(delta string) {
	a.raw.WriteString(delta)

	if a.state == stateDone {
		return
	}

	s := a.raw.String()

	if a.state == stateScanning {
		idx := indexFold(s, reply.AnchorMainResponse)
		if idx < 0 {
			return
		}
		a.emittedTo = idx + len(reply.AnchorMainResponse)
		a.state = stateEmitting
	}

	// Stop at the next section anchor, if one has fully arrived.
	stop := -1
	for _, anchor := range stopAnchors {
		if idx := indexFold(s[a.emittedTo:], anchor); idx >= 0 {
			if stop < 0 || a.emittedTo+idx < stop {
				stop = a.emittedTo + idx
			}
		}
	}

	if stop >= 0 {
		a.emitChunk(s[a.emittedTo:stop])
		a.emittedTo = stop
		a.state = stateDone
		return
	}

	// Hold back any tail that could still grow into an anchor.
	safe := len(s) - anchorHoldback(s[a.emittedTo:])
	if safe > a.emittedTo {
		a.emitChunk(s[a.emittedTo:safe])
		a.emittedTo = safe
	}
}

// Raw returns everything accumulated so far, anchors included.
func (a *streamAccumulator) Raw() string {
	return a.raw.String()
}

// emitChunk forwards text to the caller, swallowing the whitespace that
// separates the anchor from the section body.
func (a *streamAccumulator) emitChunk(chunk string) {
	if a.trimming {
		chunk = strings.TrimLeft(chunk, " \t\r\n")
		if chunk == "" {
			return
		}
		a.trimming = false
	}

	a.emit(chunk)
}

// anchorHoldback returns the length of the longest suffix of s that is a
// proper case-insensitive prefix of any stop anchor.
func anchorHoldback(s string) int {
	held := 0
	for _, anchor := range stopAnchors {
		max := len(anchor) - 1
		if max > len(s) {
			max = len(s)
		}
		for k := max; k > held; k-- {
			if strings.EqualFold(s[len(s)-k:], anchor[:k]) {
				held = k
				break
			}
		}
	}
	return held
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
