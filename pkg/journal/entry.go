// Package journal persists conversation turns in the vault as one markdown
// file per entry.
//
// Two stores share the same document shape — a "---"-delimited front-matter
// block of key:value lines followed by a two-speaker transcript:
//
//	---
//	timestamp: 2025-07-24 14:09:00
//	persona: Ana
//	---
//
//	Boss: how do I ...
//
//	Ana: you ...
//
// The journal stores compact trims (with indexing metadata in the front
// matter); the superjournal stores full, unabridged turns. Entries are
// written once and never mutated. The front-matter format is a small
// dedicated codec, not a general markup library, so round-trips are exact.
package journal

import "time"

// Trim is a compact, persona-authored summary of one turn, plus the
// indexing metadata extracted from the model's taxonomy analysis.
type Trim struct {
	Timestamp       time.Time
	Persona         string
	BossInput       string
	PersonaResponse string
	TopicHierarchy  []string
	Keywords        []string
	Dependencies    []string
	Sentiment       string
}

// FullTurn is one complete user message and model reply.
type FullTurn struct {
	Timestamp   time.Time
	Persona     string
	BossText    string
	PersonaText string
}

const (
	// timestampLayout is the front-matter timestamp format.
	timestampLayout = "2006-01-02 15:04:05"

	// filenameLayout names entry files to the minute. Two entries in the
	// same minute collide and the later write wins — a documented
	// limitation of the filename-as-key scheme.
	filenameLayout = "2006-01-02-1504"

	// bossSpeaker labels the user's side of every transcript.
	bossSpeaker = "Boss"
)

// TrimPrefix and FullTurnPrefix distinguish the two stores' files.
const (
	TrimPrefix     = "Trim-"
	FullTurnPrefix = "FullTurn-"
)
