package vault

// Well-known paths inside a vault. All components address vault content
// through these so the layout is defined in exactly one place.
const (
	// DirPlaybook is the root of the curated notes tree.
	DirPlaybook = "playbook"

	// PathInstructions is the single system-instructions file sent at the
	// top of every context bundle.
	PathInstructions = "playbook/tools/instructions-to-llm.md"

	// PathTaxonomy is the persistent taxonomy document.
	PathTaxonomy = "playbook/tools/taxonomy.json"

	// DirBoss holds notes about the user ("the boss").
	DirBoss = "playbook/boss"

	// DirPersonas holds one subdirectory of notes per persona.
	DirPersonas = "playbook/personas"

	// DirTools holds tool notes alongside the instructions file.
	DirTools = "playbook/tools"

	// DirJournal holds compact per-turn trims.
	DirJournal = "journal"

	// DirSuperjournal holds full, unabridged turns.
	DirSuperjournal = "superjournal"
)

// PersonaDir returns the notes directory for a persona.
func PersonaDir(persona string) string {
	return DirPersonas + "/" + persona
}
