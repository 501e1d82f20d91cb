// Package meeting classifies transcript content into a meeting type and
// language, and derives the extraction context (prompt, generation
// parameters, validation rules) that guides one extraction run. Derivation
// is pure with respect to the transcript text and is recomputed per job.
package meeting

import "time"

// Type identifies the kind of meeting a transcript captures.
type Type string

// Meeting types, scored from curated keyword tables.
const (
	TypeStandup         Type = "standup"
	TypeSprint          Type = "sprint"
	TypeArchitecture    Type = "architecture"
	TypeIncident        Type = "incident"
	TypeOneOnOne        Type = "one-on-one"
	TypeProjectPlanning Type = "project-planning"
	TypeAllHands        Type = "all-hands"
	TypeClient          Type = "client"
	TypeGeneral         Type = "general"
)

// Language identifies the detected transcript language.
type Language string

// Supported languages. English is the fixed default on ties or zero scores.
const (
	LangEnglish Language = "english"
	LangFrench  Language = "french"
	LangDutch   Language = "dutch"
	LangSerbian Language = "serbian"
)

// GenerationParams are the numeric inference parameters derived for a
// meeting type. High-precision categories run with a lower temperature and
// tighter token budget.
type GenerationParams struct {
	Temperature float64
	MaxTokens   int
}

// ValidationRules constrain extracted action items for a meeting type and
// language.
type ValidationRules struct {
	RequiredFields    []string
	MaxDueDateHorizon time.Duration
	ActionVerbs       []string
}

// Context bundles everything one extraction run needs: the classification,
// the composed system prompt, generation parameters, validation rules, and
// the hallucination confidence threshold. Never cached across jobs.
type Context struct {
	MeetingType         Type
	Language            Language
	SystemPrompt        string
	Params              GenerationParams
	Rules               ValidationRules
	ConfidenceThreshold float64
}
