package meeting

import (
	"fmt"
	"strings"
	"time"

	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/transcript"
)

const basePrompt = `You are an assistant that extracts action items from meeting transcripts.
Identify every concrete piece of follow-up work that was agreed during the meeting.
Respond with a JSON object of the form:
{"action_items": [{"title": "...", "description": "...", "assignee": "...", "due_date": "YYYY-MM-DD", "priority": "Critical|High|Medium|Low", "type": "Task|Bug|Feature|Documentation|Research|FollowUp", "context": "exact sentence from the transcript"}]}
Only include items explicitly supported by the transcript. Leave assignee and due_date empty when the transcript does not state them. The context field must quote the transcript verbatim.`

var typeGuidance = map[Type]string{
	TypeStandup:         "This is a daily standup. Focus on blockers and short-term commitments mentioned for today or tomorrow. Keep items small and concrete.",
	TypeSprint:          "This is a sprint meeting. Extract committed backlog work, estimation follow-ups, and retrospective actions.",
	TypeArchitecture:    "This is an architecture discussion. Capture design decisions that require follow-up work, proofs of concept, and documentation tasks. Items may be larger in scope.",
	TypeIncident:        "This is an incident review. Extract remediation tasks, root-cause investigations, and monitoring improvements. Be precise; do not infer work that was not agreed.",
	TypeOneOnOne:        "This is a one-on-one. Extract personal commitments and career follow-ups agreed between the two participants.",
	TypeProjectPlanning: "This is a project planning meeting. Extract milestone deliverables, ownership assignments, and scheduled checkpoints.",
	TypeAllHands:        "This is an all-hands. Action items are rare; only extract explicitly assigned follow-ups.",
	TypeClient:          "This is a client meeting. Extract commitments made to the client, deliverables, and scheduled follow-ups.",
	TypeGeneral:         "Extract any clearly stated follow-up work.",
}

var consistencyRules = map[Language]string{
	LangEnglish: "The transcript is in English. Write titles and descriptions in English, starting each title with an action verb.",
	LangFrench:  "The transcript is in French. Write titles and descriptions in French, starting each title with an action verb (corriger, créer, préparer, ...). Keep names and dates exactly as written.",
	LangDutch:   "The transcript is in Dutch. Write titles and descriptions in Dutch, starting each title with an action verb (oplossen, maken, voorbereiden, ...). Keep names and dates exactly as written.",
	LangSerbian: "The transcript is in Serbian. Write titles and descriptions in Serbian, starting each title with an action verb (popraviti, napraviti, pripremiti, ...). Keep names and dates exactly as written.",
}

// Derive computes the extraction context for a parsed transcript: meeting
// type and language classification plus the prompt, generation parameters,
// validation rules, and confidence threshold that follow from them. Pure
// given the transcript text; no cross-job caching.
func Derive(t *transcript.Transcript) *Context {
	mt := DetectType(t.Title, t.Content, len(t.Participants))
	lang := DetectLanguage(t.Content)

	return &Context{
		MeetingType:         mt,
		Language:            lang,
		SystemPrompt:        composePrompt(mt, lang),
		Params:              deriveParams(mt),
		Rules:               deriveRules(mt, lang),
		ConfidenceThreshold: deriveThreshold(mt),
	}
}

// DefaultPrompt is the static extraction prompt used when context
// adaptation is disabled by configuration.
func DefaultPrompt() string {
	return composePrompt(TypeGeneral, LangEnglish)
}

// DefaultRules returns the validation rules applied when no derived
// context is available.
func DefaultRules() ValidationRules {
	return deriveRules(TypeGeneral, LangEnglish)
}

func composePrompt(mt Type, lang Language) string {
	var sb strings.Builder
	sb.WriteString(basePrompt)
	sb.WriteString("\n\n")
	sb.WriteString(typeGuidance[mt])
	sb.WriteString("\n\n")
	sb.WriteString(consistencyRules[lang])
	return sb.String()
}

func deriveParams(mt Type) GenerationParams {
	switch mt {
	case TypeStandup, TypeIncident:
		// High-precision categories: deterministic output, small budget.
		return GenerationParams{Temperature: 0.1, MaxTokens: 1500}
	case TypeArchitecture:
		return GenerationParams{Temperature: 0.3, MaxTokens: 4000}
	default:
		return GenerationParams{Temperature: 0.2, MaxTokens: 2500}
	}
}

func deriveRules(mt Type, lang Language) ValidationRules {
	rules := ValidationRules{
		RequiredFields:    []string{"title"},
		MaxDueDateHorizon: 90 * 24 * time.Hour,
		ActionVerbs:       actionVerbs[lang],
	}

	switch mt {
	case TypeStandup:
		rules.RequiredFields = []string{"title", "assignee"}
		rules.MaxDueDateHorizon = 14 * 24 * time.Hour
	case TypeIncident:
		rules.RequiredFields = []string{"title", "assignee", "priority"}
		rules.MaxDueDateHorizon = 30 * 24 * time.Hour
	case TypeProjectPlanning:
		rules.MaxDueDateHorizon = 180 * 24 * time.Hour
	}

	return rules
}

func deriveThreshold(mt Type) float64 {
	switch mt {
	case TypeStandup, TypeIncident:
		return 0.75
	default:
		return 0.7
	}
}

// ActionCues exposes the action-oriented phrase list for validators.
func ActionCues() []string {
	return actionCues
}

// Verbs returns the action-verb vocabulary for a language, falling back to
// English for unknown languages.
func Verbs(lang Language) []string {
	if v, ok := actionVerbs[lang]; ok {
		return v
	}
	return actionVerbs[LangEnglish]
}

// String implements fmt.Stringer for log output.
func (c *Context) String() string {
	return fmt.Sprintf("%s/%s (temp=%.1f, max_tokens=%d, threshold=%.2f)",
		c.MeetingType, c.Language, c.Params.Temperature, c.Params.MaxTokens, c.ConfidenceThreshold)
}
