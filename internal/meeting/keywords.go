package meeting

// weightedKeyword pairs a lowercase phrase with its classification weight.
// Tables are data, not control flow: tuning a category never touches logic.
type weightedKeyword struct {
	phrase string
	weight int
}

var typeKeywords = map[Type][]weightedKeyword{
	TypeStandup: {
		{"standup", 5},
		{"stand-up", 5},
		{"daily", 3},
		{"yesterday", 2},
		{"today", 2},
		{"blocker", 3},
		{"blocked", 2},
		{"scrum", 3},
	},
	TypeSprint: {
		{"sprint", 5},
		{"backlog", 4},
		{"story points", 4},
		{"velocity", 3},
		{"retrospective", 4},
		{"refinement", 3},
		{"grooming", 3},
		{"user story", 3},
	},
	TypeArchitecture: {
		{"architecture", 5},
		{"design review", 4},
		{"technical design", 4},
		{"scalability", 3},
		{"microservice", 3},
		{"api design", 3},
		{"database schema", 3},
		{"infrastructure", 2},
		{"tradeoff", 2},
	},
	TypeIncident: {
		{"incident", 5},
		{"outage", 5},
		{"postmortem", 5},
		{"post-mortem", 5},
		{"root cause", 4},
		{"downtime", 3},
		{"severity", 3},
		{"rollback", 3},
		{"on-call", 2},
	},
	TypeOneOnOne: {
		{"one-on-one", 5},
		{"1:1", 5},
		{"1-on-1", 5},
		{"career", 3},
		{"feedback", 2},
		{"growth", 2},
		{"check-in", 2},
	},
	TypeProjectPlanning: {
		{"roadmap", 4},
		{"milestone", 4},
		{"project plan", 5},
		{"timeline", 3},
		{"deliverable", 3},
		{"quarter", 2},
		{"kickoff", 3},
		{"scope", 2},
	},
	TypeAllHands: {
		{"all hands", 5},
		{"all-hands", 5},
		{"town hall", 5},
		{"company update", 4},
		{"announcement", 3},
		{"quarterly results", 3},
		{"welcome", 1},
	},
	TypeClient: {
		{"client", 4},
		{"customer", 4},
		{"demo", 3},
		{"contract", 3},
		{"proposal", 3},
		{"stakeholder", 2},
		{"requirements", 2},
		{"onboarding", 2},
	},
}

// languageWords holds small per-language function-word lists. Matches are
// whole-word only; shared words across languages simply contribute to both
// scores and wash out.
var languageWords = map[Language][]string{
	LangEnglish: {"the", "and", "with", "will", "have", "this", "that", "from", "should", "about"},
	LangFrench:  {"le", "la", "les", "et", "nous", "vous", "avec", "pour", "dans", "est"},
	LangDutch:   {"de", "het", "een", "en", "wij", "met", "voor", "naar", "zijn", "deze"},
	LangSerbian: {"je", "da", "se", "na", "za", "su", "ovo", "kao", "ali", "smo"},
}

// actionVerbs per language feed the structural validator and the
// keyword-validation guard.
var actionVerbs = map[Language][]string{
	LangEnglish: {"fix", "create", "update", "review", "implement", "investigate", "write", "schedule", "prepare", "deploy", "test", "document", "follow", "send", "complete"},
	LangFrench:  {"corriger", "créer", "mettre", "réviser", "implémenter", "préparer", "envoyer", "planifier", "tester", "documenter"},
	LangDutch:   {"oplossen", "maken", "bijwerken", "controleren", "implementeren", "voorbereiden", "sturen", "plannen", "testen", "documenteren"},
	LangSerbian: {"popraviti", "napraviti", "ažurirati", "pregledati", "implementirati", "pripremiti", "poslati", "planirati", "testirati"},
}

// actionCues are phrases whose presence indicates action-oriented content at
// all; their total absence despite extracted items is a validation red flag.
var actionCues = []string{
	"action item", "todo", "to-do", "follow up", "follow-up",
	"will ", "needs to", "should ", "must ", "assigned to", "due ",
}
