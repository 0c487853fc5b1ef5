package deps

// SuggestionKind identifies the category of a fix suggestion.
type SuggestionKind string

const (
	SuggestInstallMissing     SuggestionKind = "install-missing"
	SuggestUpdateOutdated     SuggestionKind = "update-outdated"
	SuggestResolveConflict    SuggestionKind = "resolve-conflict"
	SuggestRegenerateLockfile SuggestionKind = "regenerate-lockfile"
)

// ActionKind is the kind of a single executable fix step.
type ActionKind string

const (
	ActionInstall            ActionKind = "install"
	ActionUpdate             ActionKind = "update"
	ActionRemove             ActionKind = "remove"
	ActionRegenerateLockfile ActionKind = "regenerate-lockfile"
)

// FixAction is one concrete step of a suggestion. Command, when set, is the
// equivalent shell command shown to the user; execution always goes through
// the package-manager adapter.
type FixAction struct {
	Kind    ActionKind `json:"kind"`
	Package string     `json:"package,omitempty"`
	Version string     `json:"version,omitempty"`
	Command string     `json:"command,omitempty"`
}

// FixSuggestion is one ranked, actionable recommendation. A suggestion with
// no actions is advisory only.
type FixSuggestion struct {
	Kind            SuggestionKind `json:"kind"`
	Description     string         `json:"description"`
	Risk            RiskLevel      `json:"risk"`
	Actions         []FixAction    `json:"actions"`
	EstimatedImpact string         `json:"estimated_impact"`
}
