package domain

// ChatScopeCombined asks about the entry and exit dashboards together.
const ChatScopeCombined = "combined"

// Answer is the assistant's reply to a question.
type Answer struct {
	Scope      string `json:"scope"`
	Text       string `json:"answer"`
	UsedModel  bool   `json:"usedModel"`
	ModelError string `json:"modelError,omitempty"`
}
