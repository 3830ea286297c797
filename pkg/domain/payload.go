package domain

import "encoding/json"

// EditorContext is a best-effort snapshot of the user's editing surface at send time.
// Empty fields are valid.
type EditorContext struct {
	FileContent string `json:"fileContent,omitempty"`
	FilePath    string `json:"filePath,omitempty"`
}

// HistoryRole identifies the speaker of a HistoryEntry.
type HistoryRole string

const (
	RoleUser      HistoryRole = "user"
	RoleAssistant HistoryRole = "assistant"
)

// HistoryEntry is one prior message sent along with a new turn.
type HistoryEntry struct {
	Role    HistoryRole `json:"role"`
	Content string      `json:"content"`
}

// OutboundPayload is the request body of one exchange.
type OutboundPayload struct {
	Message string         `json:"message"`
	Context EditorContext  `json:"context"`
	History []HistoryEntry `json:"history"`
}

// MarshalJSON keeps "history" an array even when no entries are present.
func (p OutboundPayload) MarshalJSON() ([]byte, error) {
	type wire OutboundPayload
	w := wire(p)
	if w.History == nil {
		w.History = []HistoryEntry{}
	}
	return json.Marshal(w)
}
