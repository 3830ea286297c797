package protocol

// Response types understood on the wire.
const (
	TypeText           = "text"
	TypeCodeSuggestion = "code_suggestion"
)

// Response is the backend reply envelope.
type Response struct {
	ResponseType string   `json:"response_type"`
	Content      *Content `json:"content"`
}

// Content carries the variant fields. Text is a pointer so that a missing
// field can be told apart from an empty one.
type Content struct {
	Text     *string `json:"text,omitempty"`
	Code     string  `json:"code,omitempty"`
	Language string  `json:"language,omitempty"`
}
