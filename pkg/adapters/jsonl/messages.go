package jsonl

import "github.com/aretw0/aicode/pkg/domain"

// Outbound commands.
const (
	CmdAddUserMessage          = "addUserMessage"
	CmdAddAIMessagePlaceholder = "addAIMessagePlaceholder"
	CmdUpdateAIMessage         = "updateAIMessage"
	CmdShowErrorMessage        = "showErrorMessage"
	CmdShowInformationMessage  = "showInformationMessage"
)

// Inbound commands.
const (
	CmdSendMessage = "sendMessage"
	CmdCopyCode    = "copyCode"
	CmdSaveCode    = "saveCode"
)

// Update types of updateAIMessage.
const (
	UpdateText = "text"
	UpdateCode = "code"
)

// Message is one line of the protocol in either direction.
type Message struct {
	Command string `json:"command"`
	Text    string `json:"text,omitempty"`
	ID      string `json:"id,omitempty"`

	// Type and Content belong to updateAIMessage. Content is a string for
	// "text" and a CodeContent for "code".
	Type    string `json:"type,omitempty"`
	Content any    `json:"content,omitempty"`

	// Context is the host editor's snapshot sent with sendMessage.
	Context *domain.EditorContext `json:"context,omitempty"`

	// Code, Language and Path belong to copyCode and saveCode.
	Code     string `json:"code,omitempty"`
	Language string `json:"language,omitempty"`
	Path     string `json:"path,omitempty"`
}

// CodeContent is the content of a code update.
type CodeContent struct {
	Text     string `json:"text"`
	Code     string `json:"code"`
	Language string `json:"language"`
}
