package domain

import (
	"errors"
	"fmt"
)

// ContentKind discriminates the RenderedContent variants.
type ContentKind string

const (
	KindText           ContentKind = "text"
	KindCodeSuggestion ContentKind = "code_suggestion"
)

// TextContent is a plain text reply.
type TextContent struct {
	Body string `json:"body"`
}

// CodeSuggestion is a reply carrying code, with optional explanation and language tag.
type CodeSuggestion struct {
	Body     string `json:"body,omitempty"`
	Code     string `json:"code"`
	Language string `json:"language,omitempty"`
}

// RenderedContent is the normalized assistant reply.
// Exactly one of Text and Code is set, matching Kind.
type RenderedContent struct {
	Kind ContentKind     `json:"kind"`
	Text *TextContent    `json:"text,omitempty"`
	Code *CodeSuggestion `json:"code,omitempty"`
}

// ErrEmptyCode is returned when a code suggestion is built without code.
var ErrEmptyCode = errors.New("code suggestion without code")

// NewText builds the Text variant.
func NewText(body string) RenderedContent {
	return RenderedContent{Kind: KindText, Text: &TextContent{Body: body}}
}

// NewCodeSuggestion builds the CodeSuggestion variant. code must not be empty.
func NewCodeSuggestion(body, code, language string) (RenderedContent, error) {
	if code == "" {
		return RenderedContent{}, ErrEmptyCode
	}
	return RenderedContent{
		Kind: KindCodeSuggestion,
		Code: &CodeSuggestion{Body: body, Code: code, Language: language},
	}, nil
}

// Validate checks that exactly one variant is populated and consistent with Kind.
func (c RenderedContent) Validate() error {
	switch c.Kind {
	case KindText:
		if c.Text == nil || c.Code != nil {
			return fmt.Errorf("text content must carry only the text variant")
		}
	case KindCodeSuggestion:
		if c.Code == nil || c.Text != nil {
			return fmt.Errorf("code suggestion must carry only the code variant")
		}
		if c.Code.Code == "" {
			return ErrEmptyCode
		}
	default:
		return fmt.Errorf("unknown content kind %q", c.Kind)
	}
	return nil
}

// Match dispatches on the variant. Exactly one callback runs; an invalid value
// runs neither and returns the validation error.
func (c RenderedContent) Match(onText func(TextContent) error, onCode func(CodeSuggestion) error) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Kind == KindText {
		return onText(*c.Text)
	}
	return onCode(*c.Code)
}

// Clone returns a deep copy.
func (c RenderedContent) Clone() RenderedContent {
	out := RenderedContent{Kind: c.Kind}
	if c.Text != nil {
		t := *c.Text
		out.Text = &t
	}
	if c.Code != nil {
		cs := *c.Code
		out.Code = &cs
	}
	return out
}

// Summary returns the text a history entry or log line should carry for this reply.
func (c RenderedContent) Summary() string {
	switch {
	case c.Text != nil:
		return c.Text.Body
	case c.Code != nil:
		if c.Code.Body == "" {
			return c.Code.Code
		}
		return c.Code.Body + "\n" + c.Code.Code
	}
	return ""
}
