package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/aicode/pkg/domain"
)

// SyntaxError reports a reply body that is not valid JSON.
type SyntaxError struct {
	Err error
}

func (e *SyntaxError) Error() string { return "malformed reply body: " + e.Err.Error() }

func (e *SyntaxError) Unwrap() error { return e.Err }

// envelope defers decoding of content until the declared variant is known.
type envelope struct {
	ResponseType string          `json:"response_type"`
	Content      json.RawMessage `json:"content"`
}

// Decode parses a reply body into RenderedContent. Only the content fields
// of the declared variant are checked; others are ignored whatever their type.
func Decode(body []byte) (domain.RenderedContent, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return domain.RenderedContent{}, fmt.Errorf("%w: field %q has type %s", domain.ErrUnrecognizedResponse, typeErr.Field, typeErr.Value)
		}
		return domain.RenderedContent{}, &SyntaxError{Err: err}
	}
	if len(env.Content) == 0 || string(env.Content) == "null" {
		return FromWire(Response{ResponseType: env.ResponseType})
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(env.Content, &fields); err != nil {
		return domain.RenderedContent{}, fmt.Errorf("%w: content is not an object", domain.ErrUnrecognizedResponse)
	}
	content, err := variantContent(env.ResponseType, fields)
	if err != nil {
		return domain.RenderedContent{}, err
	}
	return FromWire(Response{ResponseType: env.ResponseType, Content: content})
}

// variantContent picks the fields responseType reads out of content.
func variantContent(responseType string, fields map[string]json.RawMessage) (*Content, error) {
	var c Content
	switch responseType {
	case TypeText:
		text, ok, err := stringField(fields, "text")
		if err != nil {
			return nil, err
		}
		if ok {
			c.Text = &text
		}
	case TypeCodeSuggestion:
		code, _, err := stringField(fields, "code")
		if err != nil {
			return nil, err
		}
		language, _, err := stringField(fields, "language")
		if err != nil {
			return nil, err
		}
		text, ok, err := stringField(fields, "text")
		if err != nil {
			return nil, err
		}
		c.Code, c.Language = code, language
		if ok {
			c.Text = &text
		}
	}
	return &c, nil
}

// stringField decodes fields[name]. An absent or null field is not an error.
func stringField(fields map[string]json.RawMessage, name string) (string, bool, error) {
	raw, ok := fields[name]
	if !ok || string(raw) == "null" {
		return "", false, nil
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false, fmt.Errorf("%w: content.%s is not a string", domain.ErrUnrecognizedResponse, name)
	}
	return v, true, nil
}

// FromWire converts a decoded envelope into RenderedContent.
func FromWire(resp Response) (domain.RenderedContent, error) {
	if resp.Content == nil {
		return domain.RenderedContent{}, fmt.Errorf("%w: missing content", domain.ErrUnrecognizedResponse)
	}
	switch resp.ResponseType {
	case TypeText:
		if resp.Content.Text == nil {
			return domain.RenderedContent{}, fmt.Errorf("%w: text reply without content.text", domain.ErrUnrecognizedResponse)
		}
		return domain.NewText(*resp.Content.Text), nil
	case TypeCodeSuggestion:
		var body string
		if resp.Content.Text != nil {
			body = *resp.Content.Text
		}
		content, err := domain.NewCodeSuggestion(body, resp.Content.Code, resp.Content.Language)
		if err != nil {
			return domain.RenderedContent{}, fmt.Errorf("%w: %v", domain.ErrUnrecognizedResponse, err)
		}
		return content, nil
	default:
		return domain.RenderedContent{}, fmt.Errorf("%w: response_type %q", domain.ErrUnrecognizedResponse, resp.ResponseType)
	}
}

// ToWire converts RenderedContent into the reply envelope.
func ToWire(content domain.RenderedContent) (Response, error) {
	var resp Response
	err := content.Match(
		func(t domain.TextContent) error {
			body := t.Body
			resp = Response{ResponseType: TypeText, Content: &Content{Text: &body}}
			return nil
		},
		func(c domain.CodeSuggestion) error {
			resp = Response{ResponseType: TypeCodeSuggestion, Content: &Content{Code: c.Code, Language: c.Language}}
			if c.Body != "" {
				body := c.Body
				resp.Content.Text = &body
			}
			return nil
		},
	)
	return resp, err
}

// Encode renders content as a reply body.
func Encode(content domain.RenderedContent) ([]byte, error) {
	resp, err := ToWire(content)
	if err != nil {
		return nil, err
	}
	return json.Marshal(resp)
}
