package http

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/aicode/pkg/domain"
)

// Responder produces the reply to one chat request. Returning a
// *domain.HTTPError sends that status and body to the client.
type Responder interface {
	Respond(ctx context.Context, req domain.OutboundPayload) (domain.RenderedContent, error)
}

// ResponderFunc adapts a function to Responder.
type ResponderFunc func(ctx context.Context, req domain.OutboundPayload) (domain.RenderedContent, error)

func (f ResponderFunc) Respond(ctx context.Context, req domain.OutboundPayload) (domain.RenderedContent, error) {
	return f(ctx, req)
}

const sampleCode = `def greet(name):
    return f"Hello, {name}!"

print(greet("World"))
`

// Echo answers with a Python sample when the message asks for code or
// "hello world", and echoes the message otherwise.
var Echo = ResponderFunc(func(_ context.Context, req domain.OutboundPayload) (domain.RenderedContent, error) {
	msg := strings.ToLower(req.Message)
	if strings.Contains(msg, "code") || strings.Contains(msg, "hello world") {
		return domain.NewCodeSuggestion("Here is a simple Python 'Hello, World!' example:", sampleCode, "python")
	}
	return domain.NewText(fmt.Sprintf("Backend successfully processed: '%s'", req.Message)), nil
})
