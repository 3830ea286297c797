package backend

import (
	"errors"
	"strings"
	"syscall"

	"github.com/aretw0/aicode/pkg/domain"
	"github.com/aretw0/aicode/pkg/protocol"
)

// classifyTransport maps an error from the HTTP round trip to a ConnectionError.
func classifyTransport(err error, addr string) *domain.ConnectionError {
	kind := domain.ConnOther
	if errors.Is(err, syscall.ECONNREFUSED) || strings.Contains(err.Error(), "connection refused") {
		kind = domain.ConnRefused
	}
	return &domain.ConnectionError{Kind: kind, Addr: addr, Err: err}
}

// isTransport reports whether the failure happened on the wire, as opposed to
// a reply that arrived but could not be parsed.
func isTransport(err *domain.ConnectionError) bool {
	var syntaxErr *protocol.SyntaxError
	return !errors.As(err, &syntaxErr)
}
