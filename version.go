package aicode

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var rawVersion string

// Version is the release of this module, for example "v0.1.0".
var Version = strings.TrimSpace(rawVersion)

// UserAgent is sent with every backend request.
func UserAgent() string {
	return "aicode/" + Version
}
