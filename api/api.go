// Package api embeds the OpenAPI description of the backend chat protocol.
package api

import _ "embed"

// OpenAPI is api/openapi.yaml.
//
//go:embed openapi.yaml
var OpenAPI []byte
