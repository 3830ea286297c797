/*
Package backend implements the Backend Client: one HTTP exchange per turn
against the assistant service's chat endpoint.

Failures are classified into the domain error taxonomy so that the relay can
render them without knowing about HTTP:

  - *domain.HTTPError for non-2xx replies, body kept verbatim.
  - *domain.ConnectionError for transport failures and malformed bodies.
  - domain.ErrUnrecognizedResponse for well-formed replies of unknown shape.

Only transport failures are retried, and only when BackendConfig.Retries > 0.
*/
package backend
