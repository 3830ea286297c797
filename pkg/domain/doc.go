/*
Package domain contains the core models of the aicode chat session protocol.

It defines the entities exchanged between the Session Relay, the Backend Client
and the hosting surface. This package is kept pure and free of I/O, following
Hexagonal Architecture principles.

# Key Entities

  - Turn: one user submission and its eventual resolved or failed reply.
  - TurnID: the correlation identifier linking a submission to its resolution.
  - RenderedContent: the variant-typed assistant reply (Text or CodeSuggestion).
  - OutboundPayload: the request body sent to the assistant backend.
  - BackendConfig: where and how the backend is reached.
*/
package domain
