/*
Package ports defines the interfaces that decouple the aicode session protocol
from its collaborators.

# Key Interfaces

  - Surface: the hosting panel that renders turn events.
  - Exchanger: performs one request/response exchange with the assistant backend.
  - ConfigSource: supplies the BackendConfig read once per exchange.
  - ContextProvider: snapshots the user's editing surface at send time.
*/
package ports
