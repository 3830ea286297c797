/*
Package relay implements the Session Relay: it turns user submissions into
correlated turns, drives the placeholder lifecycle on a ports.Surface and runs
each exchange concurrently.

For every accepted submission the surface receives, in order:

	AddUserMessage(id, text)
	AddPendingPlaceholder(id)
	ResolvePlaceholder(id, content)   // later, from the exchange goroutine

Resolutions of different turns arrive in completion order. Failed exchanges
resolve the placeholder with a human-readable message; nothing propagates to
the caller and later submissions are unaffected.
*/
package relay
