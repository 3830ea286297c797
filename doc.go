/*
Package aicode relays chat messages between an interactive panel and a remote
assistant backend.

A session is a Relay: every submission gets a TurnID, the panel is told to show
the user message and a pending placeholder, and the backend exchange runs in
the background. When the reply arrives, or the exchange fails, the placeholder
with that TurnID is resolved. Replies are either plain text or a code
suggestion with an optional language tag.

# Usage

	surface := text.New(os.Stdout)
	session := aicode.New(surface,
		aicode.WithBackend(domain.BackendConfig{Host: "127.0.0.1", Port: 8000}),
	)
	defer session.Close()

	id, ok := session.SubmitTurn("write hello world in python")
	if ok {
		turn, _ := session.Await(ctx, id)
		fmt.Println(turn.Status)
	}

The cmd/aicode binary wraps the same session in a terminal panel (TUI, plain
text or NDJSON for editor integrations), an MCP server and a reference
backend.

# Failures

Exchange failures never escape the Relay. The turn is marked failed and its
placeholder shows a readable message: HTTP errors carry the status and body,
refused connections name the configured backend URL, and replies of an
unknown shape are reported as such.
*/
package aicode
