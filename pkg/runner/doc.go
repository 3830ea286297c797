/*
Package runner implements the input loop of an aicode chat session.

It reads requests from a pluggable IOHandler, sanitizes chat text and routes it
to the session relay, and runs the side commands (copy, save, backend switch,
turn listing) itself. Replies are not rendered here: the relay drives the
surface directly.

# Key Components

  - Runner: the loop. It stops on exit/quit, EOF or interrupt and then waits
    for pending replies (a second interrupt stops waiting).
  - IOHandler: where requests come from (TextHandler for terminals, the jsonl
    adapter for panel hosts).
  - ParseLine: the line syntax of the text handler, including slash commands.

# Usage

	r := runner.NewRunner(session,
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
		runner.WithClipboard(os.Stdout),
	)
	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
