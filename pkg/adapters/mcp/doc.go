// Package mcp exposes a chat session to MCP clients: a chat tool that waits
// for the reply, plus list_turns, get_code and a turns resource.
package mcp
