/*
Package jsonl speaks the panel message protocol over newline-delimited JSON,
so that an editor extension or any other host can embed an aicode session.

Outbound messages (one object per line):

	{"command":"addUserMessage","text":"..."}
	{"command":"addAIMessagePlaceholder","id":"response-1"}
	{"command":"updateAIMessage","id":"response-1","type":"text","content":"..."}
	{"command":"updateAIMessage","id":"response-1","type":"code","content":{"text":"...","code":"...","language":"..."}}
	{"command":"showErrorMessage","text":"..."}
	{"command":"showInformationMessage","text":"..."}

Inbound messages:

	{"command":"sendMessage","text":"...","context":{"fileContent":"...","filePath":"..."}}
	{"command":"copyCode","code":"..."}
	{"command":"saveCode","code":"...","language":"...","path":"..."}

The optional context of sendMessage is sent to the backend with that message
only, in place of any file attached with --file.
*/
package jsonl
