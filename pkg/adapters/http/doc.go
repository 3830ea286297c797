// Package http is the reference assistant backend: the chat endpoint the
// panel talks to, validated against the embedded OpenAPI document.
//
// Replies come from a Responder. The default Echo responder mirrors the
// development backend the panel was built against: messages mentioning code
// get a code suggestion, everything else is echoed back.
package http
