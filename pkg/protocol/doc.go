// Package protocol maps backend reply bodies to domain.RenderedContent and back.
//
// A reply is an object with a "response_type" discriminator and a "content"
// object. Unknown discriminators and malformed variants fail closed with
// domain.ErrUnrecognizedResponse.
package protocol
