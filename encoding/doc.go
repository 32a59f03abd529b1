/*
Encoding of rendered payloads into response bodies.

The goal of this package is a single place where support for a content type is added
once and gotten for free by every negotiating handler: an Engine maps MIME types to
Encoders, and Engine.Renderer adapts any of them into a renderer function that turns a
handler payload into a response body.

# Specific objectives

1. Handlers return plain payloads and never call a mimetype-specific encoder.

2. Support for a mimetype is added to a shared Engine, not to each handler.

3. Developers can extend every service to a new content type by registering their own
Encoder with SetEncoder.
*/
package encoding
