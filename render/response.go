package render

import (
	"net/http"

	"github.com/illuscio-dev/mimerender-go/mimetype"
)

// Response is a rendered handler result, ready to be written out.
type Response struct {
	// Rendered body.
	Body []byte
	// HTTP status returned by the handler.
	Status int
	// Chosen MIME type.
	MimeType mimetype.MimeType
	// Registered short name of MimeType.
	ShortName string
	// Character set configured on the negotiator, may be empty.
	Charset string
	// Whether the Accept header took part in choosing MimeType.
	Negotiated bool
}

// ContentType returns the Content-Type header value, with the charset parameter when
// one is configured.
func (response *Response) ContentType() string {
	if response.Charset == "" {
		return string(response.MimeType)
	}
	return string(response.MimeType) + "; charset=" + response.Charset
}

// Write sends the response through writer. Vary: Accept is added when the Accept
// header took part in the choice, so caches keep representations apart.
func (response *Response) Write(writer http.ResponseWriter) error {
	header := writer.Header()
	header.Set("Content-Type", response.ContentType())
	if response.Negotiated {
		header.Add("Vary", "Accept")
	}

	writer.WriteHeader(response.Status)
	_, err := writer.Write(response.Body)
	return err
}
