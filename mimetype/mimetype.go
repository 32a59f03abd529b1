// Enumeration-like type for content mimetypes and the short names they are known by.
package mimetype

import (
	"strings"
)

/*
MimeType is used to enumerate the default representation for content encoding types.
Non default MimeTypes can be used by wrapping a custom string:

	MimeType("text/csv")
*/
type MimeType string

const (
	JSON = MimeType("application/json")
	BSON = MimeType("application/bson")
	YAML = MimeType("application/x-yaml")
	CBOR = MimeType("application/cbor")
	XML  = MimeType("application/xml")
	HTML = MimeType("text/html")
	TEXT = MimeType("text/plain")
	// UNKNOWN is used when the incoming string is blank
	UNKNOWN = MimeType("")
)

// List of default mimeTypes that are encoded from objects (as opposed to raw text).
var objectMimeTypes = []MimeType{JSON, BSON, YAML, CBOR, XML}

// Interface for object used to set headers such as http.Request.Header or
// http.Response.Header
type headerFetcher interface {
	Get(string) string
}

// FromHeader extracts the content type from a message / request header.
func FromHeader(headers headerFetcher) MimeType {
	return FromString(headers.Get("Content-Type"))
}

/*
FromString converts a MimeType from a string. Ignores case and parameters. If the
MimeType is a default object type, multiple formats are respected. For instance, all
of the following will yield "mimetype.JSON":

• "application/json"

• "application/JSON; charset=utf-8"

• "application/x-json"

• "json"

• "x-json"
*/
func FromString(incoming string) MimeType {
	incoming = string(Normalize(incoming))

	if incoming == "" {
		return UNKNOWN
	}
	if incoming == "text/plain" || incoming == "text" {
		return TEXT
	}

	for _, mimeType := range objectMimeTypes {
		if strings.HasSuffix(incoming, mimeType.bareSubtype()) {
			return mimeType
		}
	}

	return MimeType(incoming)
}

// Normalize lower-cases a media type and drops its parameters, so
// "Text/HTML; charset=utf-8" becomes "text/html".
func Normalize(incoming string) MimeType {
	if index := strings.IndexByte(incoming, ';'); index >= 0 {
		incoming = incoming[:index]
	}
	return MimeType(strings.ToLower(strings.TrimSpace(incoming)))
}

// Type returns the part of the media type before the slash.
func (mimeType MimeType) Type() string {
	split := strings.SplitN(string(mimeType), "/", 2)
	return split[0]
}

// Subtype returns the part of the media type after the slash, or "" if there is none.
func (mimeType MimeType) Subtype() string {
	split := strings.SplitN(string(mimeType), "/", 2)
	if len(split) < 2 {
		return ""
	}
	return split[1]
}

// subtype without an "x-" experimental prefix.
func (mimeType MimeType) bareSubtype() string {
	return strings.TrimPrefix(mimeType.Subtype(), "x-")
}

func (mimeType MimeType) String() string {
	return string(mimeType)
}
