// Best-match selection between a client's Accept header and the MIME types a handler
// can produce.
package negotiate

import (
	"strings"

	"github.com/illuscio-dev/mimerender-go/mimetype"
	"github.com/munnerz/goautoneg"
)

// Specificity of a media range matching a concrete MIME type.
const (
	noMatch = iota - 1
	fullWildcard
	partialWildcard
	exactMatch
)

// MediaRange is one clause of an Accept header.
type MediaRange struct {
	Type    string
	Subtype string
	Quality float64
}

// ParseAccept parses an Accept header into media ranges, roughly highest quality
// first. Type and subtype are lower-cased; a bare "*" is read as "*/*". Parameters must
// not have spaces around "=": "q = 0.5" is read as q=0.
func ParseAccept(header string) []MediaRange {
	clauses := goautoneg.ParseAccept(header)
	ranges := make([]MediaRange, 0, len(clauses))
	for _, clause := range clauses {
		mediaRange := MediaRange{
			Type:    strings.ToLower(clause.Type),
			Subtype: strings.ToLower(clause.SubType),
			Quality: clause.Q,
		}
		if mediaRange.Type == "" || mediaRange.Subtype == "" {
			continue
		}
		ranges = append(ranges, mediaRange)
	}
	return ranges
}

// specificity reports how precisely mediaRange covers mimeType.
func (mediaRange MediaRange) specificity(mimeType mimetype.MimeType) int {
	switch {
	case mediaRange.Type == "*" && mediaRange.Subtype == "*":
		return fullWildcard
	case mediaRange.Type != mimeType.Type():
		return noMatch
	case mediaRange.Subtype == "*":
		return partialWildcard
	case mediaRange.Subtype == mimeType.Subtype():
		return exactMatch
	default:
		return noMatch
	}
}

// Quality returns the weight the client gives mimeType, taken from the most specific
// range that matches it, and the specificity of that range. ok is false when no
// range matches.
func Quality(
	ranges []MediaRange, mimeType mimetype.MimeType,
) (quality float64, specificity int, ok bool) {
	specificity = noMatch
	for _, mediaRange := range ranges {
		thisSpecificity := mediaRange.specificity(mimeType)
		switch {
		case thisSpecificity > specificity:
			specificity = thisSpecificity
			quality = mediaRange.Quality
		case thisSpecificity == specificity && mediaRange.Quality > quality:
			// Repeated ranges of one specificity: the highest weight counts.
			quality = mediaRange.Quality
		}
	}
	return quality, specificity, specificity != noMatch
}

// BestMatch picks the entry of supported the client most prefers according to an
// Accept header.
//
// Each supported type gets the quality of the most specific range that matches it:
// an exact type/subtype beats "type/*", which beats "*/*". A quality of 0 marks the
// type as not acceptable. The type with the highest quality wins; ties go to the type
// matched more specifically, and remaining ties to the earlier entry of supported, so
// declaration order decides between equals.
//
// ok is false if the header is empty or nothing in it intersects supported.
func BestMatch(
	supported []mimetype.MimeType, header string,
) (match mimetype.MimeType, ok bool) {
	ranges := ParseAccept(header)
	if len(ranges) == 0 {
		return mimetype.UNKNOWN, false
	}

	bestQuality := 0.0
	bestSpecificity := noMatch

	for _, candidate := range supported {
		normalized := mimetype.Normalize(string(candidate))

		quality, specificity, matched := Quality(ranges, normalized)
		if !matched || quality <= 0 {
			continue
		}

		if quality > bestQuality ||
			(quality == bestQuality && specificity > bestSpecificity) {
			match = candidate
			bestQuality = quality
			bestSpecificity = specificity
			ok = true
		}
	}

	return match, ok
}
