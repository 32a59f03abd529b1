package mimetype

import (
	"github.com/illuscio-dev/mimerender-go/mimeerrors"
)

// Short names of the representations registered by NewRegistry.
const (
	ShortJSON  = "json"
	ShortXML   = "xml"
	ShortYAML  = "yaml"
	ShortXHTML = "xhtml"
	ShortHTML  = "html"
	ShortTXT   = "txt"
	ShortCSV   = "csv"
	ShortTSV   = "tsv"
	ShortRSS   = "rss"
	ShortRDF   = "rdf"
	ShortATOM  = "atom"
	ShortM3U   = "m3u"
	ShortPLS   = "pls"
	ShortXSPF  = "xspf"
	ShortICAL  = "ical"
	ShortKML   = "kml"
	ShortKMZ   = "kmz"
)

type registryEntry struct {
	shortName string
	mimeTypes []MimeType
}

var defaultEntries = []registryEntry{
	{ShortJSON, []MimeType{JSON}},
	{ShortXML, []MimeType{XML, "text/xml", "application/x-xml"}},
	{ShortYAML, []MimeType{YAML, "text/yaml"}},
	{ShortXHTML, []MimeType{"application/xhtml+xml"}},
	{ShortHTML, []MimeType{HTML}},
	{ShortTXT, []MimeType{TEXT}},
	{ShortCSV, []MimeType{"text/csv"}},
	{ShortTSV, []MimeType{"text/tab-separated-values"}},
	{ShortRSS, []MimeType{"application/rss+xml"}},
	{ShortRDF, []MimeType{"application/rdf+xml"}},
	{ShortATOM, []MimeType{"application/atom+xml"}},
	{
		ShortM3U,
		[]MimeType{
			"audio/x-mpegurl",
			"application/x-winamp-playlist",
			"audio/mpeg-url",
			"audio/mpegurl",
		},
	},
	{ShortPLS, []MimeType{"audio/x-scpls"}},
	{ShortXSPF, []MimeType{"application/xspf+xml"}},
	{ShortICAL, []MimeType{"text/calendar"}},
	{ShortKML, []MimeType{"application/vnd.google-earth.kml+xml"}},
	{ShortKMZ, []MimeType{"application/vnd.google-earth.kmz"}},
}

/*
Registry maps short symbolic names like "json" to the ordered MIME types they stand
for. The first type of each entry is the canonical one. Reverse lookups scan entries
in registration order, so if a MIME type were ever listed under two short names the
first registered one wins.

Registration is additive and expected to happen once at process start. Registry does
no locking: share it freely between goroutines as long as nothing registers after
requests start being served.
*/
type Registry struct {
	entries []registryEntry
	index   map[string]int
}

// NewRegistry returns a registry pre-populated with the default short names.
func NewRegistry() *Registry {
	registry := &Registry{index: make(map[string]int)}
	for _, entry := range defaultEntries {
		// Default entries are unique, so this cannot fail.
		_ = registry.Register(entry.shortName, entry.mimeTypes...)
	}
	return registry
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the shared process registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds a short name for mimeTypes. Returns a DuplicateRegistration error if
// the short name already exists, leaving the original mapping untouched.
func (registry *Registry) Register(shortName string, mimeTypes ...MimeType) error {
	if _, ok := registry.index[shortName]; ok {
		return mimeerrors.DuplicateRegistration.New(
			"short name \""+shortName+"\" has already been registered",
			map[string]interface{}{"shortName": shortName},
			nil,
		)
	}
	if len(mimeTypes) == 0 {
		return mimeerrors.UnknownMimeType.New(
			"short name \""+shortName+"\" registered without mime types",
			map[string]interface{}{"shortName": shortName},
			nil,
		)
	}

	normalized := make([]MimeType, len(mimeTypes))
	for i, mimeType := range mimeTypes {
		normalized[i] = Normalize(string(mimeType))
	}

	registry.index[shortName] = len(registry.entries)
	registry.entries = append(
		registry.entries, registryEntry{shortName: shortName, mimeTypes: normalized},
	)
	return nil
}

// TypesFor returns the MIME types registered for shortName, canonical type first.
func (registry *Registry) TypesFor(shortName string) ([]MimeType, error) {
	position, ok := registry.index[shortName]
	if !ok {
		return nil, mimeerrors.UnknownShortName.New(
			"no mime type for short name \""+shortName+"\"",
			map[string]interface{}{"shortName": shortName},
			nil,
		)
	}

	// Copy so callers cannot edit the registry through the returned slice.
	mimeTypes := registry.entries[position].mimeTypes
	result := make([]MimeType, len(mimeTypes))
	copy(result, mimeTypes)
	return result, nil
}

// CanonicalType returns the first MIME type registered for shortName.
func (registry *Registry) CanonicalType(shortName string) (MimeType, error) {
	mimeTypes, err := registry.TypesFor(shortName)
	if err != nil {
		return UNKNOWN, err
	}
	return mimeTypes[0], nil
}

// ShortNameFor returns the first registered short name listing mimeType. Case and
// media type parameters are ignored.
func (registry *Registry) ShortNameFor(mimeType MimeType) (string, error) {
	wanted := Normalize(string(mimeType))
	for _, entry := range registry.entries {
		for _, registered := range entry.mimeTypes {
			if registered == wanted {
				return entry.shortName, nil
			}
		}
	}

	return "", mimeerrors.UnknownMimeType.New(
		"no short name for type \""+string(mimeType)+"\"",
		map[string]interface{}{"mimeType": string(mimeType)},
		nil,
	)
}

// ShortNames lists registered short names in registration order.
func (registry *Registry) ShortNames() []string {
	names := make([]string, len(registry.entries))
	for i, entry := range registry.entries {
		names[i] = entry.shortName
	}
	return names
}
