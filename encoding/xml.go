package encoding

import (
	"encoding/xml"
	"io"
	"sort"
	"unicode"

	"golang.org/x/xerrors"
)

const defaultXMLRoot = "response"

// xmlMap lets a payload map be written as one element per key, in sorted key order.
type xmlMap struct {
	root   string
	values map[string]interface{}
}

func (m xmlMap) MarshalXML(encoder *xml.Encoder, start xml.StartElement) error {
	if !isXMLName(m.root) {
		return xerrors.Errorf("invalid xml element name %q", m.root)
	}
	start.Name = xml.Name{Local: m.root}
	if err := encoder.EncodeToken(start); err != nil {
		return err
	}

	keys := make([]string, 0, len(m.values))
	for key := range m.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := encodeXMLValue(encoder, key, m.values[key]); err != nil {
			return err
		}
	}

	return encoder.EncodeToken(xml.EndElement{Name: start.Name})
}

// Writes value as <name>...</name>, descending into nested maps and slices.
func encodeXMLValue(encoder *xml.Encoder, name string, value interface{}) error {
	if !isXMLName(name) {
		return xerrors.Errorf("invalid xml element name %q", name)
	}

	switch typed := value.(type) {
	case map[string]interface{}:
		return encoder.EncodeElement(
			xmlMap{root: name, values: typed},
			xml.StartElement{Name: xml.Name{Local: name}},
		)
	case []interface{}:
		for _, item := range typed {
			if err := encodeXMLValue(encoder, name, item); err != nil {
				return err
			}
		}
		return nil
	default:
		return encoder.EncodeElement(value, xml.StartElement{Name: xml.Name{Local: name}})
	}
}

// Reports whether name can be used as an element name: a letter, '_' or ':' followed
// by letters, digits, '_', ':', '-' or '.'.
func isXMLName(name string) bool {
	if name == "" {
		return false
	}
	for i, char := range name {
		switch {
		case unicode.IsLetter(char) || char == '_' || char == ':':
		case i > 0 && (unicode.IsDigit(char) || char == '-' || char == '.' ||
			unicode.Is(unicode.Mn, char) || unicode.Is(unicode.Mc, char)):
		default:
			return false
		}
	}
	return true
}

type xmlEncoder struct{}

func (encoder *xmlEncoder) Encode(
	engine ContentEngine, writer io.Writer, content interface{},
) error {
	contentEngine := engine.(*Engine)

	if payload, ok := content.(map[string]interface{}); ok {
		content = xmlMap{root: contentEngine.xmlRoot, values: payload}
	}

	xmlEncoder := xml.NewEncoder(writer)
	if err := xmlEncoder.Encode(content); err != nil {
		return err
	}
	return xmlEncoder.Flush()
}
