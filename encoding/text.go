package encoding

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Handles encoding to text/plain
type textEncoder struct{}

func (handler *textEncoder) Encode(
	engine ContentEngine, writer io.Writer, content interface{},
) error {
	var contentString string

	switch typed := content.(type) {
	case string:
		contentString = typed
	case *string:
		contentString = *typed
	case map[string]interface{}:
		contentString = textLines(typed)
	default:
		contentString = fmt.Sprint(content)
	}

	_, err := io.WriteString(writer, contentString)
	return err
}

// One "key: value" line per entry, sorted by key.
func textLines(values map[string]interface{}) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	builder := strings.Builder{}
	for _, key := range keys {
		builder.WriteString(key)
		builder.WriteString(": ")
		builder.WriteString(fmt.Sprint(values[key]))
		builder.WriteString("\n")
	}
	return builder.String()
}
