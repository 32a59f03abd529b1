package encoding

import (
	"io"
)

// Writes canonical CBOR (RFC 7049 / 8949), so equal payloads give equal bytes.
type cborEncoder struct{}

func (encoder *cborEncoder) Encode(
	engine ContentEngine, writer io.Writer, content interface{},
) error {
	contentEngine := engine.(*Engine)
	return contentEngine.cborMode.NewEncoder(writer).Encode(content)
}
