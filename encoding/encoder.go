package encoding

import (
	"io"
)

// Encoder is the interface for defining a content encoder.
type Encoder interface {
	// To be implemented by content encoder. Implementation is expected to write content
	// to writer. The content engine which is calling Encode is made available through
	// engine, allowing encoders to access engine-level settings.
	Encode(engine ContentEngine, writer io.Writer, content interface{}) error
}

// EncoderFunc lets an ordinary function act as an Encoder.
type EncoderFunc func(writer io.Writer, content interface{}) error

// Encode calls function(writer, content).
func (function EncoderFunc) Encode(
	engine ContentEngine, writer io.Writer, content interface{},
) error {
	return function(writer, content)
}
