package encoding

import (
	"bytes"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/illuscio-dev/mimerender-go/mimetype"
	"github.com/ugorji/go/codec"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"golang.org/x/xerrors"
)

// Type helpers
type encoderMapping map[mimetype.MimeType]Encoder

// RenderFunc turns a handler payload into a response body.
type RenderFunc = func(payload map[string]interface{}) (interface{}, error)

/*
ContentEngine details the contract for a content encoding engine. The goal of the
content engine is to allow a common encoding methodology for any supported mimetype,
so a negotiating handler can answer in whichever representation the client asked for.
*/
type ContentEngine interface {
	// Registers an encoder for a given mimetype.
	SetEncoder(mimeType mimetype.MimeType, encoder Encoder)

	// Returns true if the engine has a registered encoder for the mimetype.
	HandlesEncode(mimeType mimetype.MimeType) bool

	// Encode content as mimetype using the registered encoder to writer.
	Encode(
		mimeType mimetype.MimeType,
		content interface{},
		writer io.Writer,
	) error

	// Returns a renderer that encodes payloads as mimeType.
	Renderer(mimeType mimetype.MimeType) RenderFunc
}

/*
Engine is the default implementation of the ContentEngine interface.

# Instantiation

Use NewContentEngine() to create a new Engine.

# Default Mimetypes

• text/plain

• application/json

• application/bson

• application/x-yaml

• application/cbor

• application/xml

Lookups first try the exact mimetype, then its normalised alias from
mimetype.FromString, so "text/yaml" is served by the application/x-yaml encoder and
"text/xml" by the application/xml one.

# Default JSON Extensions

Engine uses the codec library to encode json
(https://godoc.org/github.com/ugorji/go/codec) with canonical (sorted) map keys. UUIDs
from "github.com/satori/go.uuid" are written as their string form. Additional json
extensions can be registered through AddJSONExtensions().

# Default BSON Codecs

BSON is written through the official bson driver
(https://godoc.org/go.mongodb.org/mongo-driver). UUIDs are written as binary subtype
0x3. Slices are written as documents separated by BsonListSepString. Additional codecs
can be registered through AddBSONCodecs().

# Text

Strings are written as-is, maps as sorted "key: value" lines and everything else with
fmt.Sprint.

# Panics

If an encoder panics during execution, that panic is caught and returned as an error.
*/
type Engine struct {
	// MimeType:Encoder mapping
	encoders encoderMapping

	// JSON handle for default JSON encoder
	jsonHandle *codec.JsonHandle
	// BSON registry for default BSON encoder
	bsonRegistry *bsoncodec.Registry
	// BSON codecs
	bsonCodecs []*BsonCodecOpts
	// CBOR encoding options for the default CBOR encoder
	cborMode cbor.EncMode
	// Name of the root element written by the default XML encoder
	xmlRoot string
}

// SetEncoder registers an encoder for a given mimeType.
func (engine *Engine) SetEncoder(mimeType mimetype.MimeType, encoder Encoder) {
	engine.encoders[mimetype.Normalize(string(mimeType))] = encoder
}

// HandlesEncode reports whether the Engine has an encoder for mimeType.
func (engine *Engine) HandlesEncode(mimeType mimetype.MimeType) bool {
	_, ok := engine.lookup(mimeType)
	return ok
}

func (engine *Engine) lookup(mimeType mimetype.MimeType) (Encoder, bool) {
	encoder, ok := engine.encoders[mimetype.Normalize(string(mimeType))]
	if !ok {
		encoder, ok = engine.encoders[mimetype.FromString(string(mimeType))]
	}
	return encoder, ok
}

// Uses an encoder while catching panics to return as errors
func (engine *Engine) safeEncode(
	encoder Encoder, writer io.Writer, content interface{},
) (err error) {
	defer func() {
		recovered := recover()
		if recovered != nil {
			err = xerrors.Errorf("panic during encode: %v", recovered)
		}
	}()

	err = encoder.Encode(engine, writer, content)
	return err
}

// Picks the mimetype for encoding objects when the target mimetype is unknown.
func pickContentMimeType(
	mimeType mimetype.MimeType, content interface{},
) mimetype.MimeType {
	if mimeType != mimetype.UNKNOWN {
		return mimeType
	}

	switch content.(type) {
	case string:
		return mimetype.TEXT
	case *string:
		return mimetype.TEXT
	default:
		return mimetype.JSON
	}
}

// Encode writes content to writer using the encoder registered for mimeType.
func (engine *Engine) Encode(
	mimeType mimetype.MimeType,
	content interface{},
	writer io.Writer,
) error {
	mimeType = pickContentMimeType(mimeType, content)

	encoder, ok := engine.lookup(mimeType)
	if !ok {
		return xerrors.New("no encoder for " + string(mimeType))
	}

	err := engine.safeEncode(encoder, writer, content)
	if err != nil {
		return xerrors.Errorf("encode err: %w", err)
	}
	return nil
}

// Renderer returns a renderer that encodes the whole payload as mimeType. A missing
// encoder is reported when the renderer runs, not when it is created.
func (engine *Engine) Renderer(mimeType mimetype.MimeType) RenderFunc {
	return func(payload map[string]interface{}) (interface{}, error) {
		buffer := &bytes.Buffer{}
		if err := engine.Encode(mimeType, payload, buffer); err != nil {
			return nil, err
		}
		return buffer.Bytes(), nil
	}
}

// JSONHandle returns the ugorji handle used by the json encoder.
func (engine *Engine) JSONHandle() *codec.JsonHandle {
	return engine.jsonHandle
}

// BSONRegistry returns the internal bsoncodec.Registry used by the bson encoder.
func (engine *Engine) BSONRegistry() *bsoncodec.Registry {
	return engine.bsonRegistry
}

// AddJSONExtensions adds JSON extensions to the json handle.
func (engine *Engine) AddJSONExtensions(extensions []*JSONExtensionOpts) error {
	for _, extOpts := range extensions {
		err := engine.jsonHandle.SetInterfaceExt(
			extOpts.ValueType, 1, extOpts.ExtInterface,
		)
		if err != nil {
			return xerrors.Errorf(
				"error adding json extension to content engine: %w", err,
			)
		}
	}
	return nil
}

// AddBSONCodecs adds BSON codecs to the engine for use when encoding bson data.
func (engine *Engine) AddBSONCodecs(codecs []*BsonCodecOpts) {
	// Keep every codec so the registry can be rebuilt when more are added.
	engine.bsonCodecs = append(engine.bsonCodecs, codecs...)

	builder := bsoncodec.NewRegistryBuilder()
	bsoncodec.DefaultValueEncoders{}.RegisterDefaultEncoders(builder)
	bsoncodec.DefaultValueDecoders{}.RegisterDefaultDecoders(builder)

	for _, codecOpts := range engine.bsonCodecs {
		builder.RegisterCodec(codecOpts.ValueType, codecOpts.Codec)
	}

	engine.bsonRegistry = builder.Build()
}

// SetXMLRoot changes the root element name written by the default XML encoder.
func (engine *Engine) SetXMLRoot(name string) {
	engine.xmlRoot = name
}

// NewContentEngine returns an Engine with the default encoders registered.
func NewContentEngine() (*Engine, error) {
	cborMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, xerrors.Errorf("error building cbor encoding mode: %w", err)
	}

	engine := &Engine{
		encoders:   make(encoderMapping),
		jsonHandle: &codec.JsonHandle{},
		cborMode:   cborMode,
		xmlRoot:    defaultXMLRoot,
	}
	engine.jsonHandle.Canonical = true

	engine.SetEncoder(mimetype.JSON, &jsonEncoder{})
	engine.SetEncoder(mimetype.BSON, &bsonEncoder{})
	engine.SetEncoder(mimetype.YAML, &yamlEncoder{})
	engine.SetEncoder(mimetype.CBOR, &cborEncoder{})
	engine.SetEncoder(mimetype.XML, &xmlEncoder{})
	engine.SetEncoder(mimetype.TEXT, &textEncoder{})

	if err := engine.AddJSONExtensions(defaultJSONExtensions); err != nil {
		err = xerrors.Errorf("error adding default json extensions: %w", err)
		return nil, err
	}

	engine.AddBSONCodecs(defaultBsonCodecs)

	return engine, nil
}
