package encoding

import (
	"io"
	"reflect"

	uuid "github.com/satori/go.uuid"
	"github.com/ugorji/go/codec"
	"golang.org/x/xerrors"
)

// JSONExtensionOpts holds options for a json handle extension to add to the engine.
type JSONExtensionOpts struct {
	ValueType    reflect.Type
	ExtInterface codec.InterfaceExt
}

// defaultJSONExtensions holds all the JSONExtensionOpts added by NewContentEngine.
var defaultJSONExtensions = []*JSONExtensionOpts{
	{
		ValueType:    reflect.TypeOf(uuid.UUID{}),
		ExtInterface: &jsonExtUUID{},
	},
}

// Writes UUIDs as their canonical string.
type jsonExtUUID struct{}

func (ext *jsonExtUUID) ConvertExt(value interface{}) interface{} {
	// codec hands array kinds over by pointer.
	switch valueUUID := value.(type) {
	case *uuid.UUID:
		return valueUUID.String()
	case uuid.UUID:
		return valueUUID.String()
	}
	panic(xerrors.New("value is not a uuid"))
}

func (ext *jsonExtUUID) UpdateExt(dest interface{}, value interface{}) {
	panic(xerrors.New("decoding to uuid field not supported"))
}

// default JSON encoder for Engine.
type jsonEncoder struct{}

func (encoder *jsonEncoder) Encode(
	engine ContentEngine, writer io.Writer, content interface{},
) error {
	contentEngine := engine.(*Engine)
	jsonEncoder := codec.NewEncoder(writer, contentEngine.jsonHandle)
	return jsonEncoder.Encode(content)
}
