package encoding_test

//revive:disable:import-shadowing reason: Disabled for assert := assert.New(), which is
// the preferred method of using multiple asserts in a test.

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/illuscio-dev/mimerender-go/encoding"
	"github.com/illuscio-dev/mimerender-go/mimetype"
	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"
)

type PanickyEncoder struct{}

func (encoder *PanickyEncoder) Encode(
	engine encoding.ContentEngine, writer io.Writer, content interface{},
) error {
	panic(xerrors.New("encode panicked"))
}

func createEngine(test *testing.T) *encoding.Engine {
	engine, err := encoding.NewContentEngine()
	if err != nil {
		test.Fatal(err)
	}
	return engine
}

// Renders payload through the engine renderer for mimeType and returns the body.
func renderBody(
	test *testing.T,
	engine encoding.ContentEngine,
	mimeType mimetype.MimeType,
	payload map[string]interface{},
) []byte {
	body, err := engine.Renderer(mimeType)(payload)
	if err != nil {
		test.Fatal(err)
	}
	return body.([]byte)
}

func TestCreateEngineDefault(test *testing.T) {
	assert := assert.New(test)

	engine := createEngine(test)

	assert.NotNil(engine.JSONHandle())
	assert.True(engine.JSONHandle().Canonical)
	assert.NotNil(engine.BSONRegistry())

	for _, mimeType := range []mimetype.MimeType{
		mimetype.JSON,
		mimetype.BSON,
		mimetype.YAML,
		mimetype.CBOR,
		mimetype.XML,
		mimetype.TEXT,
		"text/yaml",
		"text/xml",
		"Application/JSON; charset=utf-8",
	} {
		assert.True(engine.HandlesEncode(mimeType), mimeType)
	}

	assert.False(engine.HandlesEncode("text/csv"))
	assert.False(engine.HandlesEncode(mimetype.HTML))
}

func TestJSONRenderer(test *testing.T) {
	engine := createEngine(test)

	body := renderBody(test, engine, mimetype.JSON, map[string]interface{}{
		"message": "hi",
		"count":   2,
	})
	assert.JSONEq(test, `{"count": 2, "message": "hi"}`, string(body))
}

func TestJSONRendererUUID(test *testing.T) {
	assert := assert.New(test)
	engine := createEngine(test)

	id := uuid.NewV4()
	body := renderBody(test, engine, mimetype.JSON, map[string]interface{}{"id": id})

	loaded := map[string]string{}
	assert.NoError(json.Unmarshal(body, &loaded))
	assert.Equal(id.String(), loaded["id"])
}

func TestBSONRenderer(test *testing.T) {
	assert := assert.New(test)
	engine := createEngine(test)

	id := uuid.NewV4()
	body := renderBody(test, engine, mimetype.BSON, map[string]interface{}{
		"message": "hi",
		"id":      id,
	})

	loaded := struct {
		Message string    `bson:"message"`
		ID      uuid.UUID `bson:"id"`
	}{}
	assert.NoError(bson.UnmarshalWithRegistry(engine.BSONRegistry(), body, &loaded))
	assert.Equal("hi", loaded.Message)
	assert.Equal(id, loaded.ID)
}

func TestBSONList(test *testing.T) {
	assert := assert.New(test)
	engine := createEngine(test)

	content := []map[string]interface{}{{"name": "first"}, {"name": "second"}}
	buffer := &bytes.Buffer{}
	assert.NoError(engine.Encode(mimetype.BSON, content, buffer))

	documents := bytes.Split(buffer.Bytes(), encoding.BsonListSepBytes)
	if !assert.Len(documents, 2) {
		return
	}

	for i, expected := range []string{"first", "second"} {
		loaded := bson.M{}
		assert.NoError(bson.Unmarshal(documents[i], &loaded))
		assert.Equal(expected, loaded["name"])
	}
}

func TestYAMLRenderer(test *testing.T) {
	assert := assert.New(test)
	engine := createEngine(test)

	body := renderBody(test, engine, "text/yaml", map[string]interface{}{
		"message": "hi",
	})
	assert.Equal("message: hi\n", string(body))

	loaded := map[string]string{}
	assert.NoError(yaml.Unmarshal(body, &loaded))
	assert.Equal("hi", loaded["message"])
}

func TestCBORRenderer(test *testing.T) {
	assert := assert.New(test)
	engine := createEngine(test)

	payload := map[string]interface{}{"message": "hi", "b": "a"}
	body := renderBody(test, engine, mimetype.CBOR, payload)

	loaded := map[string]string{}
	assert.NoError(cbor.Unmarshal(body, &loaded))
	assert.Equal(map[string]string{"message": "hi", "b": "a"}, loaded)

	// Canonical mode gives identical bytes for identical payloads.
	assert.Equal(body, renderBody(test, engine, mimetype.CBOR, payload))
}

func TestXMLRenderer(test *testing.T) {
	assert := assert.New(test)
	engine := createEngine(test)

	body := renderBody(test, engine, mimetype.XML, map[string]interface{}{
		"message": "hi",
		"author":  map[string]interface{}{"name": "Harry"},
		"tags":    []interface{}{"a", "b"},
	})
	assert.Equal(
		"<response><author><name>Harry</name></author><message>hi</message>"+
			"<tags>a</tags><tags>b</tags></response>",
		string(body),
	)
}

func TestXMLRoot(test *testing.T) {
	engine := createEngine(test)
	engine.SetXMLRoot("greeting")

	body := renderBody(test, engine, "text/xml", map[string]interface{}{
		"message": "<hi>",
	})
	assert.Equal(
		test, "<greeting><message>&lt;hi&gt;</message></greeting>", string(body),
	)
}

func TestXMLInvalidNames(test *testing.T) {
	testCases := []struct {
		name    string
		payload map[string]interface{}
	}{
		{"space", map[string]interface{}{"first name": "Harry"}},
		{"leading digit", map[string]interface{}{"1st": "x"}},
		{"empty", map[string]interface{}{"": "x"}},
		{"nested", map[string]interface{}{
			"author": map[string]interface{}{"<name>": "Harry"},
		}},
		{"in list", map[string]interface{}{
			"tags": []interface{}{map[string]interface{}{"a b": "c"}},
		}},
	}

	engine := createEngine(test)

	for _, thisCase := range testCases {
		test.Run(thisCase.name, func(test *testing.T) {
			_, err := engine.Renderer(mimetype.XML)(thisCase.payload)
			assert.ErrorContains(test, err, "invalid xml element name")
		})
	}

	test.Run("root", func(test *testing.T) {
		engine := createEngine(test)
		engine.SetXMLRoot("bad root")

		_, err := engine.Renderer(mimetype.XML)(map[string]interface{}{"a": "b"})
		assert.ErrorContains(test, err, "invalid xml element name")
	})
}

func TestXMLValidNames(test *testing.T) {
	engine := createEngine(test)

	body := renderBody(test, engine, mimetype.XML, map[string]interface{}{
		"_id":        "1",
		"first-name": "Harry",
		"née.x2":     "y",
	})
	assert.Equal(
		test,
		"<response><_id>1</_id><first-name>Harry</first-name><née.x2>y</née.x2></response>",
		string(body),
	)
}

func TestTextRenderer(test *testing.T) {
	engine := createEngine(test)

	body := renderBody(test, engine, mimetype.TEXT, map[string]interface{}{
		"b": 2,
		"a": "x",
	})
	assert.Equal(test, "a: x\nb: 2\n", string(body))
}

func TestEncodeUnknownPicksType(test *testing.T) {
	assert := assert.New(test)
	engine := createEngine(test)

	buffer := &bytes.Buffer{}
	assert.NoError(engine.Encode(mimetype.UNKNOWN, "plain words", buffer))
	assert.Equal("plain words", buffer.String())

	text := "pointer words"
	buffer.Reset()
	assert.NoError(engine.Encode(mimetype.UNKNOWN, &text, buffer))
	assert.Equal("pointer words", buffer.String())

	buffer.Reset()
	assert.NoError(engine.Encode(mimetype.UNKNOWN, []int{1, 2}, buffer))
	assert.Equal("[1,2]", buffer.String())
}

func TestNoEncoder(test *testing.T) {
	assert := assert.New(test)
	engine := createEngine(test)

	err := engine.Encode("text/csv", "a,b", &bytes.Buffer{})
	assert.EqualError(err, "no encoder for text/csv")

	body, err := engine.Renderer("text/csv")(map[string]interface{}{})
	assert.Nil(body)
	assert.EqualError(err, "no encoder for text/csv")
}

func TestPanickyEncoder(test *testing.T) {
	assert := assert.New(test)
	engine := createEngine(test)
	engine.SetEncoder("application/x-panic", &PanickyEncoder{})

	err := engine.Encode("application/x-panic", "content", &bytes.Buffer{})
	assert.EqualError(err, "encode err: panic during encode: encode panicked")
}

func TestEncoderFunc(test *testing.T) {
	assert := assert.New(test)
	engine := createEngine(test)

	engine.SetEncoder(
		"text/csv",
		encoding.EncoderFunc(func(writer io.Writer, content interface{}) error {
			_, err := io.WriteString(writer, "a,b\n1,2\n")
			return err
		}),
	)

	assert.True(engine.HandlesEncode("TEXT/CSV"))
	body := renderBody(test, engine, "text/csv", nil)
	assert.Equal("a,b\n1,2\n", string(body))
}

func TestEncoderError(test *testing.T) {
	engine := createEngine(test)
	engine.SetEncoder(
		mimetype.JSON,
		encoding.EncoderFunc(func(writer io.Writer, content interface{}) error {
			return xerrors.New("writer closed")
		}),
	)

	err := engine.Encode(mimetype.JSON, "x", &bytes.Buffer{})
	assert.EqualError(test, err, "encode err: writer closed")
}
