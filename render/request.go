package render

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/illuscio-dev/mimerender-go/mimeerrors"
	"github.com/illuscio-dev/mimerender-go/mimetype"
	"github.com/illuscio-dev/mimerender-go/negotiate"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
	"golang.org/x/xerrors"
)

// Source names what decided the representation of a response.
type Source string

const (
	SourceOverrideArg   = Source("override-arg")
	SourceOverrideInput = Source("override-input")
	SourceAccept        = Source("accept")
	SourceDefault       = Source("default")
)

// Handler is the function a Negotiator wraps. result must be mapping-like: a
// map[string]interface{}, another map with string keys, or a struct.
type Handler func(request *http.Request, args []string) (
	result interface{}, status int, err error,
)

// Wrapped is a Handler whose result has been rendered into a Response.
type Wrapped func(request *http.Request, args []string) (*Response, error)

// Selection is the representation chosen for one request.
type Selection struct {
	MimeType  mimetype.MimeType
	ShortName string
	Source    Source

	renderer RenderFunc
}

// Negotiated reports whether the Accept header took part in the selection.
func (selection *Selection) Negotiated() bool {
	return selection.Source == SourceAccept || selection.Source == SourceDefault
}

// Select chooses the representation for a request. args are the handler arguments
// the override argument index points into; they are not modified.
func (negotiator *Negotiator) Select(
	request *http.Request, args []string,
) (*Selection, error) {
	selection := &Selection{}

	shortName, source := negotiator.override(request, args)
	if shortName != "" {
		mimeType, err := negotiator.registry.CanonicalType(shortName)
		if err != nil {
			return nil, err
		}
		selection.MimeType = mimeType
		selection.ShortName = shortName
		selection.Source = source
	} else if mimeType, ok := negotiator.bestMatch(request); ok {
		selection.MimeType = mimeType
		selection.Source = SourceAccept
	} else {
		selection.MimeType = negotiator.defaultMime
		selection.Source = SourceDefault
	}

	renderer, err := negotiator.rendererFor(selection.MimeType)
	if err != nil {
		return nil, err
	}
	selection.renderer = renderer

	if selection.ShortName == "" {
		shortName, err := negotiator.registry.ShortNameFor(selection.MimeType)
		if err != nil {
			return nil, err
		}
		selection.ShortName = shortName
	}

	negotiator.logger.Debug(
		"representation selected",
		zap.String("mimeType", string(selection.MimeType)),
		zap.String("shortName", selection.ShortName),
		zap.String("source", string(selection.Source)),
	)

	return selection, nil
}

// Looks for an override short name, positional argument first.
func (negotiator *Negotiator) override(
	request *http.Request, args []string,
) (string, Source) {
	if index := negotiator.config.OverrideArgIndex; index != nil {
		position := *index
		if position < 0 {
			position += len(args)
		}
		if position >= 0 && position < len(args) && args[position] != "" {
			return args[position], SourceOverrideArg
		}
	}

	key := negotiator.config.OverrideInputKey
	if key == "" || request == nil {
		return "", ""
	}

	if request.URL != nil {
		if value := request.URL.Query().Get(key); value != "" {
			return value, SourceOverrideInput
		}
	}
	if request.Form != nil {
		if value := request.Form.Get(key); value != "" {
			return value, SourceOverrideInput
		}
	}

	return "", ""
}

func (negotiator *Negotiator) bestMatch(request *http.Request) (mimetype.MimeType, bool) {
	if request == nil {
		return mimetype.UNKNOWN, false
	}
	// Several Accept lines form one comma-separated list.
	accept := strings.Join(request.Header.Values("Accept"), ",")
	return negotiate.BestMatch(negotiator.supported, accept)
}

// Wrap returns handler with its result rendered in the negotiated representation.
// The representation is chosen before handler runs, so a bad override fails without
// invoking it.
func (negotiator *Negotiator) Wrap(handler Handler) Wrapped {
	return func(request *http.Request, args []string) (*Response, error) {
		selection, err := negotiator.Select(request, args)
		if err != nil {
			return nil, err
		}

		result, status, err := handler(request, args)
		if err != nil {
			return nil, xerrors.Errorf("handler error: %w", err)
		}

		payload, err := toPayload(result, status)
		if err != nil {
			return nil, err
		}

		output, err := selection.renderer(payload)
		if err != nil {
			return nil, xerrors.Errorf(
				"error rendering %v: %w", selection.MimeType, err,
			)
		}

		body, err := negotiator.toBody(selection.MimeType, output)
		if err != nil {
			return nil, xerrors.Errorf("error reading rendered body: %w", err)
		}

		return &Response{
			Body:       body,
			Status:     status,
			MimeType:   selection.MimeType,
			ShortName:  selection.ShortName,
			Charset:    negotiator.config.Charset,
			Negotiated: selection.Negotiated(),
		}, nil
	}
}

// Checks a handler result and turns it into a Payload.
func toPayload(result interface{}, status int) (Payload, error) {
	if status < 100 || status > 599 {
		return nil, mimeerrors.MalformedHandlerResult.New(
			fmt.Sprintf("status code %d is not a valid http status", status),
			map[string]interface{}{"status": status},
			nil,
		)
	}

	if payload, ok := result.(map[string]interface{}); ok {
		if payload == nil {
			return nil, malformedPayload(result)
		}
		return payload, nil
	}

	value := reflect.ValueOf(result)
	if value.Kind() == reflect.Ptr && !value.IsNil() {
		value = value.Elem()
	}

	switch {
	case value.Kind() == reflect.Map && value.Type().Key().Kind() == reflect.String:
		if value.IsNil() {
			return nil, malformedPayload(result)
		}
		payload := make(Payload, value.Len())
		iter := value.MapRange()
		for iter.Next() {
			payload[iter.Key().String()] = iter.Value().Interface()
		}
		return payload, nil

	case value.Kind() == reflect.Struct:
		payload := make(Payload)
		if err := mapstructure.Decode(value.Interface(), &payload); err != nil {
			return nil, mimeerrors.MalformedHandlerResult.New(
				"could not read handler result fields", nil, err,
			)
		}
		return payload, nil
	}

	return nil, malformedPayload(result)
}

func malformedPayload(result interface{}) error {
	resultType := fmt.Sprintf("%T", result)
	return mimeerrors.MalformedHandlerResult.New(
		"handler result of type "+resultType+" is not a mapping",
		map[string]interface{}{"resultType": resultType},
		nil,
	)
}

// Turns renderer output into body bytes.
func (negotiator *Negotiator) toBody(
	mimeType mimetype.MimeType, output interface{},
) ([]byte, error) {
	switch typed := output.(type) {
	case nil:
		return []byte{}, nil
	case []byte:
		return typed, nil
	case string:
		return []byte(typed), nil
	case io.Reader:
		buffer := &bytes.Buffer{}
		if closer, ok := typed.(io.Closer); ok {
			defer func() {
				_ = closer.Close()
			}()
		}
		if _, err := buffer.ReadFrom(typed); err != nil {
			return nil, err
		}
		return buffer.Bytes(), nil
	case fmt.Stringer:
		return []byte(typed.String()), nil
	}

	encodeAs := mimeType
	if !negotiator.engine.HandlesEncode(encodeAs) {
		encodeAs = mimetype.TEXT
	}

	buffer := &bytes.Buffer{}
	if err := negotiator.engine.Encode(encodeAs, output, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
