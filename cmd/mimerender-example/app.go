package main

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/illuscio-dev/mimerender-go/config"
	"github.com/illuscio-dev/mimerender-go/encoding"
	"github.com/illuscio-dev/mimerender-go/mimeerrors"
	"github.com/illuscio-dev/mimerender-go/mimetype"
	"github.com/illuscio-dev/mimerender-go/render"
	"go.uber.org/zap"
	"golang.org/x/xerrors"
)

// Binary formats the content engine encodes but NewRegistry does not name.
const (
	shortBSON = "bson"
	shortCBOR = "cbor"
)

var greetingPage = template.Must(template.New("greeting").Parse(
	"<html><body>{{.message}}</body></html>",
))

func renderXML(payload render.Payload) (interface{}, error) {
	return fmt.Sprintf("<message>%v</message>", template.HTMLEscapeString(
		fmt.Sprint(payload["message"]),
	)), nil
}

func renderTXT(payload render.Payload) (interface{}, error) {
	return payload["message"], nil
}

// Hands the payload to the content engine untouched.
func encodePayload(payload render.Payload) (interface{}, error) {
	return payload, nil
}

func index(request *http.Request, args []string) (interface{}, int, error) {
	return render.Payload{"message": "Hello, World!"}, http.StatusOK, nil
}

// Answers /greet/{name}[/{format}].
func greet(request *http.Request, args []string) (interface{}, int, error) {
	name := "World"
	if len(args) > 1 {
		name = args[1]
	}
	return render.Payload{
		"message": "Hello, " + name + "!",
		"name":    name,
	}, http.StatusOK, nil
}

// newMux builds the example routes. "/" is the classic hello-world with html, xml,
// json and txt renderers. "/greet/" also serves the object formats and takes a
// trailing format segment as an override. Each mux gets its own registry, so the
// configured mimetypes never collide with another mux's.
func newMux(settings *config.Settings, logger *zap.Logger) (*http.ServeMux, error) {
	registry := mimetype.NewRegistry()
	if err := settings.RegisterMimeTypes(registry); err != nil {
		return nil, err
	}
	if err := registerMissing(registry, shortBSON, mimetype.BSON); err != nil {
		return nil, err
	}
	if err := registerMissing(registry, shortCBOR, mimetype.CBOR); err != nil {
		return nil, err
	}

	engine, err := encoding.NewContentEngine()
	if err != nil {
		return nil, xerrors.Errorf("content engine: %w", err)
	}

	fallback := settings.Negotiation
	fallback.Logger = logger
	fallback.Engine = engine

	hello, err := render.New(
		registry,
		(&render.Config{}).WithFallback(&fallback),
		[]*render.RendererOpts{
			render.Renderer(mimetype.ShortHTML, render.HTMLTemplate(greetingPage)),
			render.Renderer(mimetype.ShortXML, renderXML),
			render.Renderer(mimetype.ShortJSON, encodePayload),
			render.Renderer(mimetype.ShortTXT, renderTXT),
		},
	)
	if err != nil {
		return nil, xerrors.Errorf("hello negotiator: %w", err)
	}

	greeter, err := render.New(
		registry,
		(&render.Config{OverrideArgIndex: render.ArgIndex(2)}).WithFallback(&fallback),
		[]*render.RendererOpts{
			render.Renderer(mimetype.ShortHTML, render.HTMLTemplate(greetingPage)),
			render.Renderer(mimetype.ShortJSON, engine.Renderer(mimetype.JSON)),
			render.Renderer(mimetype.ShortYAML, engine.Renderer(mimetype.YAML)),
			render.Renderer(mimetype.ShortXML, engine.Renderer(mimetype.XML)),
			render.Renderer(shortBSON, engine.Renderer(mimetype.BSON)),
			render.Renderer(shortCBOR, engine.Renderer(mimetype.CBOR)),
			render.Renderer(mimetype.ShortTXT, renderTXT),
		},
	)
	if err != nil {
		return nil, xerrors.Errorf("greet negotiator: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/", hello.Handler(index, nil))
	mux.Handle("/greet/", greeter.Handler(greet, nil))
	return mux, nil
}

// Registers shortName unless the config file already did.
func registerMissing(
	registry *mimetype.Registry, shortName string, mimeType mimetype.MimeType,
) error {
	_, err := registry.TypesFor(shortName)
	if xerrors.Is(err, mimeerrors.UnknownShortName) {
		return registry.Register(shortName, mimeType)
	}
	return err
}
