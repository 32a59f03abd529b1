package render

import (
	"github.com/illuscio-dev/mimerender-go/encoding"
	"github.com/illuscio-dev/mimerender-go/mimeerrors"
	"github.com/illuscio-dev/mimerender-go/mimetype"
	"go.uber.org/zap"
	"golang.org/x/xerrors"
)

type rendererMapping map[mimetype.MimeType]RenderFunc

/*
Negotiator wraps handlers so their payloads are rendered in the representation the
client asked for.

# Instantiation

Use New() to validate renderers against a registry and build the dispatch table. A
Negotiator is read-only once built and can serve concurrent requests.

# Selection Order

1. The handler argument at Config.OverrideArgIndex, if set and present.

2. The query / form field Config.OverrideInputKey, if set and present.

3. Best match between the Accept header and the supported MIME types.

4. The canonical MIME type of Config.Default.

Overrides name a short name; an unregistered one is an UnknownShortName error and a
registered one without a renderer a NoRendererForMime error. Neither falls back to
negotiation.
*/
type Negotiator struct {
	registry *mimetype.Registry
	config   *Config

	// Every MIME type a renderer was declared for, in declaration order.
	supported []mimetype.MimeType
	// MimeType:RenderFunc dispatch table
	renderers rendererMapping

	defaultMime     mimetype.MimeType
	defaultRenderer RenderFunc

	engine encoding.ContentEngine
	logger *zap.Logger
}

/*
New builds a Negotiator for renderers. Each renderer is bound to every MIME type
registered under its short name; when two short names share a MIME type the first
declaration keeps it. Declaration order is also the tie-break order when the client
weighs several types equally.

A nil registry means mimetype.DefaultRegistry(). Construction fails when:

• a short name is not registered (UnknownShortName)

• a short name is declared twice (DuplicateRegistration)

• no renderers are declared, or one is nil (NoRendererForMime)

• Config.Default is empty (MissingDefault), unregistered (UnknownShortName) or has no
renderer (NoRendererForMime)
*/
func New(
	registry *mimetype.Registry, config *Config, renderers []*RendererOpts,
) (*Negotiator, error) {
	if registry == nil {
		registry = mimetype.DefaultRegistry()
	}
	config = config.WithFallback(nil)

	negotiator := &Negotiator{
		registry:  registry,
		config:    config,
		renderers: make(rendererMapping),
		engine:    config.Engine,
		logger:    config.Logger,
	}
	if negotiator.logger == nil {
		negotiator.logger = zap.NewNop()
	}

	if err := negotiator.bindRenderers(renderers); err != nil {
		return nil, err
	}
	if err := negotiator.bindDefault(); err != nil {
		return nil, err
	}

	if negotiator.engine == nil {
		engine, err := encoding.NewContentEngine()
		if err != nil {
			return nil, xerrors.Errorf("error creating content engine: %w", err)
		}
		negotiator.engine = engine
	}

	negotiator.logger.Debug(
		"negotiator ready",
		zap.Strings("supported", mimeStrings(negotiator.supported)),
		zap.String("default", string(negotiator.defaultMime)),
	)

	return negotiator, nil
}

func (negotiator *Negotiator) bindRenderers(renderers []*RendererOpts) error {
	if len(renderers) == 0 {
		return mimeerrors.NoRendererForMime.New("no renderers declared", nil, nil)
	}

	declared := make(map[string]bool, len(renderers))

	for _, opts := range renderers {
		if opts == nil || opts.Render == nil {
			return mimeerrors.NoRendererForMime.New(
				"nil renderer declared", nil, nil,
			)
		}
		if declared[opts.ShortName] {
			return mimeerrors.DuplicateRegistration.New(
				"renderer for short name \""+opts.ShortName+"\" declared twice",
				map[string]interface{}{"shortName": opts.ShortName},
				nil,
			)
		}
		declared[opts.ShortName] = true

		mimeTypes, err := negotiator.registry.TypesFor(opts.ShortName)
		if err != nil {
			return err
		}

		for _, mimeType := range mimeTypes {
			negotiator.supported = append(negotiator.supported, mimeType)
			if _, bound := negotiator.renderers[mimeType]; !bound {
				negotiator.renderers[mimeType] = opts.Render
			}
		}
	}

	return nil
}

func (negotiator *Negotiator) bindDefault() error {
	shortName := negotiator.config.Default
	if shortName == "" {
		return mimeerrors.MissingDefault.New(
			"renderers declared without a default short name",
			map[string]interface{}{
				"supported": mimeStrings(negotiator.supported),
			},
			nil,
		)
	}

	defaultMime, err := negotiator.registry.CanonicalType(shortName)
	if err != nil {
		return err
	}

	renderer, err := negotiator.rendererFor(defaultMime)
	if err != nil {
		return err
	}

	negotiator.defaultMime = defaultMime
	negotiator.defaultRenderer = renderer
	return nil
}

func (negotiator *Negotiator) rendererFor(mimeType mimetype.MimeType) (RenderFunc, error) {
	renderer, ok := negotiator.renderers[mimeType]
	if !ok {
		return nil, mimeerrors.NoRendererForMime.New(
			"no renderer for mime \""+string(mimeType)+"\"",
			map[string]interface{}{"mimeType": string(mimeType)},
			nil,
		)
	}
	return renderer, nil
}

// Supported returns the negotiation candidates, in declaration order.
func (negotiator *Negotiator) Supported() []mimetype.MimeType {
	supported := make([]mimetype.MimeType, len(negotiator.supported))
	copy(supported, negotiator.supported)
	return supported
}

// Default returns the fallback MIME type.
func (negotiator *Negotiator) Default() mimetype.MimeType {
	return negotiator.defaultMime
}

// Config returns the settings the negotiator was built with, fallbacks applied.
func (negotiator *Negotiator) Config() Config {
	return *negotiator.config
}

func mimeStrings(mimeTypes []mimetype.MimeType) []string {
	strs := make([]string, len(mimeTypes))
	for i, mimeType := range mimeTypes {
		strs[i] = string(mimeType)
	}
	return strs
}
