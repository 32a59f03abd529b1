package render

import (
	"bytes"
	"html/template"
)

// Payload is the set of named fields a handler hands over to the chosen renderer.
type Payload = map[string]interface{}

// RenderFunc turns a payload into a response body. The returned value may be a
// string, []byte, io.Reader or fmt.Stringer; anything else is encoded by the
// negotiator's content engine as the chosen MIME type.
type RenderFunc = func(payload Payload) (interface{}, error)

// RendererOpts binds a renderer to the short name of the representation it produces.
type RendererOpts struct {
	// Registered short name, e.g. "json".
	ShortName string

	// Renderer for every MIME type registered under ShortName.
	Render RenderFunc
}

// Renderer is shorthand for &RendererOpts{ShortName: shortName, Render: render}.
func Renderer(shortName string, render RenderFunc) *RendererOpts {
	return &RendererOpts{ShortName: shortName, Render: render}
}

// HTMLTemplate returns a renderer that executes tmpl with the payload as data.
func HTMLTemplate(tmpl *template.Template) RenderFunc {
	return func(payload Payload) (interface{}, error) {
		buffer := &bytes.Buffer{}
		if err := tmpl.Execute(buffer, payload); err != nil {
			return nil, err
		}
		return buffer.Bytes(), nil
	}
}
