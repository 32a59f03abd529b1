package render_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/illuscio-dev/mimerender-go/render"
)

// Renderers shaped like the hello-world example: each wraps the message field.
func renderHTML(payload render.Payload) (interface{}, error) {
	return fmt.Sprintf("<html><body>%v</body></html>", payload["message"]), nil
}

func renderXML(payload render.Payload) (interface{}, error) {
	return fmt.Sprintf("<message>%v</message>", payload["message"]), nil
}

func renderJSON(payload render.Payload) (interface{}, error) {
	return fmt.Sprintf(`{"message": "%v"}`, payload["message"]), nil
}

func renderTXT(payload render.Payload) (interface{}, error) {
	return fmt.Sprint(payload["message"]), nil
}

func helloRenderers() []*render.RendererOpts {
	return []*render.RendererOpts{
		render.Renderer("html", renderHTML),
		render.Renderer("xml", renderXML),
		render.Renderer("json", renderJSON),
		render.Renderer("txt", renderTXT),
	}
}

// Builds a negotiator over the hello renderers, failing the test on error.
func createNegotiator(test *testing.T, config *render.Config) *render.Negotiator {
	negotiator, err := render.New(nil, config, helloRenderers())
	if err != nil {
		test.Fatal(err)
	}
	return negotiator
}

func helloHandler(request *http.Request, args []string) (interface{}, int, error) {
	return render.Payload{"message": "hi"}, 200, nil
}

func newRequest(target string, accept string) *http.Request {
	request := httptest.NewRequest(http.MethodGet, target, nil)
	if accept != "" {
		request.Header.Set("Accept", accept)
	}
	return request
}
