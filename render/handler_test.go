package render_test

//revive:disable:import-shadowing reason: Disabled for assert := assert.New(), which is
// the preferred method of using multiple asserts in a test.

import (
	"encoding/json"
	"html/template"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/illuscio-dev/mimerender-go/mimetype"
	"github.com/illuscio-dev/mimerender-go/render"
	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/xerrors"
)

func greetHandler(request *http.Request, args []string) (interface{}, int, error) {
	return render.Payload{"message": "Hello, " + args[1] + "!"}, http.StatusOK, nil
}

func serve(handler http.Handler, target string, accept string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, newRequest(target, accept))
	return recorder
}

func TestArgsFromPath(test *testing.T) {
	assert := assert.New(test)

	assert.Equal(
		[]string{"greet", "world", "json"},
		render.ArgsFromPath(newRequest("/greet//world/json/", "")),
	)
	assert.Equal([]string{}, render.ArgsFromPath(newRequest("/", "")))
}

func TestHandlerNegotiated(test *testing.T) {
	assert := assert.New(test)

	negotiator := createNegotiator(test, &render.Config{
		Default: "html", Charset: "utf-8",
	})
	recorder := serve(
		negotiator.Handler(greetHandler, nil), "/greet/world", "application/json",
	)

	assert.Equal(http.StatusOK, recorder.Code)
	assert.Equal("application/json; charset=utf-8", recorder.Header().Get("Content-Type"))
	assert.Equal("Accept", recorder.Header().Get("Vary"))
	assert.Equal(`{"message": "Hello, world!"}`, recorder.Body.String())
	assert.Equal(mimetype.JSON, mimetype.FromHeader(recorder.Header()))
}

func TestHandlerPathOverride(test *testing.T) {
	assert := assert.New(test)

	negotiator := createNegotiator(test, overrideConfig(-1))
	recorder := serve(
		negotiator.Handler(greetHandler, nil), "/greet/world/xml", "application/json",
	)

	assert.Equal(http.StatusOK, recorder.Code)
	assert.Equal("application/xml", recorder.Header().Get("Content-Type"))
	assert.Equal("", recorder.Header().Get("Vary"))
	assert.Equal("<message>Hello, world!</message>", recorder.Body.String())
}

func TestHandlerCustomArgs(test *testing.T) {
	negotiator := createNegotiator(test, &render.Config{Default: "txt"})

	argsFunc := func(request *http.Request) []string {
		return []string{"greet", request.URL.Query().Get("name")}
	}
	recorder := serve(negotiator.Handler(greetHandler, argsFunc), "/?name=Harry", "")

	assert.Equal(test, "Hello, Harry!", recorder.Body.String())
}

func TestHandlerMimeError(test *testing.T) {
	assert := assert.New(test)

	core, logs := observer.New(zapcore.DebugLevel)
	config := overrideConfig(-1)
	config.Logger = zap.New(core)
	negotiator := createNegotiator(test, config)

	recorder := serve(negotiator.Handler(greetHandler, nil), "/greet/world/svg", "")

	assert.Equal(http.StatusInternalServerError, recorder.Code)
	assert.Equal("Internal Server Error", recorder.Body.String())

	header := recorder.Header()
	assert.Equal("UnknownShortName", header.Get("error-name"))
	assert.Equal("2001", header.Get("error-code"))
	assert.Equal(`no mime type for short name "svg"`, header.Get("error-message"))

	errorID, err := uuid.FromString(header.Get("error-id"))
	assert.NoError(err)
	assert.NotEqual(uuid.Nil, errorID)

	errorData := map[string]interface{}{}
	assert.NoError(json.Unmarshal([]byte(header.Get("error-data")), &errorData))
	assert.Equal(map[string]interface{}{"shortName": "svg"}, errorData)

	entries := logs.FilterMessage("request could not be rendered").All()
	if !assert.Len(entries, 1) {
		return
	}
	assert.Equal(errorID.String(), entries[0].ContextMap()["errorID"])
	assert.Equal(zapcore.ErrorLevel, entries[0].Level)
}

func TestHandlerForeignError(test *testing.T) {
	assert := assert.New(test)

	failing := func(request *http.Request, args []string) (interface{}, int, error) {
		return nil, 0, xerrors.New("database down")
	}

	negotiator := createNegotiator(test, &render.Config{Default: "txt"})
	recorder := serve(negotiator.Handler(failing, nil), "/", "")

	assert.Equal(http.StatusInternalServerError, recorder.Code)
	assert.Equal("", recorder.Header().Get("error-name"))
	assert.Equal("text/plain", recorder.Header().Get("Content-Type"))
}

func TestHandlerOverServer(test *testing.T) {
	assert := assert.New(test)

	negotiator := createNegotiator(test, &render.Config{Default: "html"})
	server := httptest.NewServer(negotiator.Handler(greetHandler, nil))
	defer server.Close()

	request, err := http.NewRequest(http.MethodGet, server.URL+"/greet/there", nil)
	if !assert.NoError(err) {
		return
	}
	request.Header.Set("Accept", "text/plain;q=0.5, text/html;q=0.4")

	response, err := server.Client().Do(request)
	if !assert.NoError(err) {
		return
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	assert.NoError(err)
	assert.Equal("Hello, there!", string(body))
	assert.Equal("text/plain", response.Header.Get("Content-Type"))
}

func TestHTMLTemplate(test *testing.T) {
	assert := assert.New(test)

	page := template.Must(template.New("page").Parse(
		"<html><body>{{.message}}</body></html>",
	))
	negotiator, err := render.New(
		nil,
		&render.Config{Default: "html"},
		[]*render.RendererOpts{render.Renderer("html", render.HTMLTemplate(page))},
	)
	if !assert.NoError(err) {
		return
	}

	escaping := func(request *http.Request, args []string) (interface{}, int, error) {
		return render.Payload{"message": "<b>hi</b>"}, http.StatusOK, nil
	}
	recorder := serve(negotiator.Handler(escaping, nil), "/", "text/html")

	assert.Equal(
		"<html><body>&lt;b&gt;hi&lt;/b&gt;</body></html>", recorder.Body.String(),
	)

	broken := template.Must(template.New("broken").Parse("{{.message.missing}}"))
	_, err = render.HTMLTemplate(broken)(render.Payload{"message": "hi"})
	assert.Error(err)
}
