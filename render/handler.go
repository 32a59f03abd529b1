package render

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/illuscio-dev/mimerender-go/mimeerrors"
	"github.com/illuscio-dev/mimerender-go/mimetype"
	"go.uber.org/zap"
	"golang.org/x/xerrors"
)

// ArgsFunc extracts handler arguments from a request.
type ArgsFunc func(request *http.Request) []string

// ArgsFromPath uses the non-empty URL path segments as arguments, so
// "/greet/world/json" gives ["greet", "world", "json"].
func ArgsFromPath(request *http.Request) []string {
	segments := strings.Split(request.URL.Path, "/")
	args := make([]string, 0, len(segments))
	for _, segment := range segments {
		if segment != "" {
			args = append(args, segment)
		}
	}
	return args
}

// Handler adapts handler to net/http. Arguments come from argsFunc, or ArgsFromPath
// when it is nil. Errors are logged and answered with the http code of their error
// type (500 for errors from outside this module) and error-* headers describing them.
func (negotiator *Negotiator) Handler(handler Handler, argsFunc ArgsFunc) http.Handler {
	if argsFunc == nil {
		argsFunc = ArgsFromPath
	}
	wrapped := negotiator.Wrap(handler)

	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		response, err := wrapped(request, argsFunc(request))
		if err != nil {
			negotiator.writeError(writer, request, err)
			return
		}

		if err := response.Write(writer); err != nil {
			negotiator.logger.Warn(
				"error writing response",
				zap.String("path", request.URL.Path),
				zap.Error(err),
			)
		}
	})
}

// headerSetter is an object that can set header information, like http.Header.
type headerSetter interface {
	Set(key string, value string)
}

// ErrorToHeader writes err to setter as error-name, error-code, error-message,
// error-id and error-data (JSON) headers.
func (negotiator *Negotiator) ErrorToHeader(
	setter headerSetter, err *mimeerrors.Error,
) error {
	setter.Set("error-name", err.Name())
	setter.Set("error-code", strconv.Itoa(err.APICode()))
	setter.Set("error-message", err.Message)
	setter.Set("error-id", err.ID.String())

	if err.ErrorData != nil {
		dataBytes := bytes.Buffer{}
		encodeErr := negotiator.engine.Encode(mimetype.JSON, err.ErrorData, &dataBytes)
		if encodeErr != nil {
			return encodeErr
		}
		setter.Set("error-data", dataBytes.String())
	}

	return nil
}

func (negotiator *Negotiator) writeError(
	writer http.ResponseWriter, request *http.Request, err error,
) {
	status := http.StatusInternalServerError
	fields := []zap.Field{zap.String("path", request.URL.Path), zap.Error(err)}

	var typed *mimeerrors.Error
	if xerrors.As(err, &typed) {
		status = typed.HTTPCode()
		fields = append(
			fields,
			zap.String("errorID", typed.ID.String()),
			zap.String("detail", typed.LogMessage()),
		)
		if headerErr := negotiator.ErrorToHeader(writer.Header(), typed); headerErr != nil {
			fields = append(fields, zap.NamedError("headerError", headerErr))
		}
	}

	negotiator.logger.Error("request could not be rendered", fields...)

	writer.Header().Set("Content-Type", string(mimetype.TEXT))
	writer.WriteHeader(status)
	_, _ = writer.Write([]byte(http.StatusText(status)))
}
