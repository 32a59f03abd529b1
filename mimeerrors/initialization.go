package mimeerrors

// A short name was registered twice, in a registry or in one renderer set.
var DuplicateRegistration = NewErrorType(
	"DuplicateRegistration",
	2000,
	500,
)

// A short name has no registered MIME types. Covers a misconfigured default and
// override values naming an unknown representation.
var UnknownShortName = NewErrorType(
	"UnknownShortName",
	2001,
	500,
)

// A MIME type has no registered short name.
var UnknownMimeType = NewErrorType(
	"UnknownMimeType",
	2002,
	500,
)

// The chosen MIME type has no bound renderer.
var NoRendererForMime = NewErrorType(
	"NoRendererForMime",
	2003,
	500,
)

// A wrapped handler returned something other than a mapping payload and a valid
// status code.
var MalformedHandlerResult = NewErrorType(
	"MalformedHandlerResult",
	2004,
	500,
)

// Renderers were declared without a default short name.
var MissingDefault = NewErrorType(
	"MissingDefault",
	2005,
	500,
)

// ErrorList holds the default error definitions.
var ErrorList = [6]*ErrorType{
	DuplicateRegistration,
	UnknownShortName,
	UnknownMimeType,
	NoRendererForMime,
	MalformedHandlerResult,
	MissingDefault,
}

func makeDefaultErrorCodeIndex() map[int]*ErrorType {
	index := make(map[int]*ErrorType)
	for _, errorType := range ErrorList {
		index[errorType.apiCode] = errorType
	}
	return index
}

// ErrorTypeCodeIndex indexes the default errors by api code.
var ErrorTypeCodeIndex = makeDefaultErrorCodeIndex()
