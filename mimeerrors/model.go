package mimeerrors

import (
	"fmt"
	"runtime/debug"
	"strconv"

	uuid "github.com/satori/go.uuid"
	"golang.org/x/xerrors"
)

/*
ErrorType defines a kind of error the negotiation layer can return.

Each ErrorType should have a unique Name and APICode. Codes 2000-2999 are reserved
for this module's default error definitions.

Since types are declared as pointers, to protect against accidental mutation of the
error type by other packages, the underlying fields of this struct are private and
accessed through functions. Define new error types using NewErrorType().
*/
type ErrorType struct {
	// Unique human-readable name of the error type.
	name string

	// Unique number to identify the error type.
	apiCode int

	// HTTP code that should be returned when this error type reaches a client.
	httpCode int
}

// NewErrorType returns an error type definition. Each definition should only need to
// be declared once.
func NewErrorType(name string, apiCode int, httpCode int) *ErrorType {
	return &ErrorType{
		name:     name,
		apiCode:  apiCode,
		httpCode: httpCode,
	}
}

// New returns an error of this type.
func (errorType *ErrorType) New(
	message string,
	errorData map[string]interface{},
	source error,
) *Error {
	return &Error{
		ErrorType:   errorType,
		Message:     message,
		ID:          uuid.NewV4(),
		ErrorData:   errorData,
		sourceErr:   source,
		sourceStack: debug.Stack(),
		frame:       xerrors.Caller(1),
	}
}

// Newf is New with a formatted message and no data or source.
func (errorType *ErrorType) Newf(format string, args ...interface{}) *Error {
	err := errorType.New(fmt.Sprintf(format, args...), nil, nil)
	err.frame = xerrors.Caller(1)
	return err
}

// Name is the unique human-readable name of the error type.
func (errorType *ErrorType) Name() string {
	return errorType.name
}

// APICode is the unique number identifying the error type.
func (errorType *ErrorType) APICode() int {
	return errorType.apiCode
}

// HTTPCode is the http status a client should see for this error type.
func (errorType *ErrorType) HTTPCode() int {
	return errorType.httpCode
}

// Allows the error type definition itself to also be a valid error, so it can be the
// target of xerrors.Is.
func (errorType *ErrorType) Error() string {
	return errorType.name + " (" + strconv.Itoa(errorType.apiCode) + ")"
}

// Error is a specific error instance.
type Error struct {
	// The type of error we are returning.
	*ErrorType

	// A message detailing what caused the error.
	Message string

	// An id for the error being returned.
	ID uuid.UUID

	// A string / any mapping of data related to the error.
	ErrorData map[string]interface{}

	// If this error was returned because of another error, the original error is stored
	// here.
	sourceErr error

	// The debug.Stack() from where this error was instantiated.
	sourceStack []byte

	// The xerrors.Frame from where this error was instantiated.
	frame xerrors.Frame
}

// IsType returns true if the underlying type of this error is errorType.
func (err *Error) IsType(errorType *ErrorType) bool {
	return err.ErrorType.Error() == errorType.Error()
}

// Is lets xerrors.Is match an *Error against its *ErrorType.
func (err *Error) Is(target error) bool {
	if errorType, ok := target.(*ErrorType); ok {
		return err.IsType(errorType)
	}
	return false
}

func (err *Error) Error() string {
	return err.ErrorType.Error() + " - " + err.Message
}

// Unwrap returns the source error, if any.
func (err *Error) Unwrap() error {
	return err.sourceErr
}

// FormatError implements xerrors.Formatter so "%+v" prints the creation frame.
func (err *Error) FormatError(printer xerrors.Printer) error {
	printer.Print(err.Error())
	err.frame.Format(printer)
	return err.sourceErr
}

func (err *Error) Format(state fmt.State, verb rune) {
	xerrors.FormatError(err, state, verb)
}

// LogMessage is a more verbose error message that includes the creation stack and
// source error. It is not part of Error() since it may contain information that
// should not reach the client.
func (err *Error) LogMessage() string {
	return fmt.Sprint(
		"\nMESSAGE: ",
		err.Error(),
		"\nORIGINAL: ",
		err.sourceErr,
		"\nSTACK:\n",
		string(err.sourceStack),
	)
}
