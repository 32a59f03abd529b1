/*
Error model for content negotiation and rendering.

Every failure raised by this module is a configuration or integration error: it is
expected during development, never recovered by the module itself, and surfaced to
the caller synchronously. Two objects describe these failures:

• ErrorType defines a kind of error, with a unique name, api code and http code.

• Error is an instance of an error which carries an ErrorType.

# Default ErrorType Variables

DuplicateRegistration, UnknownShortName, UnknownMimeType, NoRendererForMime,
MalformedHandlerResult and MissingDefault are declared in this package. Because Error
implements Is(), callers can test the kind of a returned error with xerrors.Is:

	if xerrors.Is(err, mimeerrors.UnknownShortName) {
		...
	}
*/
package mimeerrors
