// Package apperrors provides the application error type used across the panel
// service. It extends the standard error interface with error chaining, HTTP
// status codes, and message customization, so handlers can surface upstream
// failures with the right response code without inspecting error internals.
package apperrors

// Error defines the interface for application errors. It extends the standard
// error interface with methods for error wrapping, message manipulation, and
// status code management. All methods return Error to support method chaining.
type Error interface {
	error
	Unwrap() error // support for errors.Is / errors.As

	// Extended methods
	New(msg string) Error                  // creates a new error using current as template
	Msg(msg string) Error                  // creates a new error with message and wraps original
	MsgErr(msg string, err ...error) Error // creates error with message and wraps extra errors
	Err(err ...error) Error                // attaches additional errors to current error
	SetExpandError(bool) Error             // controls whether ErrorAll expands wrapped errors
	SetStatusCode(int) Error               // sets HTTP status code for the error
	StatusCode() int                       // returns the current status code
	ErrorAll() string                      // returns full message including wrapped errors
	UnwrapAll() []error                    // returns all wrapped errors
}
