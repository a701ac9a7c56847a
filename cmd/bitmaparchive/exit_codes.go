package main

const (
	exitCodeUnknownError     = 1
	exitCodeInvalidArguments = 2
	exitCodeInvalidInput     = 3
	exitCodeInvalidOutput    = 4
	exitCodeInvalidConfig    = 5
	exitCodeArchiveError     = 6
)

type exitCodeError struct {
	originalError error
	exitCode      int
}

func (e *exitCodeError) Error() string {
	return e.originalError.Error()
}

func (e *exitCodeError) Unwrap() error {
	return e.originalError
}

func (e *exitCodeError) ExitCode() int {
	return e.exitCode
}

func newExitCodeError(err error, code int) *exitCodeError {
	return &exitCodeError{
		originalError: err,
		exitCode:      code,
	}
}
