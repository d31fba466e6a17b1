package errs

import "fmt"

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

type NotFoundError struct {
	ErrorMessage
}

type ValidationError struct {
	ErrorMessage
}

// NotReadyError is returned when a dashboard operation is attempted while
// the dashboard is still loading or failed to load. The state is unchanged.
type NotReadyError struct {
	ErrorMessage
	State string
}

// FetchError is a failed dataset load. Message is safe to show to users.
type FetchError struct {
	ErrorMessage
	Source string
	Err    error
}

func (e *FetchError) Unwrap() error { return e.Err }

type DatabaseError struct {
	ErrorMessage
	Operation string
	Err       error
}

func (e *DatabaseError) Unwrap() error { return e.Err }

type ExternalServiceError struct {
	ErrorMessage
	Service   string
	Transient bool
	Err       error
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewNotReadyError(state string) *NotReadyError {
	return &NotReadyError{
		ErrorMessage: ErrorMessage{Message: fmt.Sprintf("dashboard is not ready (state: %s)", state)},
		State:        state,
	}
}

func NewFetchError(source, message string, err error) *FetchError {
	return &FetchError{
		ErrorMessage: ErrorMessage{Message: message},
		Source:       source,
		Err:          err,
	}
}

func NewDatabaseError(operation, message string, err error) *DatabaseError {
	return &DatabaseError{
		ErrorMessage: ErrorMessage{Message: message},
		Operation:    operation,
		Err:          err,
	}
}

func NewExternalServiceError(service, message string, transient bool, err error) *ExternalServiceError {
	return &ExternalServiceError{
		ErrorMessage: ErrorMessage{Message: message},
		Service:      service,
		Transient:    transient,
		Err:          err,
	}
}
