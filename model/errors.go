package model

import "net/http"

// ErrorKind tags the failure of a workflow step.
type ErrorKind string

const (
	InvalidClient               ErrorKind = "invalid_client"
	MissingRequiredFields       ErrorKind = "missing_required_fields"
	InvalidResourceSetRequested ErrorKind = "invalid_resource_set_requested"
	InvalidScope                ErrorKind = "invalid_scope"
	NotOwner                    ErrorKind = "not_owner"
	InvalidRptToken             ErrorKind = "invalid_rpt_token"
	InvalidToken                ErrorKind = "invalid_token"
	UserDoesNotExist            ErrorKind = "user_does_not_exist"
	ServerError                 ErrorKind = "server_error"
)

// every kind maps to exactly one status, regardless of the workflow it
// occurred in
var kindStatus = map[ErrorKind]int{
	InvalidClient:               http.StatusUnauthorized,
	MissingRequiredFields:       http.StatusBadRequest,
	InvalidResourceSetRequested: http.StatusNotFound,
	InvalidScope:                http.StatusBadRequest,
	NotOwner:                    http.StatusForbidden,
	InvalidRptToken:             http.StatusUnauthorized,
	InvalidToken:                http.StatusUnauthorized,
	UserDoesNotExist:            http.StatusNotFound,
	ServerError:                 http.StatusInternalServerError,
}

// UmaError is the typed error passed along the step pipeline. It is compared
// against its zero value, a zero UmaError means no error occurred.
type UmaError struct {
	Kind      ErrorKind
	Status    int
	Message   string
	RootError error
}

func (err UmaError) Error() string {
	return err.Message
}

func (err UmaError) GetRoot() error {
	return err.RootError
}

// NewUmaError builds an error of the given kind with its uniform status.
func NewUmaError(kind ErrorKind, message string) UmaError {
	return UmaError{Kind: kind, Status: kindStatus[kind], Message: message}
}

// NewServerError wraps an internal cause. The cause is kept for logging and
// never rendered to the caller.
func NewServerError(message string, cause error) UmaError {
	return UmaError{Kind: ServerError, Status: kindStatus[ServerError], Message: message, RootError: cause}
}
