package server

import (
	"fmt"
	"net/http"
	"strings"
)

// APIError is a failure the façade reports to the client as {"error": Message}.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

var errMissingPayload = &APIError{Status: http.StatusBadRequest, Message: "Missing JSON payload"}

func errMissingFields(names []string) *APIError {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}

	var msg string
	switch len(quoted) {
	case 1:
		msg = fmt.Sprintf("Field %s is required", quoted[0])
	case 2:
		msg = fmt.Sprintf("Fields %s and %s are required", quoted[0], quoted[1])
	default:
		msg = fmt.Sprintf("Fields %s, and %s are required", strings.Join(quoted[:len(quoted)-1], ", "), quoted[len(quoted)-1])
	}
	return &APIError{Status: http.StatusBadRequest, Message: msg}
}

func errInvalidField(name string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: fmt.Sprintf("Field '%s' must be a string", name)}
}

func errTranslationFailure(err error) *APIError {
	return &APIError{Status: http.StatusInternalServerError, Message: err.Error()}
}
