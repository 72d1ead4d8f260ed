package getresponse

import (
	"errors"
	"fmt"
)

// Error codes described @ https://apidocs.getresponse.com/v3/errors
const (
	CodeValidationError         = 1000
	CodeRelatedResourceNotFound = 1001
	CodeForbidden               = 1002
	CodeResourceAlreadyExists   = 1008
	CodeResourceNotFound        = 1013
)

// Kinds of upstream failures. An *APIError unwraps to exactly one of them.
var (
	ErrValidation            = errors.New("validation failed")
	ErrRelatedRecordNotFound = errors.New("related record not found")
	ErrForbidden             = errors.New("forbidden")
	ErrUniqueProperty        = errors.New("unique property conflict")
	ErrNotFound              = errors.New("not found")
	ErrRequestFailed         = errors.New("request failed")
)

// Usage errors, returned before any request is sent.
var (
	ErrDuplicateParam        = errors.New("parameter given both as argument and in params")
	ErrPerPageRange          = errors.New("perPage must be between 1 and 1000")
	ErrInvalidPage           = errors.New("page must be a positive integer")
	ErrInvalidOperator       = errors.New("invalid search operator")
	ErrInvalidSubscriberType = errors.New("invalid subscriber type")
	ErrMissingID             = errors.New("missing id")
)

// APIError holds an error reply from the API.
type APIError struct {
	Kind            error          `json:"-"`
	HTTPStatus      int            `json:"httpStatus"`
	Code            int            `json:"code"`
	CodeDescription string         `json:"codeDescription"`
	Message         string         `json:"message"`
	MoreInfo        string         `json:"moreInfo"`
	Context         any            `json:"context"`
	UUID            string         `json:"uuid"`
	Payload         map[string]any `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("getresponse: %s: %s (code %d, http status %d)", e.Kind, e.Message, e.Code, e.HTTPStatus)
}

func (e *APIError) Unwrap() error {
	return e.Kind
}

func kindForCode(code int) error {
	switch code {
	case CodeValidationError:
		return ErrValidation
	case CodeRelatedResourceNotFound:
		return ErrRelatedRecordNotFound
	case CodeForbidden:
		return ErrForbidden
	case CodeResourceAlreadyExists:
		return ErrUniqueProperty
	case CodeResourceNotFound:
		return ErrNotFound
	default:
		return ErrRequestFailed
	}
}
