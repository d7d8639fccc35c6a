package apperror

import (
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
)

// Kind is the category an error is translated from.
type Kind int

// Kinds in precedence order, most specific first.
const (
	KindBusiness Kind = iota + 1
	KindValidation
	KindNotFound
	KindMethodNotAllowed
	KindMalformedBody
	KindInternal
)

var kindNames = map[Kind]string{
	KindBusiness:         "business",
	KindValidation:       "validation",
	KindNotFound:         "not_found",
	KindMethodNotAllowed: "method_not_allowed",
	KindMalformedBody:    "malformed_body",
	KindInternal:         "internal",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Classify returns the single category err falls into.
func Classify(err error) Kind {
	var (
		domainErr    *DomainError
		validErr     *ValidationError
		fieldErrs    validator.ValidationErrors
		routeErr     *RouteError
		malformedErr *MalformedBodyError
		syntaxErr    *json.SyntaxError
		typeErr      *json.UnmarshalTypeError
	)

	switch {
	case errors.As(err, &domainErr):
		return KindBusiness
	case errors.As(err, &validErr), errors.As(err, &fieldErrs):
		return KindValidation
	case errors.As(err, &routeErr):
		if routeErr.MethodNotAllowed {
			return KindMethodNotAllowed
		}
		return KindNotFound
	case errors.As(err, &malformedErr), errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return KindMalformedBody
	default:
		return KindInternal
	}
}

// AsValidationError converts err into a ValidationError when it carries
// field-level validation failures.
func AsValidationError(err error) (*ValidationError, bool) {
	var validErr *ValidationError
	if errors.As(err, &validErr) {
		return validErr, true
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		v := &ValidationError{Fields: make([]FieldError, 0, len(fieldErrs))}
		for _, fe := range fieldErrs {
			v.Fields = append(v.Fields, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
		}
		return v, true
	}
	return nil, false
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "":
		return ""
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "failed on " + fe.Tag()
	}
}

// AsDomainError returns the business error wrapped by err.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
