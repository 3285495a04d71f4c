package engine

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tbourn/go-billing-errors/internal/failure"
)

// fromBinding converts gin/encoding/validator binding errors into client
// faults. ok is false for anything else.
func fromBinding(err error, at failure.Origin) (failure.Failure, bool) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fieldName(fe)] = fieldMessage(fe)
		}
		return failure.Validation{Origin: at, Fields: fields}, true
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return failure.Validation{
			Origin: at,
			Fields: map[string]string{field: "must be of type " + typeErr.Type.String()},
		}, true
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return failure.BadRequest{Origin: at, Message: "Malformed JSON body", SubCode: failure.CodeInvalidJSON}, true
	}
	if errors.Is(err, io.EOF) {
		return failure.BadRequest{Origin: at, Message: "Request body is required", SubCode: failure.CodeMissingRequiredFields}, true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return failure.BadRequest{Origin: at, Message: "Request body too large"}, true
	}
	return nil, false
}

// fieldName prefers the namespace below the top-level struct, so nested
// fields read "address.city" rather than "CreateCustomerRequest.address.city".
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 && i < len(ns)-1 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lt":
		return "must be less than " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "len":
		return "must have length " + fe.Param()
	default:
		return "is invalid"
	}
}
