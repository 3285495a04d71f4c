package failure

import (
	"net/http"
	"strconv"
	"strings"
	"unicode"
)

// Stable, machine-readable codes. Clients branch on these.
const (
	CodeBadRequest            = "BAD_REQUEST"
	CodeInvalidJSON           = "INVALID_JSON"
	CodeMissingRequiredFields = "MISSING_REQUIRED_FIELDS"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeSessionExpired        = "SESSION_EXPIRED"
	CodePermissionDenied      = "PERMISSION_DENIED"
	CodeNotFoundSuffix        = "_NOT_FOUND"
	CodeMethodNotAllowed      = "METHOD_NOT_ALLOWED"
	CodeConflict              = "CONFLICT"
	CodeDuplicateEntry        = "DUPLICATE_ENTRY"
	CodeForeignKeyViolation   = "FOREIGN_KEY_VIOLATION"
	CodeForeignKeyDelete      = "FOREIGN_KEY_DELETE"
	CodeIntegrityViolation    = "INTEGRITY_VIOLATION"
	CodeBusinessRule          = "BUSINESS_RULE_VIOLATION"
	CodeValidationFailed      = "VALIDATION_FAILED"
	CodeRateLimitExceeded     = "RATE_LIMIT_EXCEEDED"
	CodeInternal              = "INTERNAL_ERROR"
	CodeDatabase              = "DATABASE_ERROR"
	CodeServiceUnavailable    = "SERVICE_UNAVAILABLE"
)

// Fixed client messages for failures whose real text must stay server-side.
const (
	MessageInternal = "An unexpected error occurred. Please try again later."
	MessageDatabase = "Database error occurred"
)

// Facts is everything needed to render one error response.
//
// Header holds extra response headers (Retry-After, Allow).
type Facts struct {
	Status  int
	Code    string
	Message string
	Details any
	Header  map[string]string
}

// FactsOf resolves the response facts for f. It is total and performs no I/O.
//
// Database resolves to the generic database fallback here; the engine refines
// it through the extractor rules. Unclassified always resolves to the fixed
// production message; debug detail is added by the engine.
func FactsOf(f Failure) Facts {
	switch v := Value(f).(type) {
	case Validation:
		fields := v.Fields
		if fields == nil {
			fields = map[string]string{}
		}
		return Facts{
			Status:  http.StatusUnprocessableEntity,
			Code:    CodeValidationFailed,
			Message: firstNonEmpty(v.Message, "The given data was invalid"),
			Details: fields,
		}
	case Authentication:
		return Facts{
			Status:  http.StatusUnauthorized,
			Code:    firstNonEmpty(v.SubCode, CodeUnauthorized),
			Message: firstNonEmpty(v.Message, "Authentication required"),
		}
	case Authorization:
		out := Facts{
			Status:  http.StatusForbidden,
			Code:    CodePermissionDenied,
			Message: "You do not have permission to perform this action",
		}
		if v.Permission != "" {
			out.Details = map[string]string{"required_permission": v.Permission}
		}
		return out
	case NotFound:
		return Facts{
			Status:  http.StatusNotFound,
			Code:    NotFoundCode(v.Resource),
			Message: notFoundMessage(v.Resource, v.ID),
		}
	case Conflict:
		return Facts{
			Status:  http.StatusConflict,
			Code:    firstNonEmpty(v.SubCode, CodeConflict),
			Message: firstNonEmpty(v.Message, "The request conflicts with the current state of the resource"),
		}
	case RateLimited:
		secs := retryAfter(v.RetryAfter)
		return Facts{
			Status:  http.StatusTooManyRequests,
			Code:    CodeRateLimitExceeded,
			Message: "Too many requests. Please retry after " + strconv.Itoa(secs) + " seconds.",
			Details: map[string]int{"retry_after": secs},
			Header:  map[string]string{"Retry-After": strconv.Itoa(secs)},
		}
	case BadRequest:
		return Facts{
			Status:  http.StatusBadRequest,
			Code:    firstNonEmpty(v.SubCode, CodeBadRequest),
			Message: firstNonEmpty(v.Message, "The request could not be understood"),
		}
	case MethodNotAllowed:
		allow := strings.Join(v.Allowed, ", ")
		out := Facts{
			Status:  http.StatusMethodNotAllowed,
			Code:    CodeMethodNotAllowed,
			Message: "Method " + firstNonEmpty(v.Method, "used") + " is not allowed for this resource",
		}
		if allow != "" {
			out.Header = map[string]string{"Allow": allow}
		}
		return out
	case Database:
		return Facts{Status: http.StatusInternalServerError, Code: CodeDatabase, Message: MessageDatabase}
	case Unclassified:
		return Facts{Status: http.StatusInternalServerError, Code: CodeInternal, Message: MessageInternal}
	default:
		return Facts{Status: http.StatusInternalServerError, Code: CodeInternal, Message: MessageInternal}
	}
}

// NotFoundCode derives "{RESOURCE}_NOT_FOUND" from a resource name.
func NotFoundCode(resource string) string {
	return CodeFromText(firstNonEmpty(resource, "Resource")) + CodeNotFoundSuffix
}

// CodeFromText turns free text into an UPPER_SNAKE code: letters and digits
// are upper-cased, every other run of characters becomes one underscore.
func CodeFromText(s string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		pendingSep = true
	}
	return b.String()
}

func notFoundMessage(resource, id string) string {
	resource = firstNonEmpty(resource, "Resource")
	if strings.TrimSpace(id) == "" {
		return resource + " not found"
	}
	return resource + " with identifier '" + id + "' not found"
}

func retryAfter(secs int) int {
	if secs < 1 {
		return 1
	}
	return secs
}
