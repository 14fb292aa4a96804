package apierror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FallbackMessage is shown when an error carries no usable message.
const FallbackMessage = "Something went wrong"

// Kind classifies a failure.
type Kind int

const (
	// KindTransport means no HTTP response was received.
	KindTransport Kind = iota + 1
	// KindHTTP means the backend answered with a non-2xx status.
	KindHTTP
	// KindAuth means the backend answered 401.
	KindAuth
	// KindValidation means the request was rejected before being sent.
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindHTTP:
		return "http"
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. Comparison is by Kind only.
var (
	ErrTransport  = &Error{Kind: KindTransport}
	ErrHTTP       = &Error{Kind: KindHTTP}
	ErrAuth       = &Error{Kind: KindAuth}
	ErrValidation = &Error{Kind: KindValidation}
)

// Error is a normalized backend call failure.
type Error struct {
	Message string
	Status  int                 // 0 when no response was received
	Errors  map[string][]string // field errors, if any
	Kind    Kind
	Payload any // decoded JSON body, or raw text

	timeout bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("[%d] %s", e.Status, e.Message)
	}
	return e.Message
}

// Is implements errors.Is support by comparing kinds.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Timeout reports whether the call failed because a deadline passed.
func (e *Error) Timeout() bool {
	return e.timeout
}

// FieldErrors returns the messages for one field.
func (e *Error) FieldErrors(field string) []string {
	return e.Errors[field]
}

// body is the error envelope the backends return. Fields are decoded one
// by one so an unexpected shape in one does not hide the others.
type body struct {
	Message json.RawMessage `json:"message"`
	Error   json.RawMessage `json:"error"`
	Detail  json.RawMessage `json:"detail"`
	Errors  json.RawMessage `json:"errors"`
}

// FromResponse builds an Error from a non-2xx response.
//
// A JSON body contributes message (or error, or detail) and field errors.
// Anything else yields "HTTP <status>" with the raw text as Payload.
func FromResponse(status int, raw []byte) *Error {
	e := &Error{
		Status: status,
		Kind:   KindHTTP,
	}
	if status == http.StatusUnauthorized {
		e.Kind = KindAuth
	}

	var payload any
	if len(raw) > 0 && json.Unmarshal(raw, &payload) == nil {
		e.Payload = payload

		var b body
		if json.Unmarshal(raw, &b) == nil {
			e.Message = firstNonEmpty(text(b.Message), text(b.Error), text(b.Detail))
			e.Errors = fieldErrors(b.Errors)
		}
	} else if len(raw) > 0 {
		e.Payload = string(raw)
	}

	if e.Message == "" {
		e.Message = fmt.Sprintf("HTTP %d", status)
	}
	return e
}

// FromTransport builds an Error from a failure that produced no response.
func FromTransport(err error) *Error {
	e := &Error{
		Kind:    KindTransport,
		Message: FallbackMessage,
	}
	if err == nil {
		return e
	}
	if msg := err.Error(); msg != "" {
		e.Message = msg
	}

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		e.timeout = true
	case errors.As(err, &netErr) && netErr.Timeout():
		e.timeout = true
	}
	return e
}

// FromValidation builds an Error from go-playground/validator output.
// Field keys use the field names reported by the validator.
func FromValidation(err error) *Error {
	e := &Error{
		Kind:    KindValidation,
		Message: "Invalid request",
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		if err != nil {
			e.Message = err.Error()
		}
		return e
	}

	e.Errors = make(map[string][]string, len(verrs))
	for i, fe := range verrs {
		msg := describe(fe)
		e.Errors[fe.Field()] = append(e.Errors[fe.Field()], msg)
		if i == 0 {
			e.Message = msg
		}
	}
	return e
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "e164":
		return fe.Field() + " must be a phone number in international format"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", fe.Field(), fe.Param())
	case "numeric":
		return fe.Field() + " must contain only digits"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
}

// AsError extracts an *Error from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsAuth reports whether err is an authentication failure.
func IsAuth(err error) bool {
	return errors.Is(err, ErrAuth)
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsValidation reports whether err is a client-side validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// Message returns the message to show for err: the server message,
// else the error text, else FallbackMessage. Never empty for non-nil err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := AsError(err); ok && e.Message != "" {
		return e.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return FallbackMessage
}

// text returns raw as a string when it holds a JSON string.
func text(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// fieldErrors accepts {"field": ["msg", ...]} and {"field": "msg"}.
// Values of any other shape are dropped.
func fieldErrors(raw json.RawMessage) map[string][]string {
	if len(raw) == 0 {
		return nil
	}
	var fields map[string]json.RawMessage
	if json.Unmarshal(raw, &fields) != nil {
		return nil
	}

	out := make(map[string][]string, len(fields))
	for field, v := range fields {
		var list []string
		if json.Unmarshal(v, &list) == nil {
			out[field] = list
			continue
		}
		if msg := text(v); msg != "" {
			out[field] = []string{msg}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
