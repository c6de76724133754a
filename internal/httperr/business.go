package httperr

import "errors"

// Kind classifies a business failure; the HTTP layer maps each kind to
// a status code in httperr.Respond.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindForbidden         Kind = "forbidden"
	KindInvalidInput      Kind = "invalid_input"
	KindInvalidTransition Kind = "invalid_transition"
	KindSlotUnavailable   Kind = "slot_unavailable"
	KindOverlap           Kind = "overlap"
	KindConflict          Kind = "conflict"
	KindUnauthorized      Kind = "unauthorized"
)

type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	return e.Code
}

func E(kind Kind, code string) error {
	return BusinessError{Kind: kind, Code: code}
}

func Ef(kind Kind, code, message string) error {
	return BusinessError{Kind: kind, Code: code, Message: message}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func IsKind(err error, kind Kind) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}
