package phonebook

import (
	"errors"
	"fmt"
)

// Kind tags every recoverable failure of the phonebook.
type Kind int

const (
	KindInvalidName Kind = iota + 1
	KindInvalidPhone
	KindInvalidEmail
	KindInvalidBirthday
	KindNotEnoughArguments
	KindNotANumber
	KindContactNotFound
	KindNameExists
	KindPhoneExists
	KindEmailExists
	KindPhoneNotFound
	KindEmailNotFound
)

var kindNames = map[Kind]string{
	KindInvalidName:        "invalid name",
	KindInvalidPhone:       "invalid phone",
	KindInvalidEmail:       "invalid email",
	KindInvalidBirthday:    "invalid birthday",
	KindNotEnoughArguments: "not enough arguments",
	KindNotANumber:         "not a number",
	KindContactNotFound:    "contact not found",
	KindNameExists:         "name already exists",
	KindPhoneExists:        "phone already exists",
	KindEmailExists:        "email already exists",
	KindPhoneNotFound:      "phone not found",
	KindEmailNotFound:      "email not found",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a typed, recoverable failure. Value holds the offending input, if any.
type Error struct {
	Kind  Kind
	Value string
}

func (e *Error) Error() string {
	if e.Value == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %q", e.Kind, e.Value)
}

// Is matches any *Error of the same kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrInvalidName        = &Error{Kind: KindInvalidName}
	ErrInvalidPhone       = &Error{Kind: KindInvalidPhone}
	ErrInvalidEmail       = &Error{Kind: KindInvalidEmail}
	ErrInvalidBirthday    = &Error{Kind: KindInvalidBirthday}
	ErrNotEnoughArguments = &Error{Kind: KindNotEnoughArguments}
	ErrNotANumber         = &Error{Kind: KindNotANumber}
	ErrContactNotFound    = &Error{Kind: KindContactNotFound}
	ErrNameExists         = &Error{Kind: KindNameExists}
	ErrPhoneExists        = &Error{Kind: KindPhoneExists}
	ErrEmailExists        = &Error{Kind: KindEmailExists}
	ErrPhoneNotFound      = &Error{Kind: KindPhoneNotFound}
	ErrEmailNotFound      = &Error{Kind: KindEmailNotFound}
)

func newError(kind Kind, value string) *Error {
	return &Error{Kind: kind, Value: value}
}

// NewError builds a failure of the given kind for value.
func NewError(kind Kind, value string) error {
	return newError(kind, value)
}

// KindOf extracts the kind of a phonebook failure wrapped anywhere in err.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// ValueOf returns the offending input recorded in err, if any.
func ValueOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Value
	}
	return ""
}
