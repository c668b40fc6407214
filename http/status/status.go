package status

import (
	"strconv"
	"strings"
)

// Status is an immutable pair of a status code and its reason phrase. The reason
// isn't checked against the registry, so "500 This is not a bug" is fine.
type Status struct {
	code   Code
	reason string
}

// New validates the code and returns a Status. Empty reason is replaced by the
// registered one. Reasons containing line breaks are rejected.
func New(code Code, reason string) (Status, error) {
	if !code.Valid() {
		return Status{}, ErrInvalidCode
	}

	if strings.ContainsAny(reason, "\r\n") {
		return Status{}, ErrInvalidReason
	}

	if len(reason) == 0 {
		reason = Text(code)
	}

	return Status{code: code, reason: reason}, nil
}

// FromCode is the same as New with the registered reason phrase, but panics on an
// invalid code. Intended to be used with the constants of this package.
func FromCode(code Code) Status {
	s, err := New(code, "")
	if err != nil {
		panic("status: code " + strconv.Itoa(int(code)) + " is out of range")
	}

	return s
}

func (s Status) Code() Code {
	return s.code
}

func (s Status) Reason() string {
	return s.reason
}

// IsZero tells whether the status was never initialized.
func (s Status) IsZero() bool {
	return s.code == 0
}

// String renders the status in a form suitable for the response line, e.g. "200 OK".
func (s Status) String() string {
	return strconv.Itoa(int(s.code)) + " " + s.reason
}
