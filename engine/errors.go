package engine

import (
	"errors"
	"fmt"
)

// Kind labels an engine error so callers can dispatch on the failure class
// without parsing messages.
type Kind string

const (
	KindAuthorization   Kind = "authorization"
	KindNotEligible     Kind = "not_eligible"
	KindLimitExceeded   Kind = "limit_exceeded"
	KindInvalidState    Kind = "invalid_state"
	KindPriceViolation  Kind = "price_violation"
	KindTransferFailure Kind = "transfer_failure"
)

type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Msg
}

func Errorf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from an engine error chain, or "" for errors
// that did not originate from a precondition or settlement failure.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// wrapTransfer converts a funds-ledger failure into a TransferFailure
// unless the error already carries a kind.
func wrapTransfer(err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != "" {
		return err
	}
	return Errorf(KindTransferFailure, "%s", err.Error())
}
