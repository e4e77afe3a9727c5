package domain

import "fmt"

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

// ValidationError rejects a boundary input before any write happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e ValidationError) Is(target error) bool {
	_, ok := target.(ValidationError)
	if ok {
		return true
	}
	_, ok = target.(*ValidationError)
	return ok
}

// DuplicateSignatureError means the email already signed; the caller should
// be directed to the edit flow instead of resubmitting.
type DuplicateSignatureError struct{}

func (e DuplicateSignatureError) Error() string {
	return "this email address has already been used to sign the petition; use the edit flow to update your information"
}

func (e DuplicateSignatureError) Is(target error) bool {
	_, ok := target.(DuplicateSignatureError)
	if ok {
		return true
	}
	_, ok = target.(*DuplicateSignatureError)
	return ok
}

// ErrDuplicateSignature is the sentinel for one-signature-per-email violations.
var ErrDuplicateSignature = DuplicateSignatureError{}

// ErrInvalidOrExpiredCode covers wrong, expired, consumed and never-issued
// codes alike. The caller cannot tell which, on purpose.
var ErrInvalidOrExpiredCode = fmt.Errorf("invalid or expired code")

// ErrAuthentication rejects an edit whose credential did not verify.
var ErrAuthentication = fmt.Errorf("authentication failed")
