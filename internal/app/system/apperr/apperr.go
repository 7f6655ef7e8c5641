// internal/app/system/apperr/apperr.go
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the closed set of failure categories the service reports.
// Handlers map a Kind to an HTTP status; callers branch on Kind, never on
// the underlying cause.
type Kind int

const (
	// NotFound: an entity id or username did not resolve.
	NotFound Kind = iota + 1
	// NotAMember: the requester is not a member of the project they are
	// acting on.
	NotAMember
	// AlreadyInvitedOrMember: duplicate Invite for a (user, project) pair
	// already in the INVITED or MEMBER state.
	AlreadyInvitedOrMember
	// DecodeError: an avatar payload could not be parsed or decoded as a
	// raster image.
	DecodeError
	// StoreWriteFailure: a persistence or object-store call failed before
	// any other write of the same operation succeeded.
	StoreWriteFailure
	// PartialTransition: a multi-step transition failed after at least one
	// earlier write succeeded. The stores may transiently disagree; the
	// operation is safe to re-drive because every underlying mutation is an
	// idempotent set add/remove.
	PartialTransition
	// InvalidCredentials: login failed.
	InvalidCredentials
	// UserExists: registration with a username that is already taken.
	UserExists
	// InvalidForm: a request payload failed validation.
	InvalidForm
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case NotAMember:
		return "not_a_member"
	case AlreadyInvitedOrMember:
		return "already_invited_or_member"
	case DecodeError:
		return "decode_error"
	case StoreWriteFailure:
		return "store_write_failure"
	case PartialTransition:
		return "partial_transition"
	case InvalidCredentials:
		return "invalid_credentials"
	case UserExists:
		return "user_exists"
	case InvalidForm:
		return "invalid_form"
	}
	return "unknown"
}

// HTTPStatus maps the Kind to the response status used at the API boundary.
func (k Kind) HTTPStatus() int {
	switch k {
	case NotFound:
		return http.StatusNotFound
	case NotAMember:
		return http.StatusForbidden
	case AlreadyInvitedOrMember, UserExists:
		return http.StatusConflict
	case DecodeError, InvalidForm:
		return http.StatusUnprocessableEntity
	case InvalidCredentials:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// Error carries a Kind, a user-presentable message, and an optional
// underlying cause. The cause is logged, never returned to clients and
// never used for control flow.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

// New builds an Error with no underlying cause.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error that records cause for logging.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Is lets errors.Is match two apperr values by Kind.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind
}

// KindOf extracts the Kind from err, or 0 if err is not an apperr.Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err is an apperr.Error of the given kind.
func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }
