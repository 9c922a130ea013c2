// Package apperr defines the error kinds surfaced to the user as status lines.
// Nothing in tripmap is fatal: every failure becomes one of these and ends up
// in the status area.
package apperr

import (
	"errors"
	"fmt"
)

// Kind represents the category of error.
type Kind int

const (
	// KindUnknown is the default when the error is not an *Error.
	KindUnknown Kind = iota
	// KindValidation is a local, pre-network input problem.
	KindValidation
	// KindProvider is a failure status reported by the search provider.
	KindProvider
	// KindNetwork is a transport-level failure (no usable response).
	KindNetwork
	// KindServer is a non-2xx or success:false answer from the backend.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindProvider:
		return "provider"
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Fixed user-facing messages.
const (
	MsgEmptyQuery   = "Enter a search term."
	MsgNoResults    = "No search results found."
	MsgSearchFailed = "An error occurred while searching."
	MsgNoSelection  = "Pick one of the search results first."
	MsgNoNickname   = "Enter a place name."
	MsgSaveFailed   = "An error occurred while saving."
	MsgNetwork      = "A network error occurred."
	MsgSaved        = "Saved!"
	MsgBusy         = "A submission is already in progress."
)

// Error is a typed error carrying the message shown to the user.
type Error struct {
	Kind    Kind
	Message string
	Op      string // operation that failed (optional)
	Status  int    // HTTP status when one was received
	Err     error  // underlying error (optional)
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, msg)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// WithOp sets the operation name and returns e.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error of the given kind around err.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error { return New(KindValidation, message) }

func Provider(message string, err error) *Error { return Wrap(KindProvider, message, err) }

func Network(err error) *Error { return Wrap(KindNetwork, MsgNetwork, err) }

// Server builds a backend rejection; an empty message falls back to MsgSaveFailed.
func Server(status int, message string) *Error {
	if message == "" {
		message = MsgSaveFailed
	}
	return &Error{Kind: KindServer, Message: message, Status: status}
}

// GetKind extracts the kind from anywhere in err's chain.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is checks whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}

// UserMessage is the status line for err. Unknown errors get the generic
// network message so nothing raw leaks to the screen.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return MsgNetwork
}
