package domain

import (
	"errors"
	"fmt"
)

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates the resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrImmutable indicates an edit or attach was blocked by the
	// canonical-record protocol
	ErrImmutable = errors.New("record is immutable")

	// ErrNoIdentifier indicates variant creation was attempted on a record
	// without an external identifier
	ErrNoIdentifier = errors.New("record has no identifier")

	// ErrAlreadyVariant indicates variant creation was attempted on a record
	// that is itself a variant
	ErrAlreadyVariant = errors.New("record is already a variant")

	// ErrOutOfRange indicates a score dimension outside the accepted bounds
	ErrOutOfRange = errors.New("score out of range")

	// ErrSourceUnreachable indicates the external source could not be reached
	ErrSourceUnreachable = errors.New("source unreachable")

	// ErrCorrupt indicates an unparseable journal line
	ErrCorrupt = errors.New("corrupt journal entry")

	// ErrJournalNotEmpty indicates a bulk import targeted an existing journal
	ErrJournalNotEmpty = errors.New("journal not empty")

	// ErrUnauthorized indicates authentication failed or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the caller lacks permission for this action
	ErrForbidden = errors.New("forbidden")

	// ErrTokenExpired indicates the auth token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the auth token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")

	// ErrSessionNotFound indicates the session does not exist
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidCredentials indicates a wrong email/password combination
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ImmutableError reports a blocked edit or attach against a canonical record.
// It carries the blocking identifier and points the caller at the
// variant-creation operation instead of a generic failure.
type ImmutableError struct {
	Key        string
	Identifier string
	Operation  string
}

func (e *ImmutableError) Error() string {
	return fmt.Sprintf("record %s is canonical (identifier %s): %s is blocked, create a variant via POST /api/v1/items/%s/variant",
		e.Key, e.Identifier, e.Operation, e.Key)
}

func (e *ImmutableError) Unwrap() error { return ErrImmutable }

// ScoreRangeError reports a score dimension outside [0,100].
type ScoreRangeError struct {
	Dimension ScoreDimension
	Value     float64
}

func (e *ScoreRangeError) Error() string {
	return fmt.Sprintf("score dimension %s value %.1f outside [0,100]", e.Dimension, e.Value)
}

func (e *ScoreRangeError) Unwrap() error { return ErrOutOfRange }
