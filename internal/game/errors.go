package game

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why an action was rejected.
type ErrorKind int

const (
	// KindValidation marks a malformed or missing request field.
	KindValidation ErrorKind = iota
	// KindNotFound marks a target that is not present.
	KindNotFound
	// KindPrecondition marks a request that is well formed but not allowed right now.
	KindPrecondition
	// KindConflict marks a request that lost a race with another actor.
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindPrecondition:
		return "precondition"
	case KindConflict:
		return "conflict"
	}
	return "unknown"
}

// ActionError is a rejected action. Its Message is safe to show the player.
type ActionError struct {
	Kind    ErrorKind
	Message string

	sentinel error
}

func NewActionError(kind ErrorKind, msg string) *ActionError {
	return &ActionError{Kind: kind, Message: msg}
}

func (e *ActionError) Error() string {
	return e.Message
}

func (e *ActionError) Unwrap() error {
	return e.sentinel
}

// withMessage returns a copy of a sentinel-backed error with a specific message.
func (e *ActionError) withMessage(msg string) *ActionError {
	return &ActionError{Kind: e.Kind, Message: msg, sentinel: e}
}

var (
	ErrMovementBlocked = NewActionError(KindPrecondition, "You can't go that way.")
	ErrTargetNotFound  = NewActionError(KindNotFound, "You don't see that here.")
	ErrSpellNotFound   = NewActionError(KindNotFound, "You don't know that spell.")
	ErrOnCooldown      = NewActionError(KindPrecondition, "That ability is not ready yet.")
	ErrInvalidTarget   = NewActionError(KindValidation, "That is not a valid target.")
	ErrItemNotOwned    = NewActionError(KindNotFound, "You don't have that weapon.")
	ErrAlreadyEquipped = NewActionError(KindPrecondition, "That weapon is already equipped.")
	ErrLootNotFound    = NewActionError(KindNotFound, "That loot is no longer here.")
	ErrNoWarpHere      = NewActionError(KindPrecondition, "There is no warp stone here.")
	ErrDoorNotFound    = NewActionError(KindNotFound, "There is no such door here.")

	ErrCharacterNotFound = errors.New("character not found")
	ErrRoomNotFound      = errors.New("room not found")
)

// Reject derives an error from a sentinel with a more specific message.
// errors.Is(Reject(ErrOnCooldown, ...), ErrOnCooldown) holds.
func Reject(sentinel *ActionError, format string, args ...any) *ActionError {
	return sentinel.withMessage(fmt.Sprintf(format, args...))
}
