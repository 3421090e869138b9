package tokini

import (
	"errors"

	"tokini/internal/dice"
	"tokini/internal/options"
)

// Message returns the user-facing text for a rejected action.
func Message(err error) string {
	switch {
	case errors.Is(err, options.ErrEmptyInput):
		return "Please enter an option!"
	case errors.Is(err, options.ErrDuplicateOption):
		return "This option already exists!"
	case errors.Is(err, options.ErrCapacityExceeded):
		return "Maximum 10 options allowed!"
	case errors.Is(err, options.ErrIndexOutOfRange):
		return "That option no longer exists!"
	case errors.Is(err, options.ErrInsufficientOptions):
		return "Add at least 2 options to make a decision!"
	case errors.Is(err, dice.ErrRollInProgress):
		return "Hold on, the dice are still rolling!"
	default:
		return "Something went wrong, please try again."
	}
}
