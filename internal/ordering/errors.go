package ordering

import "errors"

var (
	ErrNothingToAdd = errors.New("nothing to add")
	ErrEmptyCart    = errors.New("cart is empty")
	ErrOrderClosed  = errors.New("order is already completed")

	ErrMissingFields = &ValidationError{Msg: "please fill in all required fields"}
)

// ValidationError is a checkout field problem reported before any write.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func invalid(msg string) error {
	return &ValidationError{Msg: msg}
}
