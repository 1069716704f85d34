package checkout

import "errors"

var (
	ErrEmptyCart         = errors.New("cart is empty, nothing to submit")
	ErrNotAtConfirmation = errors.New("order can only be submitted from the confirmation step")
	ErrStepNotReachable  = errors.New("cannot jump to a step that was not completed")
	ErrStepIncomplete    = errors.New("step requirements not met")
)
