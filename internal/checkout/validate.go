package checkout

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/valter-tonon/digimenu/internal/domain"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// digitsOnly strips everything but digits, phones arrive formatted as
// "(11) 99999-8888" and similar.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// validateStep checks that the step's required data is present on the
// session. Validation failures block progression only, the session itself is
// untouched.
func validateStep(s domain.CheckoutSession, step domain.Step) error {
	switch step {
	case domain.StepAuthentication:
		// Guests proceed without authenticating.
		return nil

	case domain.StepCustomerData:
		if len(strings.TrimSpace(s.CustomerData.Name)) < 2 {
			return fmt.Errorf("%w: name must have at least 2 characters", ErrStepIncomplete)
		}
		if len(digitsOnly(s.CustomerData.Phone)) < 10 {
			return fmt.Errorf("%w: phone must have at least 10 digits", ErrStepIncomplete)
		}
		if s.CustomerData.Email != "" && !emailPattern.MatchString(s.CustomerData.Email) {
			return fmt.Errorf("%w: email is invalid", ErrStepIncomplete)
		}
		return nil

	case domain.StepAddress:
		if s.SelectedAddress == nil {
			return fmt.Errorf("%w: a delivery address must be selected", ErrStepIncomplete)
		}
		return nil

	case domain.StepPayment:
		if !s.PaymentMethod.Valid() {
			return fmt.Errorf("%w: payment method must be one of pix, credit_card, debit_card, cash, voucher", ErrStepIncomplete)
		}
		return nil

	case domain.StepConfirmation:
		return nil
	}

	return fmt.Errorf("%w: unknown step %q", ErrStepNotReachable, step)
}
