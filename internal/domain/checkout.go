package domain

type Step string

const (
	StepAuthentication Step = "authentication"
	StepCustomerData   Step = "customer_data"
	StepAddress        Step = "address"
	StepPayment        Step = "payment"
	StepConfirmation   Step = "confirmation"
)

// StepSequence returns the ordered checkout steps for the order type.
// Non-delivery orders skip the address step entirely, it is not part of the
// traversal at all.
func StepSequence(isDelivery bool) []Step {
	if isDelivery {
		return []Step{StepAuthentication, StepCustomerData, StepAddress, StepPayment, StepConfirmation}
	}
	return []Step{StepAuthentication, StepCustomerData, StepPayment, StepConfirmation}
}

type PaymentMethod string

const (
	PaymentPix        PaymentMethod = "pix"
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentDebitCard  PaymentMethod = "debit_card"
	PaymentCash       PaymentMethod = "cash"
	PaymentVoucher    PaymentMethod = "voucher"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentPix, PaymentCreditCard, PaymentDebitCard, PaymentCash, PaymentVoucher:
		return true
	}
	return false
}

type CustomerData struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

type CheckoutSession struct {
	CurrentStep     Step          `json:"current_step"`
	CompletedSteps  []Step        `json:"completed_steps,omitempty"`
	CustomerData    CustomerData  `json:"customer_data"`
	SelectedAddress *Address      `json:"selected_address,omitempty"`
	PaymentMethod   PaymentMethod `json:"payment_method,omitempty"`
	OrderNotes      string        `json:"order_notes,omitempty"`
	IsDelivery      bool          `json:"is_delivery"`
	TableID         string        `json:"table_id,omitempty"`
}

func NewCheckoutSession(isDelivery bool, tableID string) CheckoutSession {
	return CheckoutSession{
		CurrentStep: StepAuthentication,
		IsDelivery:  isDelivery,
		TableID:     tableID,
	}
}

func (s CheckoutSession) Steps() []Step {
	return StepSequence(s.IsDelivery)
}

func (s CheckoutSession) HasCompleted(step Step) bool {
	for _, done := range s.CompletedSteps {
		if done == step {
			return true
		}
	}
	return false
}

// MarkComplete records the step as done. Idempotent.
func (s CheckoutSession) MarkComplete(step Step) CheckoutSession {
	if s.HasCompleted(step) {
		return s
	}
	completed := make([]Step, len(s.CompletedSteps), len(s.CompletedSteps)+1)
	copy(completed, s.CompletedSteps)
	s.CompletedSteps = append(completed, step)
	return s
}

// stepIndex returns the position of the step in this session's sequence,
// or -1 when the step does not apply (e.g. address on a takeout order).
func (s CheckoutSession) stepIndex(step Step) int {
	for i, candidate := range s.Steps() {
		if candidate == step {
			return i
		}
	}
	return -1
}

// NextStep returns the step after the current one, or the current step when
// already at the end of the sequence.
func (s CheckoutSession) NextStep() Step {
	steps := s.Steps()
	i := s.stepIndex(s.CurrentStep)
	if i < 0 || i >= len(steps)-1 {
		return s.CurrentStep
	}
	return steps[i+1]
}

// PrevStep returns the step before the current one, or the current step when
// already at the beginning.
func (s CheckoutSession) PrevStep() Step {
	steps := s.Steps()
	i := s.stepIndex(s.CurrentStep)
	if i <= 0 {
		return s.CurrentStep
	}
	return steps[i-1]
}

// OrderType derives the order type: a table session is a local order,
// delivery mode is delivery, anything else is takeout.
func (s CheckoutSession) OrderType() OrderType {
	if s.TableID != "" {
		return OrderTypeLocal
	}
	if s.IsDelivery {
		return OrderTypeDelivery
	}
	return OrderTypeTakeout
}
