package domain

// CheckoutState enumerates the checkout dialogue steps.
type CheckoutState string

const (
	StateIdle            CheckoutState = "idle"
	StateAwaitingName    CheckoutState = "awaiting_name"
	StateAwaitingAddress CheckoutState = "awaiting_address"
	StateAwaitingPhone   CheckoutState = "awaiting_phone"
)

// InCheckout reports whether the dialogue is collecting customer details.
func (s CheckoutState) InCheckout() bool {
	return s == StateAwaitingName || s == StateAwaitingAddress || s == StateAwaitingPhone
}

// String representation (for logging)
func (s CheckoutState) String() string {
	if s == "" {
		return string(StateIdle)
	}
	return string(s)
}

// Profile holds the customer details collected during checkout.
type Profile struct {
	DisplayName     string
	DeliveryAddress string
	PhoneNumber     string
}
