package domain

import "strings"

// UserID identifies a chat user. Numeric channel IDs are stored in base 10.
type UserID string

// Sender describes who an inbound event came from.
type Sender struct {
	ID     UserID
	Handle string
}

// Session is the mutable cart, profile, and checkout state of one user.
// Callers must hold the user's exclusive section while touching it.
type Session struct {
	UserID  UserID
	Handle  string
	Cart    *Cart
	Profile Profile
	State   CheckoutState
}

// NewSession returns the zero-valued session of a first-contact user.
func NewSession(id UserID) *Session {
	return &Session{UserID: id, Cart: NewCart(), State: StateIdle}
}

// Observe records the latest known display handle of the sender.
func (s *Session) Observe(sender Sender) {
	if handle := strings.TrimPrefix(strings.TrimSpace(sender.Handle), "@"); handle != "" {
		s.Handle = handle
	}
}

// EnsureEditable rejects cart mutations while checkout holds the cart.
func (s *Session) EnsureEditable() error {
	if s.State.InCheckout() {
		return ErrCheckoutInProgress
	}
	return nil
}

// BeginCheckout moves an Idle session with a non-empty cart to AwaitingName.
func (s *Session) BeginCheckout() error {
	if s.State.InCheckout() {
		return ErrCheckoutInProgress
	}
	if s.Cart.IsEmpty() {
		return ErrEmptyCart
	}
	s.State = StateAwaitingName
	return nil
}

// Submit files text into the profile field the current state asks for. It
// returns true once the phone number is in and the order can be finalized;
// the state stays AwaitingPhone until CompleteCheckout.
func (s *Session) Submit(text string) (bool, error) {
	switch s.State {
	case StateAwaitingName:
		s.Profile.DisplayName = text
		s.State = StateAwaitingAddress
		return false, nil
	case StateAwaitingAddress:
		s.Profile.DeliveryAddress = text
		s.State = StateAwaitingPhone
		return false, nil
	case StateAwaitingPhone:
		s.Profile.PhoneNumber = text
		return true, nil
	default:
		return false, ErrNoCheckout
	}
}

// CompleteCheckout empties the cart and returns to Idle after a persisted order.
func (s *Session) CompleteCheckout(resetProfile bool) {
	s.Cart.Clear()
	s.State = StateIdle
	if resetProfile {
		s.Profile = Profile{}
	}
}

// AbandonCheckout returns to Idle keeping the cart.
func (s *Session) AbandonCheckout() error {
	if !s.State.InCheckout() {
		return ErrNoCheckout
	}
	s.State = StateIdle
	return nil
}
