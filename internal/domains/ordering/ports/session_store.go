package ports

import (
	"context"

	"github.com/Apurer/go-order-bot/internal/domains/ordering/domain"
)

// SessionStore is the process-wide session registry. WithSession creates the
// session on first contact and runs fn with exclusive access to it; calls
// for the same user run one at a time in the order they acquire the
// section, calls for different users never wait on each other.
type SessionStore interface {
	WithSession(ctx context.Context, id domain.UserID, fn func(*domain.Session) error) error
	Len() int
}
