package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-order-bot/internal/domains/ordering/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid ordering input")
	// ErrPersistFailed wraps order ledger failures; cart and checkout state are kept for a retry.
	ErrPersistFailed = errors.New("order could not be saved")
	// ErrNotifyFailed wraps admin notification failures. It is logged, never returned to customers.
	ErrNotifyFailed = errors.New("admin notification failed")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidUserID) ||
		errors.Is(err, domain.ErrUnknownItem) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
