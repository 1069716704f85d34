package address

import (
	"context"
	"errors"

	"github.com/valter-tonon/digimenu/internal/domain"
)

// Service is the customer-address persistence contract.
// Consumers define this interface, not the MongoDB implementation.
type Service interface {
	ListAddresses(ctx context.Context, customerID string) ([]domain.Address, error)
	CreateAddress(ctx context.Context, customerID string, addr domain.Address) (domain.Address, error)
	UpdateAddress(ctx context.Context, id string, addr domain.Address) (domain.Address, error)
	DeleteAddress(ctx context.Context, id string) error
	SetDefault(ctx context.Context, customerID, id string) error
}

var ErrAddressNotFound = errors.New("address not found")
