package ports

import (
	"context"

	"freight/internal/core/domain/model/customer"
	"freight/internal/core/domain/model/kernel"
)

// CustomerRepository persists shippers.
type CustomerRepository interface {
	Add(ctx context.Context, c *customer.Customer) error
	Get(ctx context.Context, tenantID, id kernel.UUID) (*customer.Customer, error)
	List(ctx context.Context, tenantID kernel.UUID) ([]*customer.Customer, error)
}
