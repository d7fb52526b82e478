package ports

import (
	"context"
)

// UnitOfWorkFactory hands each command or query its own transaction scope.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork spans one load, truck, driver, customer and history write set.
// Repositories obtained after Begin read and write inside its transaction;
// before Begin they use the connection pool.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	// Commit fails when no transaction is open.
	Commit(ctx context.Context) error
	// Rollback after Commit only reports that no transaction is open.
	Rollback(ctx context.Context) error

	LoadRepository() LoadRepository
	TruckRepository() TruckRepository
	DriverRepository() DriverRepository
	CustomerRepository() CustomerRepository
	LoadHistoryRepository() LoadHistoryRepository
}
