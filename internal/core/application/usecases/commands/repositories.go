// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, locking, transaction
// management, persistence, and event publication after commit.
package commands

import (
	"context"

	"freight/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler asks for the narrowest set of repositories it writes.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	LoadRepoFactory interface {
		LoadRepository() ports.LoadRepository
	}

	TruckRepoFactory interface {
		TruckRepository() ports.TruckRepository
	}

	DriverRepoFactory interface {
		DriverRepository() ports.DriverRepository
	}

	CustomerRepoFactory interface {
		CustomerRepository() ports.CustomerRepository
	}

	HistoryRepoFactory interface {
		LoadHistoryRepository() ports.LoadHistoryRepository
	}

	// LoadUoW spans a load and the registry records its lifecycle touches.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   l, err := uow.LoadRepository().GetForUpdate(ctx, tenantID, loadID)
	//   truck, err := uow.TruckRepository().GetForUpdate(ctx, tenantID, truckID)
	//   // ... mutate and update both
	//
	//   err = uow.Commit(ctx)
	LoadUoW interface {
		TxManager
		LoadRepoFactory
		TruckRepoFactory
		DriverRepoFactory
		CustomerRepoFactory
	}

	LoadUoWFactory interface {
		Create() LoadUoW
	}

	// RegistryUoW manages transactions for truck and driver records only.
	RegistryUoW interface {
		TxManager
		TruckRepoFactory
		DriverRepoFactory
	}

	RegistryUoWFactory interface {
		Create() RegistryUoW
	}

	CustomerUoW interface {
		TxManager
		CustomerRepoFactory
	}

	CustomerUoWFactory interface {
		Create() CustomerUoW
	}

	HistoryUoW interface {
		TxManager
		HistoryRepoFactory
	}

	HistoryUoWFactory interface {
		Create() HistoryUoW
	}
)

// Factory funcs let one ports.UnitOfWorkFactory serve every handler.
type (
	LoadUoWFactoryFunc     func() LoadUoW
	RegistryUoWFactoryFunc func() RegistryUoW
	CustomerUoWFactoryFunc func() CustomerUoW
	HistoryUoWFactoryFunc  func() HistoryUoW
)

func (f LoadUoWFactoryFunc) Create() LoadUoW         { return f() }
func (f RegistryUoWFactoryFunc) Create() RegistryUoW { return f() }
func (f CustomerUoWFactoryFunc) Create() CustomerUoW { return f() }
func (f HistoryUoWFactoryFunc) Create() HistoryUoW   { return f() }

// FactoriesFrom adapts f to the narrow factories.
func FactoriesFrom(f ports.UnitOfWorkFactory) (LoadUoWFactory, RegistryUoWFactory, CustomerUoWFactory, HistoryUoWFactory) {
	return LoadUoWFactoryFunc(func() LoadUoW { return f.Create() }),
		RegistryUoWFactoryFunc(func() RegistryUoW { return f.Create() }),
		CustomerUoWFactoryFunc(func() CustomerUoW { return f.Create() }),
		HistoryUoWFactoryFunc(func() HistoryUoW { return f.Create() })
}
