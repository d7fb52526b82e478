package postgres

import (
	"gorm.io/gorm"

	"freight/internal/adapters/out/postgres/customerrepo"
	"freight/internal/adapters/out/postgres/fleetrepo"
	"freight/internal/adapters/out/postgres/historyrepo"
	"freight/internal/adapters/out/postgres/loadrepo"
)

// Models lists every table owned by the service.
func Models() []any {
	return []any{
		&customerrepo.CustomerDTO{},
		&fleetrepo.TruckDTO{},
		&fleetrepo.DriverDTO{},
		&loadrepo.LoadDTO{},
		&historyrepo.LoadEventDTO{},
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
