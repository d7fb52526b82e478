package dbutil

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DialectPostgres is the GORM dialector name of the PostgreSQL driver.
const DialectPostgres = "postgres"

// IsPostgres reports whether db talks to PostgreSQL.
func IsPostgres(db *gorm.DB) bool {
	return db.Dialector != nil && db.Dialector.Name() == DialectPostgres
}

// ForUpdate adds SELECT ... FOR UPDATE on PostgreSQL. Other dialects get the
// query unchanged; SQLite serializes writers on its own.
func ForUpdate(db *gorm.DB) *gorm.DB {
	if !IsPostgres(db) {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
