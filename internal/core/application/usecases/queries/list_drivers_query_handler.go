package queries

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"freight/internal/core/domain/model/kernel"
)

type ListDriversQueryHandler struct {
	db *gorm.DB
}

func NewListDriversQueryHandler(db *gorm.DB) ListDriversQueryHandler {
	return ListDriversQueryHandler{db: db}
}

// Handle returns drivers ordered by last name, then first name.
func (h ListDriversQueryHandler) Handle(ctx context.Context, query ListDriversQuery) ([]DriverResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sqlText := `
		SELECT
			id,
			first_name,
			last_name,
			license_number,
			phone,
			email,
			status,
			last_latitude,
			last_longitude,
			last_location_at
		FROM drivers
		WHERE tenant_id = ? AND active = ?`
	args := []any{query.tenantID.Bytes(), true}
	if query.status != nil {
		sqlText += ` AND status = ?`
		args = append(args, query.status.String())
	}
	sqlText += ` ORDER BY last_name, first_name, id`

	rows, err := h.db.WithContext(ctx).Raw(sqlText, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	drivers := make([]DriverResponse, 0)
	for rows.Next() {
		var driver DriverResponse
		var id uuid.UUID
		var license, phone, email sql.NullString
		var lat, lon sql.NullFloat64
		var seenAt sql.NullTime

		err = rows.Scan(
			&id,
			&driver.FirstName,
			&driver.LastName,
			&license,
			&phone,
			&email,
			&driver.Status,
			&lat,
			&lon,
			&seenAt,
		)
		if err != nil {
			return nil, err
		}

		driverID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		driver.ID = driverID
		driver.LicenseNumber, driver.Phone, driver.Email = license.String, phone.String, email.String
		driver.CurrentLatitude, driver.CurrentLongitude = nullPoint(lat, lon)
		driver.LastLocationUpdate = nullTime(seenAt)
		drivers = append(drivers, driver)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return drivers, nil
}
