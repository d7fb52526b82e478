package queries

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"freight/internal/core/domain/model/kernel"
)

// ListTrucksQueryHandler reads the trucks table directly.
type ListTrucksQueryHandler struct {
	db *gorm.DB
}

func NewListTrucksQueryHandler(db *gorm.DB) ListTrucksQueryHandler {
	return ListTrucksQueryHandler{db: db}
}

// Handle returns trucks ordered by truck number.
func (h ListTrucksQueryHandler) Handle(ctx context.Context, query ListTrucksQuery) ([]TruckResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sqlText := `
		SELECT
			id,
			truck_number,
			vin,
			make,
			model,
			year,
			license_plate,
			truck_type,
			status,
			last_latitude,
			last_longitude,
			last_location_at
		FROM trucks
		WHERE tenant_id = ? AND active = ?`
	args := []any{query.tenantID.Bytes(), true}
	if query.status != nil {
		sqlText += ` AND status = ?`
		args = append(args, query.status.String())
	}
	sqlText += ` ORDER BY truck_number, id`

	rows, err := h.db.WithContext(ctx).Raw(sqlText, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trucks := make([]TruckResponse, 0)
	for rows.Next() {
		var truck TruckResponse
		var id uuid.UUID
		var vin, maker, model, plate sql.NullString
		var year sql.NullInt64
		var lat, lon sql.NullFloat64
		var seenAt sql.NullTime

		err = rows.Scan(
			&id,
			&truck.TruckNumber,
			&vin,
			&maker,
			&model,
			&year,
			&plate,
			&truck.TruckType,
			&truck.Status,
			&lat,
			&lon,
			&seenAt,
		)
		if err != nil {
			return nil, err
		}

		truckID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		truck.ID = truckID
		truck.VIN, truck.Make, truck.Model, truck.LicensePlate = vin.String, maker.String, model.String, plate.String
		truck.Year = int(year.Int64)
		truck.CurrentLatitude, truck.CurrentLongitude = nullPoint(lat, lon)
		truck.LastLocationUpdate = nullTime(seenAt)
		trucks = append(trucks, truck)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return trucks, nil
}

func nullPoint(lat, lon sql.NullFloat64) (*float64, *float64) {
	if !lat.Valid || !lon.Valid {
		return nil, nil
	}
	return &lat.Float64, &lon.Float64
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	at := t.Time.UTC()
	return &at
}
