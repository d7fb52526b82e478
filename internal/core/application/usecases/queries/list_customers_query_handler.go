package queries

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"freight/internal/core/domain/model/kernel"
)

type ListCustomersQueryHandler struct {
	db *gorm.DB
}

func NewListCustomersQueryHandler(db *gorm.DB) ListCustomersQueryHandler {
	return ListCustomersQueryHandler{db: db}
}

func (h ListCustomersQueryHandler) Handle(ctx context.Context, query ListCustomersQuery) ([]CustomerResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			company_name,
			contact_person,
			email,
			phone,
			tracking_portal_enabled
		FROM customers
		WHERE tenant_id = ? AND active = ?
		ORDER BY company_name, id
	`, query.tenantID.Bytes(), true).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]CustomerResponse, 0)
	for rows.Next() {
		var c CustomerResponse
		var id uuid.UUID
		var person, email, phone sql.NullString

		if err = rows.Scan(&id, &c.CompanyName, &person, &email, &phone, &c.TrackingPortalEnabled); err != nil {
			return nil, err
		}

		customerID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		c.ID = customerID
		c.ContactPerson, c.Email, c.Phone = person.String, email.String, phone.String
		customers = append(customers, c)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return customers, nil
}
