package queries

import (
	"context"

	"freight/internal/core/ports"
)

type GetResourceStatusQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetResourceStatusQueryHandler(uowFactory ports.UnitOfWorkFactory) GetResourceStatusQueryHandler {
	return GetResourceStatusQueryHandler{uowFactory: uowFactory}
}

func (h GetResourceStatusQueryHandler) Handle(ctx context.Context, query GetResourceStatusQuery) (ResourceStatusResponse, error) {
	if err := query.Validate(); err != nil {
		return ResourceStatusResponse{}, err
	}

	out := ResourceStatusResponse{Kind: query.kind, ID: query.resourceID}
	uow := h.uowFactory.Create()
	switch query.kind {
	case ports.ResourceTruck:
		truck, err := uow.TruckRepository().Get(ctx, query.tenantID, query.resourceID)
		if err != nil {
			return ResourceStatusResponse{}, err
		}
		out.Status, out.Active = truck.Status().String(), truck.IsActive()
		out.CurrentLatitude, out.CurrentLongitude = latLon(truck.LastPoint())
		out.LastLocationUpdate = truck.LastSeenAt()
	case ports.ResourceDriver:
		driver, err := uow.DriverRepository().Get(ctx, query.tenantID, query.resourceID)
		if err != nil {
			return ResourceStatusResponse{}, err
		}
		out.Status, out.Active = driver.Status().String(), driver.IsActive()
		out.CurrentLatitude, out.CurrentLongitude = latLon(driver.LastPoint())
		out.LastLocationUpdate = driver.LastSeenAt()
	}
	return out, nil
}
