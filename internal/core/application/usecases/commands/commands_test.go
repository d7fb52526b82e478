package commands_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/fleet"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

func TestCommandConstructors_RejectMissingIdentity(t *testing.T) {
	id := kernel.NewUUID()
	point, err := kernel.NewGeoPoint(39.5, -119.8)
	require.NoError(t, err)

	tests := []struct {
		name string
		err  func() error
	}{
		{"create load", func() error {
			_, err := commands.NewCreateLoadCommand(kernel.UUID{}, load.Details{})
			return err
		}},
		{"update load", func() error {
			_, err := commands.NewUpdateLoadCommand(id, kernel.UUID{}, load.Details{})
			return err
		}},
		{"dispatch load", func() error {
			_, err := commands.NewDispatchLoadCommand(kernel.UUID{}, id, nil, nil)
			return err
		}},
		{"dispatch with zero truck id", func() error {
			_, err := commands.NewDispatchLoadCommand(id, id, &kernel.UUID{}, nil)
			return err
		}},
		{"delete load", func() error {
			_, err := commands.NewDeleteLoadCommand(id, kernel.UUID{})
			return err
		}},
		{"update load location without time", func() error {
			_, err := commands.NewUpdateLoadLocationCommand(id, id, point, time.Time{}, nil)
			return err
		}},
		{"update load location without point", func() error {
			_, err := commands.NewUpdateLoadLocationCommand(id, id, kernel.GeoPoint{}, time.Now(), nil)
			return err
		}},
		{"create driver", func() error {
			_, err := commands.NewCreateDriverCommand(kernel.UUID{}, fleet.DriverContact{})
			return err
		}},
		{"resource location with unknown kind", func() error {
			_, err := commands.NewUpdateResourceLocationCommand(id, ports.ResourceKind("trailer"), id, point, time.Now())
			return err
		}},
		{"record event without type", func() error {
			_, err := commands.NewRecordLoadEventCommand(load.Event{ID: id, TenantID: id, LoadID: id, OccurredAt: time.Now()})
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.err())
		})
	}
}

func TestNewUpdateLoadStatusCommand(t *testing.T) {
	tenantID, loadID := kernel.NewUUID(), kernel.NewUUID()

	t.Run("parses the status name", func(t *testing.T) {
		cmd, err := commands.NewUpdateLoadStatusCommand(tenantID, loadID, "in_transit", "  ")
		require.NoError(t, err)
		assert.Equal(t, load.InTransit, cmd.Status())
		assert.Empty(t, cmd.Reason())
		assert.NoError(t, cmd.Validate())
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := commands.NewUpdateLoadStatusCommand(tenantID, loadID, "LOST", "")
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		assert.ErrorIs(t, commands.UpdateLoadStatusCommand{}.Validate(), commands.ErrUpdateLoadStatusCommandIsNotConstructed)
	})
}

func TestNewCreateTruckCommand(t *testing.T) {
	tenantID := kernel.NewUUID()

	cmd, err := commands.NewCreateTruckCommand(tenantID, " T-12 ", "", fleet.TruckSpec{})
	require.NoError(t, err)
	assert.Equal(t, "T-12", cmd.Number())
	assert.Equal(t, fleet.DryVan, cmd.Type())

	cmd, err = commands.NewCreateTruckCommand(tenantID, "T-13", "reefer", fleet.TruckSpec{})
	require.NoError(t, err)
	assert.Equal(t, fleet.Reefer, cmd.Type())

	_, err = commands.NewCreateTruckCommand(tenantID, "T-14", "hovercraft", fleet.TruckSpec{})
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestNewSetResourceStatusCommands(t *testing.T) {
	tenantID, id := kernel.NewUUID(), kernel.NewUUID()

	truckCmd, err := commands.NewSetTruckStatusCommand(tenantID, id, "maintenance")
	require.NoError(t, err)
	assert.Equal(t, ports.ResourceTruck, truckCmd.Kind())
	assert.Equal(t, fleet.TruckMaintenance, truckCmd.TruckStatus())

	driverCmd, err := commands.NewSetDriverStatusCommand(tenantID, id, "OFF_DUTY")
	require.NoError(t, err)
	assert.Equal(t, ports.ResourceDriver, driverCmd.Kind())
	assert.Equal(t, fleet.DriverOffDuty, driverCmd.DriverStatus())

	_, err = commands.NewSetDriverStatusCommand(tenantID, id, "MAINTENANCE")
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestNewDispatchLoadCommand_CopiesIDs(t *testing.T) {
	truckID := kernel.NewUUID()
	cmd, err := commands.NewDispatchLoadCommand(kernel.NewUUID(), kernel.NewUUID(), &truckID, nil)
	require.NoError(t, err)

	truckID = kernel.NewUUID()
	require.NotNil(t, cmd.TruckID())
	assert.False(t, cmd.TruckID().IsEqual(truckID))
	assert.Nil(t, cmd.DriverID())
}
