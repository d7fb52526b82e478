package historyrepo_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight/internal/adapters/out/postgres/historyrepo"
	"freight/internal/adapters/out/postgres/postgrestest"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
)

func TestGormHistoryRepository(t *testing.T) {
	ctx := t.Context()
	repo := historyrepo.NewGormHistoryRepository(postgrestest.NewSQLite(t))
	tenantID := kernel.NewUUID()
	l := postgrestest.NewLoad(t, tenantID, postgrestest.Details(t, postgrestest.BaseTime, "1000"))

	created := load.NewEvent(load.EventCreated, l, load.StatusUnknown, postgrestest.BaseTime)

	truckID := kernel.NewUUID()
	_, err := l.Dispatch(&truckID, nil, postgrestest.BaseTime.Add(time.Hour))
	require.NoError(t, err)
	dispatched := load.NewEvent(load.EventDispatched, l, load.Created, postgrestest.BaseTime.Add(time.Hour))

	require.NoError(t, repo.Append(ctx, dispatched))
	require.NoError(t, repo.Append(ctx, created))

	t.Run("appending the same event twice keeps one row", func(t *testing.T) {
		require.NoError(t, repo.Append(ctx, dispatched))
	})

	events, err := repo.List(ctx, tenantID, l.ID())
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, created.ID, events[0].ID)
	assert.Equal(t, load.StatusUnknown, events[0].From)
	assert.Equal(t, load.Created, events[0].To)

	assert.Equal(t, load.EventDispatched, events[1].Type)
	assert.Equal(t, load.Created, events[1].From)
	assert.Equal(t, load.Dispatched, events[1].To)
	require.NotNil(t, events[1].TruckID)
	assert.True(t, truckID.IsEqual(*events[1].TruckID))
	assert.Nil(t, events[1].DriverID)
	assert.Equal(t, l.Number(), events[1].LoadNumber)

	other, err := repo.List(ctx, kernel.NewUUID(), l.ID())
	require.NoError(t, err)
	assert.Empty(t, other)
}
