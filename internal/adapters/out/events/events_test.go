package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"freight/internal/adapters/out/events"
	"freight/internal/adapters/out/postgres"
	"freight/internal/adapters/out/postgres/historyrepo"
	"freight/internal/adapters/out/postgres/postgrestest"
	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
)

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, events ...load.Event) error {
	return m.Called(ctx, events).Error(0)
}

type MockCache struct{ mock.Mock }

func (m *MockCache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCache) Del(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func newEvent(tenantID, loadID kernel.UUID) load.Event {
	return load.Event{
		ID:         kernel.NewUUID(),
		Type:       load.EventStatusChanged,
		TenantID:   tenantID,
		LoadID:     loadID,
		To:         load.InTransit,
		OccurredAt: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC),
	}
}

func TestFanout_DeliversToEverySink(t *testing.T) {
	failing, healthy := new(MockPublisher), new(MockPublisher)
	boom := errors.New("broker unreachable")
	e := newEvent(kernel.NewUUID(), kernel.NewUUID())

	failing.On("Publish", mock.Anything, []load.Event{e}).Return(boom).Once()
	healthy.On("Publish", mock.Anything, []load.Event{e}).Return(nil).Once()

	fan := events.NewFanout(nil,
		events.Sink{Name: "mqtt", Publisher: failing},
		events.Sink{Name: "skipped"},
		events.Sink{Name: "queue", Publisher: healthy},
	)
	assert.Equal(t, []string{"mqtt", "queue"}, fan.Names())

	err := fan.Publish(t.Context(), e)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "mqtt")

	failing.AssertExpectations(t)
	healthy.AssertExpectations(t)
}

func TestFanout_NoEvents(t *testing.T) {
	sink := new(MockPublisher)
	assert.NoError(t, events.NewFanout(nil, events.Sink{Name: "s", Publisher: sink}).Publish(t.Context()))
	sink.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestCacheInvalidator_DropsTrackingAndSummary(t *testing.T) {
	cache := new(MockCache)
	tenant, first, second := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()

	cache.On("Del", mock.Anything, []string{
		queries.TrackingCacheKey(first),
		queries.SummaryCacheKey(tenant),
		queries.TrackingCacheKey(second),
	}).Return(nil).Once()

	inv := events.NewCacheInvalidator(cache)
	require.NoError(t, inv.Publish(t.Context(), newEvent(tenant, first), newEvent(tenant, first), newEvent(tenant, second)))
	require.NoError(t, inv.Publish(t.Context()))

	cache.AssertExpectations(t)
}

func TestHistoryRecorder_AppendsOncePerEvent(t *testing.T) {
	db := postgrestest.NewSQLite(t)
	_, _, _, history := commands.FactoriesFrom(postgres.NewGormUnitOfWorkFactory(db))
	recorder := events.NewHistoryRecorder(commands.NewRecordLoadEventCommandHandler(history))
	tenant, loadID := kernel.NewUUID(), kernel.NewUUID()
	e := newEvent(tenant, loadID)

	require.NoError(t, recorder.Publish(t.Context(), e, e))
	assert.Error(t, recorder.Publish(t.Context(), load.Event{Type: load.EventCreated}))

	got, err := historyrepo.NewGormHistoryRepository(db).List(t.Context(), tenant, loadID)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
