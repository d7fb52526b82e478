package commands_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
	"freight/internal/core/domain/model/rate"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

var handlerNow = time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)

func loadDetails(t *testing.T, customerID *kernel.UUID) load.Details {
	t.Helper()
	pickup, err := load.NewStop("pickup", load.Location{City: "Reno", State: "NV"}, handlerNow.Add(24*time.Hour))
	require.NoError(t, err)
	delivery, err := load.NewStop("delivery", load.Location{City: "Boise", State: "ID"}, handlerNow.Add(48*time.Hour))
	require.NoError(t, err)
	base := kernel.MustMoney("2000")
	charges, err := rate.NewCharges(&base, nil, nil, "")
	require.NoError(t, err)
	return load.Details{CustomerID: customerID, Charges: charges, Pickup: pickup, Delivery: delivery}
}

func TestCreateLoadCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	tenantID := kernel.NewUUID()
	cmd, err := commands.NewCreateLoadCommand(tenantID, loadDetails(t, nil))
	require.NoError(t, err)

	loadRepo := new(MockLoadRepository)
	customerRepo := new(MockCustomerRepository)
	uow := new(MockLoadUoW)
	factory := new(MockLoadUoWFactory)
	publisher := new(MockLoadEventPublisher)

	factory.On("Create").Return(uow).Once()
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("CustomerRepository").Return(customerRepo).Once(),
		uow.On("LoadRepository").Return(loadRepo).Once(),
		loadRepo.On("Add", ctx, mock.AnythingOfType("*load.Load")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	publisher.On("Publish", ctx, mock.MatchedBy(func(events []load.Event) bool {
		return len(events) == 1 && events[0].Type == load.EventCreated && events[0].To == load.Created
	})).Return(nil).Once()

	handler := commands.NewCreateLoadCommandHandler(factory, ports.FixedClock(handlerNow), publisher, nil)
	l, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, load.Created, l.Status())
	assert.True(t, l.BelongsTo(tenantID))
	assert.Equal(t, "2000.00", l.Charges().Total().String())
	assert.True(t, handlerNow.Equal(l.CreatedAt()))
	customerRepo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	uow.AssertExpectations(t)
	loadRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestCreateLoadCommandHandler_Handle_UnknownCustomer(t *testing.T) {
	ctx := t.Context()
	tenantID := kernel.NewUUID()
	customerID := kernel.NewUUID()
	cmd, err := commands.NewCreateLoadCommand(tenantID, loadDetails(t, &customerID))
	require.NoError(t, err)

	customerRepo := new(MockCustomerRepository)
	uow := new(MockLoadUoW)
	factory := new(MockLoadUoWFactory)
	publisher := new(MockLoadEventPublisher)

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("CustomerRepository").Return(customerRepo).Once()
	customerRepo.On("Get", ctx, tenantID, customerID).
		Return(nil, errs.NewObjectNotFoundError("customer", customerID)).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewCreateLoadCommandHandler(factory, ports.FixedClock(handlerNow), publisher, nil)
	l, err := handler.Handle(ctx, cmd)

	assert.Nil(t, l)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	uow.AssertExpectations(t)
}

func TestCreateLoadCommandHandler_Handle_PublishFailureIsNotReturned(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateLoadCommand(kernel.NewUUID(), loadDetails(t, nil))
	require.NoError(t, err)

	loadRepo := new(MockLoadRepository)
	uow := new(MockLoadUoW)
	factory := new(MockLoadUoWFactory)
	publisher := new(MockLoadEventPublisher)

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil)
	uow.On("CustomerRepository").Return(new(MockCustomerRepository))
	uow.On("LoadRepository").Return(loadRepo)
	loadRepo.On("Add", ctx, mock.Anything).Return(nil)
	uow.On("Commit", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)
	publisher.On("Publish", ctx, mock.Anything).Return(errors.New("broker down")).Once()

	handler := commands.NewCreateLoadCommandHandler(factory, ports.FixedClock(handlerNow), publisher, nil)
	l, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.NotNil(t, l)
	publisher.AssertExpectations(t)
}

func TestCreateLoadCommandHandler_Handle_CommitFailure(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateLoadCommand(kernel.NewUUID(), loadDetails(t, nil))
	require.NoError(t, err)

	loadRepo := new(MockLoadRepository)
	uow := new(MockLoadUoW)
	factory := new(MockLoadUoWFactory)
	publisher := new(MockLoadEventPublisher)
	commitErr := errors.New("connection reset")

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil)
	uow.On("CustomerRepository").Return(new(MockCustomerRepository))
	uow.On("LoadRepository").Return(loadRepo)
	loadRepo.On("Add", ctx, mock.Anything).Return(nil)
	uow.On("Commit", ctx).Return(commitErr)
	uow.On("Rollback", ctx).Return(nil)

	handler := commands.NewCreateLoadCommandHandler(factory, ports.FixedClock(handlerNow), publisher, nil)
	_, err = handler.Handle(ctx, cmd)

	assert.ErrorIs(t, err, commitErr)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestCreateLoadCommandHandler_Handle_InvalidCommand(t *testing.T) {
	handler := commands.NewCreateLoadCommandHandler(new(MockLoadUoWFactory), ports.SystemClock{}, nil, nil)

	_, err := handler.Handle(t.Context(), commands.CreateLoadCommand{})

	assert.ErrorIs(t, err, commands.ErrCreateLoadCommandIsNotConstructed)
}
