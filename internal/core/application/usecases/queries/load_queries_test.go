package queries_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"freight/internal/adapters/out/postgres/postgrestest"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
	"freight/internal/pkg/errs"
)

type LoadQueriesTestSuite struct {
	dbSuite
}

func (s *LoadQueriesTestSuite) TestGetLoad_ReturnsReadModel() {
	truck := postgrestest.NewTruck(s.T(), s.tenantID, "T-7")
	l := s.newLoad(postgrestest.BaseTime, "1000")
	s.dispatch(l, truck, nil)
	s.seed(truck, l)

	query, err := queries.NewGetLoadQuery(s.tenantID, l.ID())
	s.Require().NoError(err)

	view, err := queries.NewGetLoadQueryHandler(s.factory).Handle(s.T().Context(), query)

	s.Require().NoError(err)
	s.Equal(l.ID(), view.ID)
	s.Equal(l.Number(), view.LoadNumber)
	s.Equal("DISPATCHED", view.Status)
	s.Equal("1150.00", view.Charges.Total.String())
	s.Equal("USD", view.Charges.Currency)
	s.Require().NotNil(view.TruckID)
	s.Equal(truck.ID(), *view.TruckID)
	s.Equal("Chicago", view.Pickup.City)
	s.Equal("Dallas", view.Delivery.City)
	s.NotNil(view.DispatchedAt)
	s.True(view.Active)
}

func (s *LoadQueriesTestSuite) TestGetLoad_OtherTenantIsNotFound() {
	l := s.newLoad(postgrestest.BaseTime, "1000")
	s.seed(l)

	query, err := queries.NewGetLoadQuery(kernel.NewUUID(), l.ID())
	s.Require().NoError(err)

	_, err = queries.NewGetLoadQueryHandler(s.factory).Handle(s.T().Context(), query)

	s.ErrorIs(err, errs.ErrObjectNotFound)
}

func (s *LoadQueriesTestSuite) TestGetLoad_DeletedLoadStaysAddressable() {
	l := s.newLoad(postgrestest.BaseTime, "1000")
	l.Deactivate(postgrestest.BaseTime)
	s.seed(l)

	query, err := queries.NewGetLoadQuery(s.tenantID, l.ID())
	s.Require().NoError(err)

	view, err := queries.NewGetLoadQueryHandler(s.factory).Handle(s.T().Context(), query)

	s.Require().NoError(err)
	s.False(view.Active)
}

func (s *LoadQueriesTestSuite) TestListLoads_FiltersAndExcludesDeleted() {
	truck := postgrestest.NewTruck(s.T(), s.tenantID, "T-1")
	dispatched := s.newLoad(postgrestest.BaseTime, "1000")
	s.dispatch(dispatched, truck, nil)
	created := s.newLoad(postgrestest.BaseTime, "500")
	deleted := s.newLoad(postgrestest.BaseTime, "700")
	deleted.Deactivate(postgrestest.BaseTime)
	s.seed(truck, dispatched, created, deleted)

	handler := queries.NewListLoadsQueryHandler(s.factory)
	testCases := []struct {
		name   string
		params queries.LoadListParams
		want   []kernel.UUID
	}{
		{"no filter", queries.LoadListParams{}, []kernel.UUID{dispatched.ID(), created.ID()}},
		{"by status", queries.LoadListParams{Status: "dispatched"}, []kernel.UUID{dispatched.ID()}},
		{"by truck", queries.LoadListParams{TruckID: ptr(truck.ID())}, []kernel.UUID{dispatched.ID()}},
		{"limit", queries.LoadListParams{Limit: 1}, nil},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			query, err := queries.NewListLoadsQuery(s.tenantID, tc.params)
			s.Require().NoError(err)

			views, err := handler.Handle(s.T().Context(), query)
			s.Require().NoError(err)

			if tc.want == nil {
				s.Len(views, 1)
				return
			}
			got := make([]kernel.UUID, 0, len(views))
			for _, v := range views {
				got = append(got, v.ID)
			}
			s.ElementsMatch(tc.want, got)
		})
	}
}

func (s *LoadQueriesTestSuite) TestGetLoadHistory_ReturnsEventsOldestFirst() {
	l := s.newLoad(postgrestest.BaseTime, "1000")
	created := load.NewEvent(load.EventCreated, l, load.StatusUnknown, postgrestest.BaseTime)
	_, _, err := l.ChangeStatus(load.Quoted, "", postgrestest.BaseTime.Add(time.Hour))
	s.Require().NoError(err)
	quoted := load.NewEvent(load.EventStatusChanged, l, load.Created, postgrestest.BaseTime.Add(time.Hour))
	s.seed(l, quoted, created)

	query, err := queries.NewGetLoadHistoryQuery(s.tenantID, l.ID())
	s.Require().NoError(err)

	events, err := queries.NewGetLoadHistoryQueryHandler(s.factory).Handle(s.T().Context(), query)

	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(load.EventCreated, events[0].Type)
	s.Equal(load.EventStatusChanged, events[1].Type)
	s.Equal(load.Created, events[1].From)
	s.Equal(load.Quoted, events[1].To)
}

func (s *LoadQueriesTestSuite) TestGetLoadHistory_UnknownLoadIsNotFound() {
	query, err := queries.NewGetLoadHistoryQuery(s.tenantID, kernel.NewUUID())
	s.Require().NoError(err)

	events, err := queries.NewGetLoadHistoryQueryHandler(s.factory).Handle(s.T().Context(), query)

	s.ErrorIs(err, errs.ErrObjectNotFound)
	s.Nil(events)
}

func (s *LoadQueriesTestSuite) TestGetLoadHistory_NoEventsYet() {
	l := s.newLoad(postgrestest.BaseTime, "1000")
	s.seed(l)

	query, err := queries.NewGetLoadHistoryQuery(s.tenantID, l.ID())
	s.Require().NoError(err)

	events, err := queries.NewGetLoadHistoryQueryHandler(s.factory).Handle(s.T().Context(), query)

	s.Require().NoError(err)
	s.NotNil(events)
	s.Empty(events)
}

func TestLoadQueriesTestSuite(t *testing.T) {
	suite.Run(t, new(LoadQueriesTestSuite))
}

func ptr[T any](v T) *T {
	return &v
}
