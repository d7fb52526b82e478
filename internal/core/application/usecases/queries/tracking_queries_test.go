package queries_test

import (
	"bytes"
	"errors"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"freight/internal/adapters/out/postgres/postgrestest"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/load"
	"freight/internal/core/domain/services"
	"freight/internal/pkg/errs"
)

type TrackingQueriesTestSuite struct {
	dbSuite
	load *load.Load
}

func (s *TrackingQueriesTestSuite) SetupTest() {
	s.dbSuite.SetupTest()

	shipper := postgrestest.NewCustomer(s.T(), s.tenantID, "Acme Steel", "Ship@Acme.test")
	truck := postgrestest.NewTruck(s.T(), s.tenantID, "T-42")
	driver := postgrestest.NewDriver(s.T(), s.tenantID, "Ann", "Lee")
	s.load = s.newLoadFor(shipper, postgrestest.BaseTime, "1000")
	s.dispatch(s.load, truck, driver)
	s.Require().NoError(truck.UpdateLocation(mustPoint(s.T(), 39.1, -94.6), postgrestest.BaseTime.Add(2*time.Hour)))
	s.seed(shipper, truck, driver, s.load)
}

func (s *TrackingQueriesTestSuite) TestTrackLoad_ResolvesEveryCodeForm() {
	handler := queries.NewTrackLoadQueryHandler(s.factory, nil, 0, nil)

	for _, code := range []string{s.load.TrackingToken(), s.load.Number(), s.load.ID().String()} {
		query, err := queries.NewTrackLoadQuery(code)
		s.Require().NoError(err)

		projection, err := handler.Handle(s.T().Context(), query)

		s.Require().NoError(err, code)
		s.Equal(s.load.Number(), projection.LoadNumber)
		s.Equal("DISPATCHED", projection.Status)
		s.Equal(25, projection.Progress)
		s.Equal("Acme Steel", projection.CustomerName)
		s.Require().NotNil(projection.Truck)
		s.Equal("T-42", projection.Truck.TruckNumber)
		s.Require().NotNil(projection.Driver)
		s.Equal("Ann Lee", projection.Driver.Name)
	}
}

func (s *TrackingQueriesTestSuite) TestTrackLoad_UnknownCodeIsNotFound() {
	query, err := queries.NewTrackLoadQuery("LD-NOPE")
	s.Require().NoError(err)

	_, err = queries.NewTrackLoadQueryHandler(s.factory, nil, 0, nil).Handle(s.T().Context(), query)

	s.ErrorIs(err, errs.ErrObjectNotFound)
}

func (s *TrackingQueriesTestSuite) TestTrackLoad_CachesProjection() {
	cache := &MockCache{}
	key := queries.TrackingCacheKey(s.load.ID())
	cache.On("GetJSON", mock.Anything, key, mock.Anything).Return(false, nil).Once()
	cache.On("SetJSON", mock.Anything, key, mock.AnythingOfType("services.TrackingProjection"), 10*time.Second).
		Return(nil).Once()

	query, err := queries.NewTrackLoadQuery(s.load.TrackingToken())
	s.Require().NoError(err)

	_, err = queries.NewTrackLoadQueryHandler(s.factory, cache, 10*time.Second, nil).Handle(s.T().Context(), query)

	s.Require().NoError(err)
	cache.AssertExpectations(s.T())
}

func (s *TrackingQueriesTestSuite) TestTrackLoad_ServesCacheHit() {
	cache := &MockCache{}
	cache.On("GetJSON", mock.Anything, queries.TrackingCacheKey(s.load.ID()), mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.Get(2).(*services.TrackingProjection)
			dest.LoadNumber = "FROM-CACHE"
		}).
		Return(true, nil).Once()

	query, err := queries.NewTrackLoadQuery(s.load.Number())
	s.Require().NoError(err)

	projection, err := queries.NewTrackLoadQueryHandler(s.factory, cache, 0, nil).Handle(s.T().Context(), query)

	s.Require().NoError(err)
	s.Equal("FROM-CACHE", projection.LoadNumber)
	cache.AssertNotCalled(s.T(), "SetJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *TrackingQueriesTestSuite) TestTrackLoad_CacheFailureFallsBackToDatabase() {
	cache := &MockCache{}
	cache.On("GetJSON", mock.Anything, mock.Anything, mock.Anything).Return(false, errors.New("redis down"))
	cache.On("SetJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))

	query, err := queries.NewTrackLoadQuery(s.load.Number())
	s.Require().NoError(err)

	projection, err := queries.NewTrackLoadQueryHandler(s.factory, cache, 0, nil).Handle(s.T().Context(), query)

	s.Require().NoError(err)
	s.Equal(s.load.Number(), projection.LoadNumber)
}

func (s *TrackingQueriesTestSuite) TestLoadETA_UsesTruckPosition() {
	query, err := queries.NewTrackLoadQuery(s.load.TrackingToken())
	s.Require().NoError(err)

	eta, err := queries.NewLoadETAQueryHandler(s.factory).Handle(s.T().Context(), query)

	s.Require().NoError(err)
	s.Equal(s.load.Number(), eta.LoadNumber)
	s.Require().NotNil(eta.CurrentLat)
	s.InDelta(39.1, *eta.CurrentLat, 1e-9)
	s.Require().NotNil(eta.LastUpdate)
	s.True(postgrestest.BaseTime.Add(2 * time.Hour).Equal(*eta.LastUpdate))
}

func (s *TrackingQueriesTestSuite) TestVerifyTracking() {
	handler := queries.NewVerifyTrackingQueryHandler(s.factory)

	testCases := []struct {
		name     string
		code     string
		email    string
		verified bool
	}{
		{"matching email ignores case and spaces", s.load.TrackingToken(), "  ship@acme.TEST ", true},
		{"wrong email", s.load.TrackingToken(), "someone@else.test", false},
		{"unknown code", "LD-UNKNOWN", "ship@acme.test", false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			query, err := queries.NewVerifyTrackingQuery(tc.code, tc.email)
			s.Require().NoError(err)

			result, err := handler.Handle(s.T().Context(), query)

			s.Require().NoError(err)
			s.Equal(tc.verified, result.Verified)
			if tc.verified {
				s.Equal(s.load.Number(), result.LoadNumber)
				return
			}
			s.Empty(result.LoadNumber)
			s.Equal(services.VerificationFailedMessage, result.Message)
			s.NotContains(result.Message, tc.email)
		})
	}
}

func (s *TrackingQueriesTestSuite) TestTrackingQR_EncodesTrackingURL() {
	handler := queries.NewTrackingQRQueryHandler(s.factory, "https://track.example.test/")
	s.Equal("https://track.example.test/track/"+s.load.TrackingToken(), handler.TrackingURL(s.load))

	query, err := queries.NewTrackingQRQuery(s.load.Number(), 0)
	s.Require().NoError(err)

	image, err := handler.Handle(s.T().Context(), query)

	s.Require().NoError(err)
	decoded, err := png.Decode(bytes.NewReader(image))
	s.Require().NoError(err)
	s.Equal(queries.DefaultQRSize, decoded.Bounds().Dx())
}

func TestTrackingQueriesTestSuite(t *testing.T) {
	suite.Run(t, new(TrackingQueriesTestSuite))
}
