package services_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/nestegg-app/nestegg_backend/internal/core/domain"
	"github.com/nestegg-app/nestegg_backend/internal/core/ports/providers"
	portssvc "github.com/nestegg-app/nestegg_backend/internal/core/ports/services"
	"github.com/nestegg-app/nestegg_backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock SecurityRepository ---
type MockSecurityRepository struct {
	mock.Mock
}

func (m *MockSecurityRepository) EarliestSecurityDates(ctx context.Context, userID string) ([]domain.CurrencyNeed, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CurrencyNeed), args.Error(1)
}

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetReportingCurrency(ctx context.Context, userID string, defaultCurrency string) (string, error) {
	args := m.Called(ctx, userID, defaultCurrency)
	return args.String(0), args.Error(1)
}

// --- Test Suite ---
type RateBackfillServiceTestSuite struct {
	suite.Suite
	mockRateRepo     *MockExchangeRateRepository
	mockAccountRepo  *MockAccountRepository
	mockSecurityRepo *MockSecurityRepository
	mockUserRepo     *MockUserRepository
	mockProvider     *MockMarketDataProvider
	service          portssvc.RateBackfillSvc
}

func (suite *RateBackfillServiceTestSuite) SetupTest() {
	suite.mockRateRepo = new(MockExchangeRateRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockSecurityRepo = new(MockSecurityRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockProvider = new(MockMarketDataProvider)
	suite.service = services.NewRateBackfillService(
		suite.mockRateRepo, suite.mockAccountRepo, suite.mockSecurityRepo,
		suite.mockUserRepo, suite.mockProvider, "USD", 1,
	)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (suite *RateBackfillServiceTestSuite) TestBackfillForUser_CleansAndStoresSeries() {
	ctx := context.Background()
	userID := "user-1"
	cutoff := day(2025, time.June, 1)

	suite.mockUserRepo.On("GetReportingCurrency", mock.Anything, userID, "USD").Return("USD", nil).Once()
	suite.mockAccountRepo.On("EarliestAccountDates", mock.Anything, userID, []string(nil)).
		Return([]domain.CurrencyNeed{{CurrencyCode: "CAD", EarliestDate: cutoff}}, nil).Once()
	suite.mockSecurityRepo.On("EarliestSecurityDates", mock.Anything, userID).
		Return([]domain.CurrencyNeed{}, nil).Once()
	suite.mockRateRepo.On("CountRatesForPair", mock.Anything, "CAD", "USD").Return(1, nil).Once()

	nan := math.NaN()
	closes := []float64{0.72, 0.73, 0.735, 0.74}
	suite.mockProvider.On("DailyHistory", mock.Anything, "CAD", "USD", cutoff).Return([]providers.PricePoint{
		{Timestamp: day(2025, time.May, 31), Close: &closes[0]},                       // before cutoff, dropped
		{Timestamp: day(2025, time.June, 1).Add(10 * time.Hour), Close: &closes[1]},   // kept then superseded
		{Timestamp: day(2025, time.June, 1).Add(16 * time.Hour), Close: &closes[2]},   // same day, last wins
		{Timestamp: day(2025, time.June, 2), Close: nil},                              // gap, dropped
		{Timestamp: day(2025, time.June, 3), Close: &nan},                             // non-finite, dropped
		{Timestamp: day(2025, time.June, 4), Close: &closes[3]},
	}, nil).Once()

	suite.mockRateRepo.On("SaveExchangeRates", mock.Anything, mock.MatchedBy(func(rates []domain.ExchangeRate) bool {
		if len(rates) != 2 {
			return false
		}
		first, second := rates[0], rates[1]
		return first.RateDate.Equal(day(2025, time.June, 1)) &&
			first.Rate.Equal(decimal.NewFromFloat(0.735)) &&
			second.RateDate.Equal(day(2025, time.June, 4)) &&
			second.Rate.Equal(decimal.NewFromFloat(0.74)) &&
			first.FromCurrencyCode == "CAD" && first.ToCurrencyCode == "USD"
	})).Return(2, nil).Once()

	summary, err := suite.service.BackfillForUser(ctx, userID, nil)

	suite.Require().NoError(err)
	suite.Equal(1, summary.TotalPairs)
	suite.Equal(1, summary.Successful)
	suite.Equal(0, summary.Failed)
	suite.Equal(2, summary.TotalRatesLoaded)
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *RateBackfillServiceTestSuite) TestBackfillForUser_StoresSortedOrientation() {
	ctx := context.Background()
	userID := "user-1"
	since := day(2025, time.June, 1)

	// CAD-reporting user holding EUR: the fetched quote is EUR->CAD but the
	// stored row must be CAD->EUR, matching the orientation the refresh
	// engine writes, so one pair never holds both directions for a date.
	suite.mockUserRepo.On("GetReportingCurrency", mock.Anything, userID, "USD").Return("CAD", nil).Once()
	suite.mockAccountRepo.On("EarliestAccountDates", mock.Anything, userID, []string(nil)).
		Return([]domain.CurrencyNeed{{CurrencyCode: "EUR", EarliestDate: since}}, nil).Once()
	suite.mockSecurityRepo.On("EarliestSecurityDates", mock.Anything, userID).
		Return([]domain.CurrencyNeed{}, nil).Once()
	suite.mockRateRepo.On("CountRatesForPair", mock.Anything, "EUR", "CAD").Return(0, nil).Once()

	quote := 1.47
	suite.mockProvider.On("DailyHistory", mock.Anything, "EUR", "CAD", since).Return([]providers.PricePoint{
		{Timestamp: since, Close: &quote},
	}, nil).Once()

	suite.mockRateRepo.On("SaveExchangeRates", mock.Anything, mock.MatchedBy(func(rates []domain.ExchangeRate) bool {
		if len(rates) != 1 {
			return false
		}
		expected := decimal.NewFromInt(1).Div(decimal.NewFromFloat(1.47))
		return rates[0].FromCurrencyCode == "CAD" &&
			rates[0].ToCurrencyCode == "EUR" &&
			rates[0].Rate.Equal(expected)
	})).Return(1, nil).Once()

	summary, err := suite.service.BackfillForUser(ctx, userID, nil)

	suite.Require().NoError(err)
	suite.Equal(1, summary.Successful)
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *RateBackfillServiceTestSuite) TestBackfillForUser_AlreadyCovered() {
	ctx := context.Background()
	userID := "user-1"

	suite.mockUserRepo.On("GetReportingCurrency", mock.Anything, userID, "USD").Return("USD", nil).Once()
	suite.mockAccountRepo.On("EarliestAccountDates", mock.Anything, userID, []string(nil)).
		Return([]domain.CurrencyNeed{{CurrencyCode: "EUR", EarliestDate: day(2024, time.January, 1)}}, nil).Once()
	suite.mockSecurityRepo.On("EarliestSecurityDates", mock.Anything, userID).
		Return([]domain.CurrencyNeed{}, nil).Once()
	// Exactly at the coverage threshold counts as covered.
	suite.mockRateRepo.On("CountRatesForPair", mock.Anything, "EUR", "USD").Return(10, nil).Once()

	summary, err := suite.service.BackfillForUser(ctx, userID, nil)

	suite.Require().NoError(err)
	suite.Equal(1, summary.TotalPairs)
	suite.Equal(1, summary.Successful)
	suite.Equal(0, summary.TotalRatesLoaded)
	suite.True(summary.Pairs[0].AlreadyCovered)
	suite.mockProvider.AssertNotCalled(suite.T(), "DailyHistory", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RateBackfillServiceTestSuite) TestBackfillForUser_MergesNeedsKeepingEarlier() {
	ctx := context.Background()
	userID := "user-1"
	accountDate := day(2025, time.June, 1)
	securityDate := day(2025, time.March, 15)

	suite.mockUserRepo.On("GetReportingCurrency", mock.Anything, userID, "USD").Return("USD", nil).Once()
	suite.mockAccountRepo.On("EarliestAccountDates", mock.Anything, userID, []string(nil)).
		Return([]domain.CurrencyNeed{
			{CurrencyCode: "CAD", EarliestDate: accountDate},
			{CurrencyCode: "USD", EarliestDate: day(2020, time.January, 1)}, // reporting currency, skipped
		}, nil).Once()
	suite.mockSecurityRepo.On("EarliestSecurityDates", mock.Anything, userID).
		Return([]domain.CurrencyNeed{{CurrencyCode: "CAD", EarliestDate: securityDate}}, nil).Once()
	suite.mockRateRepo.On("CountRatesForPair", mock.Anything, "CAD", "USD").Return(0, nil).Once()

	rate := 0.73
	suite.mockProvider.On("DailyHistory", mock.Anything, "CAD", "USD", securityDate).Return([]providers.PricePoint{
		{Timestamp: securityDate, Close: &rate},
	}, nil).Once()
	suite.mockRateRepo.On("SaveExchangeRates", mock.Anything, mock.Anything).Return(1, nil).Once()

	summary, err := suite.service.BackfillForUser(ctx, userID, nil)

	suite.Require().NoError(err)
	suite.Equal(1, summary.TotalPairs)
	suite.mockProvider.AssertExpectations(suite.T())
}

func (suite *RateBackfillServiceTestSuite) TestBackfillForUser_NoHistoricalData() {
	ctx := context.Background()
	userID := "user-1"

	suite.mockUserRepo.On("GetReportingCurrency", mock.Anything, userID, "USD").Return("USD", nil).Once()
	suite.mockAccountRepo.On("EarliestAccountDates", mock.Anything, userID, []string(nil)).
		Return([]domain.CurrencyNeed{{CurrencyCode: "XDR", EarliestDate: day(2025, time.January, 1)}}, nil).Once()
	suite.mockSecurityRepo.On("EarliestSecurityDates", mock.Anything, userID).
		Return([]domain.CurrencyNeed{}, nil).Once()
	suite.mockRateRepo.On("CountRatesForPair", mock.Anything, "XDR", "USD").Return(0, nil).Once()
	suite.mockProvider.On("DailyHistory", mock.Anything, "XDR", "USD", mock.Anything).Return([]providers.PricePoint{}, nil).Once()

	summary, err := suite.service.BackfillForUser(ctx, userID, nil)

	suite.Require().NoError(err)
	suite.Equal(1, summary.Failed)
	suite.Equal("No historical data available", summary.Pairs[0].Error)
}

func (suite *RateBackfillServiceTestSuite) TestBackfillForUser_NoForeignCurrencies() {
	ctx := context.Background()
	userID := "user-1"

	suite.mockUserRepo.On("GetReportingCurrency", mock.Anything, userID, "USD").Return("USD", nil).Once()
	suite.mockAccountRepo.On("EarliestAccountDates", mock.Anything, userID, []string(nil)).
		Return([]domain.CurrencyNeed{{CurrencyCode: "USD", EarliestDate: day(2024, time.May, 1)}}, nil).Once()
	suite.mockSecurityRepo.On("EarliestSecurityDates", mock.Anything, userID).
		Return([]domain.CurrencyNeed{}, nil).Once()

	summary, err := suite.service.BackfillForUser(ctx, userID, nil)

	suite.Require().NoError(err)
	suite.Equal(0, summary.TotalPairs)
	suite.mockProvider.AssertNotCalled(suite.T(), "DailyHistory", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RateBackfillServiceTestSuite) TestBackfillAllAtStartup_ListFailureIsSwallowed() {
	ctx := context.Background()
	suite.mockAccountRepo.On("ListUserIDsWithForeignAccounts", mock.Anything, "USD").Return(nil, assert.AnError).Once()

	// Must not panic or call further collaborators.
	suite.service.BackfillAllAtStartup(ctx)

	suite.mockUserRepo.AssertNotCalled(suite.T(), "GetReportingCurrency", mock.Anything, mock.Anything, mock.Anything)
}

func TestRateBackfillServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RateBackfillServiceTestSuite))
}
