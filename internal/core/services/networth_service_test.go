package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/nestegg-app/nestegg_backend/internal/core/domain"
	portssvc "github.com/nestegg-app/nestegg_backend/internal/core/ports/services"
	"github.com/nestegg-app/nestegg_backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) ListTransactionsByUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// --- Test Suite ---
type NetWorthServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockTxnRepo     *MockTransactionRepository
	mockRateRepo    *MockExchangeRateRepository
	mockUserRepo    *MockUserRepository
	service         portssvc.NetWorthSvc
}

func (suite *NetWorthServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockRateRepo = new(MockExchangeRateRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewNetWorthService(
		suite.mockAccountRepo, suite.mockTxnRepo, suite.mockRateRepo, suite.mockUserRepo, "USD",
	)
}

func (suite *NetWorthServiceTestSuite) expectUserData(accounts []domain.Account, txns []domain.Transaction, rates []domain.ExchangeRate) {
	suite.mockUserRepo.On("GetReportingCurrency", mock.Anything, "user-1", "USD").Return("USD", nil).Once()
	suite.mockAccountRepo.On("ListAccountsByUser", mock.Anything, "user-1").Return(accounts, nil).Once()
	suite.mockTxnRepo.On("ListTransactionsByUser", mock.Anything, "user-1").Return(txns, nil).Once()
	suite.mockRateRepo.On("ListRatesForCurrencies", mock.Anything, mock.Anything, mock.Anything).Return(rates, nil).Once()
}

func (suite *NetWorthServiceTestSuite) TestNetWorthSeries_SplitsAssetsAndLiabilities() {
	accounts := []domain.Account{
		{AccountID: "chk", AccountType: domain.AccountTypeChecking, CurrencyCode: "USD", Balance: decimal.NewFromInt(1000)},
		{AccountID: "cc", AccountType: domain.AccountTypeCreditCard, CurrencyCode: "USD", Balance: decimal.NewFromInt(-500)},
	}
	suite.expectUserData(accounts, []domain.Transaction{}, []domain.ExchangeRate{})

	points, err := suite.service.NetWorthSeries(context.Background(), "user-1", 1)

	suite.Require().NoError(err)
	suite.Require().Len(points, 1)
	suite.Equal(domain.MonthOf(time.Now()), points[0].Month)
	suite.True(points[0].Assets.Equal(decimal.NewFromInt(1000)))
	suite.True(points[0].Liabilities.Equal(decimal.NewFromInt(500)))
	suite.True(points[0].NetWorth.Equal(decimal.NewFromInt(500)))
}

func (suite *NetWorthServiceTestSuite) TestNetWorthSeries_ConvertsForeignBalances() {
	accounts := []domain.Account{
		{AccountID: "cad", AccountType: domain.AccountTypeSavings, CurrencyCode: "CAD", Balance: decimal.NewFromInt(1000)},
	}
	rates := []domain.ExchangeRate{
		{
			FromCurrencyCode: "CAD",
			ToCurrencyCode:   "USD",
			Rate:             decimal.NewFromFloat(0.75),
			RateDate:         domain.DateOnly(time.Now().AddDate(0, -6, 0)),
		},
	}
	suite.expectUserData(accounts, []domain.Transaction{}, rates)

	points, err := suite.service.NetWorthSeries(context.Background(), "user-1", 2)

	suite.Require().NoError(err)
	suite.Require().Len(points, 2)
	for _, p := range points {
		suite.True(p.Assets.Equal(decimal.NewFromInt(750)))
		suite.True(p.NetWorth.Equal(decimal.NewFromInt(750)))
	}
}

func (suite *NetWorthServiceTestSuite) TestNetWorthSeries_SkipsUnconvertibleBalances() {
	accounts := []domain.Account{
		{AccountID: "chk", AccountType: domain.AccountTypeChecking, CurrencyCode: "USD", Balance: decimal.NewFromInt(100)},
		{AccountID: "jpy", AccountType: domain.AccountTypeSavings, CurrencyCode: "JPY", Balance: decimal.NewFromInt(50000)},
	}
	suite.expectUserData(accounts, []domain.Transaction{}, []domain.ExchangeRate{})

	points, err := suite.service.NetWorthSeries(context.Background(), "user-1", 1)

	suite.Require().NoError(err)
	suite.Require().Len(points, 1)
	// The yen balance cannot be converted and must not leak in unconverted.
	suite.True(points[0].Assets.Equal(decimal.NewFromInt(100)))
}

func (suite *NetWorthServiceTestSuite) TestNetWorthSeries_RoundsToWholeUnits() {
	accounts := []domain.Account{
		{AccountID: "chk", AccountType: domain.AccountTypeChecking, CurrencyCode: "USD", Balance: decimal.RequireFromString("100.49")},
	}
	suite.expectUserData(accounts, []domain.Transaction{}, []domain.ExchangeRate{})

	points, err := suite.service.NetWorthSeries(context.Background(), "user-1", 1)

	suite.Require().NoError(err)
	suite.True(points[0].Assets.Equal(decimal.NewFromInt(100)))
}

func (suite *NetWorthServiceTestSuite) TestNetWorthSeries_RejectsNonPositiveWindow() {
	_, err := suite.service.NetWorthSeries(context.Background(), "user-1", 0)

	suite.Error(err)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "GetReportingCurrency", mock.Anything, mock.Anything, mock.Anything)
}

func TestNetWorthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(NetWorthServiceTestSuite))
}
