package services_test

import (
	"context"
	"testing"

	"github.com/nestegg-app/nestegg_backend/internal/apperrors"
	"github.com/nestegg-app/nestegg_backend/internal/core/domain"
	portssvc "github.com/nestegg-app/nestegg_backend/internal/core/ports/services"
	"github.com/nestegg-app/nestegg_backend/internal/core/services"
	"github.com/nestegg-app/nestegg_backend/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock CurrencyRepository ---
type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	args := m.Called(ctx, currency)
	return args.Error(0)
}

// --- Test Suite ---
type CurrencyServiceTestSuite struct {
	suite.Suite
	mockRepo *MockCurrencyRepository
	service  portssvc.CurrencySvcFacade
}

func (suite *CurrencyServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockCurrencyRepository)
	suite.service = services.NewCurrencyService(suite.mockRepo)
}

func (suite *CurrencyServiceTestSuite) TestGetCurrencyByCode_DatabaseRowWins() {
	ctx := context.Background()
	stored := &domain.Currency{CurrencyCode: "USD", Name: "Renamed Dollar", Symbol: "$", Precision: 2}
	suite.mockRepo.On("FindCurrencyByCode", mock.Anything, "USD").Return(stored, nil).Once()

	currency, err := suite.service.GetCurrencyByCode(ctx, "usd")

	suite.Require().NoError(err)
	suite.Equal("Renamed Dollar", currency.Name)
}

func (suite *CurrencyServiceTestSuite) TestGetCurrencyByCode_StaticFallback() {
	ctx := context.Background()
	suite.mockRepo.On("FindCurrencyByCode", mock.Anything, "JPY").Return(nil, apperrors.ErrNotFound).Once()

	currency, err := suite.service.GetCurrencyByCode(ctx, "JPY")

	suite.Require().NoError(err)
	suite.Equal("Japanese Yen", currency.Name)
	suite.Equal(0, currency.Precision)
}

func (suite *CurrencyServiceTestSuite) TestGetCurrencyByCode_UnknownCode() {
	ctx := context.Background()
	suite.mockRepo.On("FindCurrencyByCode", mock.Anything, "ZZZ").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetCurrencyByCode(ctx, "ZZZ")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CurrencyServiceTestSuite) TestGetCurrencyByCode_RejectsMalformedCode() {
	_, err := suite.service.GetCurrencyByCode(context.Background(), "US")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindCurrencyByCode", mock.Anything, mock.Anything)
}

func (suite *CurrencyServiceTestSuite) TestListCurrencies_MergesStoredOverStatic() {
	ctx := context.Background()
	stored := []domain.Currency{
		{CurrencyCode: "USD", Name: "Renamed Dollar", Symbol: "$", Precision: 2},
		{CurrencyCode: "ZWL", Name: "Zimbabwe Dollar", Symbol: "$", Precision: 2},
	}
	suite.mockRepo.On("ListCurrencies", mock.Anything).Return(stored, nil).Once()

	currencies, err := suite.service.ListCurrencies(ctx)

	suite.Require().NoError(err)
	byCode := make(map[string]domain.Currency, len(currencies))
	for _, c := range currencies {
		byCode[c.CurrencyCode] = c
	}
	suite.Equal("Renamed Dollar", byCode["USD"].Name)
	suite.Equal("Zimbabwe Dollar", byCode["ZWL"].Name)
	suite.Contains(byCode, "EUR")
	// Sorted by code.
	for i := 1; i < len(currencies); i++ {
		suite.Less(currencies[i-1].CurrencyCode, currencies[i].CurrencyCode)
	}
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_RejectsSystemCode() {
	req := dto.CreateCurrencyRequest{CurrencyCode: "USD", Name: "Fake Dollar", Symbol: "$", Precision: 2}

	_, err := suite.service.CreateCurrency(context.Background(), req, "user-1")

	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveCurrency", mock.Anything, mock.Anything)
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_PersistsUserCurrency() {
	ctx := context.Background()
	req := dto.CreateCurrencyRequest{CurrencyCode: "xau", Name: "Gold Ounce", Symbol: "oz", Precision: 4}
	suite.mockRepo.On("SaveCurrency", mock.Anything, mock.MatchedBy(func(c domain.Currency) bool {
		return c.CurrencyCode == "XAU" && c.IsActive && c.CreatedBy == "user-1"
	})).Return(nil).Once()

	currency, err := suite.service.CreateCurrency(ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.Equal("XAU", currency.CurrencyCode)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestCurrencyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CurrencyServiceTestSuite))
}
