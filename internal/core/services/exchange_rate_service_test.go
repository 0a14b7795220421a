package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/abrkgrbz/stocker-finance/internal/apperrors"
	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
	portssvc "github.com/abrkgrbz/stocker-finance/internal/core/ports/services"
	"github.com/abrkgrbz/stocker-finance/internal/core/services"
	"github.com/abrkgrbz/stocker-finance/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ExchangeRateServiceTestSuite struct {
	suite.Suite
	mockRateRepo    *MockExchangeRateRepository
	mockCurrencySvc *MockCurrencyService
	service         portssvc.ExchangeRateSvcFacade
	ctx             context.Context
	tenantID        string
	userID          string
	onDate          time.Time
}

func (s *ExchangeRateServiceTestSuite) SetupTest() {
	s.mockRateRepo = new(MockExchangeRateRepository)
	s.mockCurrencySvc = new(MockCurrencyService)
	s.service = services.NewExchangeRateService(s.mockRateRepo, s.mockCurrencySvc, 7*24*time.Hour)
	s.ctx = context.Background()
	s.tenantID = "tenant-1"
	s.userID = "user-1"
	s.onDate = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
}

func (s *ExchangeRateServiceTestSuite) TestCreateExchangeRate_Success() {
	req := dto.CreateExchangeRateRequest{
		SourceCurrency: "USD",
		TargetCurrency: "TRY",
		RateDate:       s.onDate,
		BuyRate:        decimal.RequireFromString("32.40"),
		SellRate:       decimal.RequireFromString("32.60"),
		AverageRate:    decimal.RequireFromString("32.50"),
	}
	s.mockCurrencySvc.On("GetCurrencyByCode", s.ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD"}, nil).Once()
	s.mockCurrencySvc.On("GetCurrencyByCode", s.ctx, "TRY").Return(&domain.Currency{CurrencyCode: "TRY"}, nil).Once()
	s.mockRateRepo.On("SaveRate", s.ctx, mock.AnythingOfType("domain.ExchangeRate")).Return(nil).Once()

	rate, err := s.service.CreateExchangeRate(s.ctx, s.tenantID, req, s.userID)

	s.Require().NoError(err)
	s.Require().NotNil(rate)
	s.Equal("USD", rate.SourceCurrency)
	s.Equal("TRY", rate.TargetCurrency)
	s.True(rate.AverageRate.Equal(decimal.RequireFromString("32.50")))
	s.True(rate.RateDate.Equal(s.onDate))
	s.mockRateRepo.AssertExpectations(s.T())
	s.mockCurrencySvc.AssertExpectations(s.T())
}

func (s *ExchangeRateServiceTestSuite) TestCreateExchangeRate_NonPositiveRate() {
	req := dto.CreateExchangeRateRequest{
		SourceCurrency: "USD",
		TargetCurrency: "TRY",
		RateDate:       s.onDate,
		BuyRate:        decimal.Zero,
		SellRate:       decimal.NewFromInt(1),
		AverageRate:    decimal.NewFromInt(1),
	}

	_, err := s.service.CreateExchangeRate(s.ctx, s.tenantID, req, s.userID)

	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockRateRepo.AssertNotCalled(s.T(), "SaveRate", mock.Anything, mock.Anything)
}

func (s *ExchangeRateServiceTestSuite) TestCreateExchangeRate_SameCurrencies() {
	req := dto.CreateExchangeRateRequest{
		SourceCurrency: "TRY",
		TargetCurrency: "TRY",
		RateDate:       s.onDate,
		BuyRate:        decimal.NewFromInt(1),
		SellRate:       decimal.NewFromInt(1),
		AverageRate:    decimal.NewFromInt(1),
	}

	_, err := s.service.CreateExchangeRate(s.ctx, s.tenantID, req, s.userID)

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ExchangeRateServiceTestSuite) TestCreateExchangeRate_UnknownCurrency() {
	req := dto.CreateExchangeRateRequest{
		SourceCurrency: "XXX",
		TargetCurrency: "TRY",
		RateDate:       s.onDate,
		BuyRate:        decimal.NewFromInt(1),
		SellRate:       decimal.NewFromInt(1),
		AverageRate:    decimal.NewFromInt(1),
	}
	s.mockCurrencySvc.On("GetCurrencyByCode", s.ctx, "XXX").Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.service.CreateExchangeRate(s.ctx, s.tenantID, req, s.userID)

	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockCurrencySvc.AssertExpectations(s.T())
}

func (s *ExchangeRateServiceTestSuite) TestGetRate_ExactMatch() {
	expected := &domain.ExchangeRate{SourceCurrency: "USD", TargetCurrency: "TRY", RateDate: s.onDate}
	s.mockRateRepo.On("FindRate", s.ctx, s.tenantID, "USD", "TRY", s.onDate).Return(expected, nil).Once()

	rate, err := s.service.GetRate(s.ctx, s.tenantID, "usd", "try", s.onDate)

	s.Require().NoError(err)
	s.Equal(expected, rate)
	s.mockRateRepo.AssertNotCalled(s.T(), "FindLatestRateOnOrBefore", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	s.mockRateRepo.AssertExpectations(s.T())
}

func (s *ExchangeRateServiceTestSuite) TestGetRate_FallbackToPriorDate() {
	notBefore := s.onDate.Add(-7 * 24 * time.Hour)
	fallback := &domain.ExchangeRate{SourceCurrency: "USD", TargetCurrency: "TRY", RateDate: s.onDate.AddDate(0, 0, -3)}
	s.mockRateRepo.On("FindRate", s.ctx, s.tenantID, "USD", "TRY", s.onDate).Return(nil, apperrors.ErrNotFound).Once()
	s.mockRateRepo.On("FindLatestRateOnOrBefore", s.ctx, s.tenantID, "USD", "TRY", s.onDate, notBefore).Return(fallback, nil).Once()

	rate, err := s.service.GetRate(s.ctx, s.tenantID, "USD", "TRY", s.onDate)

	s.Require().NoError(err)
	s.Equal(fallback, rate)
	s.mockRateRepo.AssertExpectations(s.T())
}

func (s *ExchangeRateServiceTestSuite) TestGetRate_FallbackExhausted() {
	s.mockRateRepo.On("FindRate", s.ctx, s.tenantID, "USD", "TRY", s.onDate).Return(nil, apperrors.ErrNotFound).Once()
	s.mockRateRepo.On("FindLatestRateOnOrBefore", s.ctx, s.tenantID, "USD", "TRY", s.onDate, mock.AnythingOfType("time.Time")).Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.service.GetRate(s.ctx, s.tenantID, "USD", "TRY", s.onDate)

	s.ErrorIs(err, services.ErrRateNotFound)
	s.mockRateRepo.AssertExpectations(s.T())
}

func (s *ExchangeRateServiceTestSuite) TestConvert_SameCurrencySkipsLookup() {
	money := domain.NewMoney(decimal.RequireFromString("123.45678"), "TRY")

	converted, err := s.service.Convert(s.ctx, s.tenantID, money, "TRY", s.onDate)

	s.Require().NoError(err)
	s.Equal("TRY", converted.CurrencyCode)
	s.Equal("123.4568", converted.Amount.String())
	s.mockRateRepo.AssertNotCalled(s.T(), "FindRate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ExchangeRateServiceTestSuite) TestConvert_AppliesAverageRate() {
	rate := &domain.ExchangeRate{
		SourceCurrency: "USD",
		TargetCurrency: "TRY",
		RateDate:       s.onDate,
		AverageRate:    decimal.RequireFromString("32.5"),
	}
	s.mockRateRepo.On("FindRate", s.ctx, s.tenantID, "USD", "TRY", s.onDate).Return(rate, nil).Once()

	converted, err := s.service.Convert(s.ctx, s.tenantID, domain.NewMoney(decimal.NewFromInt(100), "USD"), "TRY", s.onDate)

	s.Require().NoError(err)
	s.Equal("TRY", converted.CurrencyCode)
	s.True(converted.Amount.Equal(decimal.NewFromInt(3250)))
	s.mockRateRepo.AssertExpectations(s.T())
}

func TestExchangeRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExchangeRateServiceTestSuite))
}
