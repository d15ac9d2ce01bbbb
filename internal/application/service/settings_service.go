package service

import (
	"context"
	"strings"

	"github.com/sangkips/restobill-api/internal/domain/entity"
	"github.com/sangkips/restobill-api/internal/domain/enum"
	"github.com/sangkips/restobill-api/internal/domain/repository"
	"github.com/sangkips/restobill-api/pkg/apperror"
	"github.com/sangkips/restobill-api/pkg/billdate"
	"github.com/shopspring/decimal"
)

var maxTaxRate = decimal.NewFromInt(100)

// SettingsService handles shop settings
type SettingsService struct {
	settingsRepo repository.SettingsRepository
	defaults     entity.AppSettings
}

// NewSettingsService creates a new settings service. defaults is stored the
// first time settings are read and none exist yet.
func NewSettingsService(settingsRepo repository.SettingsRepository, defaults *entity.AppSettings) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		defaults:     *defaults,
	}
}

// GetSettings retrieves the shop settings, creating defaults if none exist
func (s *SettingsService) GetSettings(ctx context.Context) (*entity.AppSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if settings == nil {
		settings = &entity.AppSettings{}
		*settings = s.defaults
		if err := s.settingsRepo.Save(ctx, settings); err != nil {
			return nil, err
		}
	}

	return settings, nil
}

// UpdateSettingsInput represents the input for updating settings
type UpdateSettingsInput struct {
	ShopName      string
	ShopAddress   string
	ShopGST       string
	ShopPhone     string
	Currency      string
	CGSTRate      *decimal.Decimal
	SGSTRate      *decimal.Decimal
	PrinterFormat string
	Locale        string
}

// UpdateSettings validates and replaces the shop settings
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.AppSettings, error) {
	var fieldErrors []apperror.FieldError

	shopName := strings.TrimSpace(input.ShopName)
	if shopName == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "shop_name", Message: "Shop name is required"})
	}

	format, err := enum.ParsePrinterFormat(input.PrinterFormat)
	if err != nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "printer_format", Message: "Printer format must be 58mm or 80mm"})
	}

	for field, rate := range map[string]*decimal.Decimal{"cgst_rate": input.CGSTRate, "sgst_rate": input.SGSTRate} {
		if rate != nil && (rate.IsNegative() || rate.GreaterThan(maxTaxRate)) {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: field, Message: "Tax rate must be between 0 and 100"})
		}
	}

	locale := input.Locale
	if locale == "" {
		locale = billdate.DefaultLocale
	}
	if !billdate.SupportedLocale(locale) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "locale", Message: "Locale must be en-GB or en-IN"})
	}

	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	currency := strings.TrimSpace(input.Currency)
	if currency == "" {
		currency = s.defaults.Currency
	}

	settings.ShopName = shopName
	settings.ShopAddress = strings.TrimSpace(input.ShopAddress)
	settings.ShopGST = optionalString(input.ShopGST)
	settings.ShopPhone = optionalString(input.ShopPhone)
	settings.Currency = currency
	settings.CGSTRate = input.CGSTRate
	settings.SGSTRate = input.SGSTRate
	settings.PrinterFormat = format
	settings.Locale = locale

	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
