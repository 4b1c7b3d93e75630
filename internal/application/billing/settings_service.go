package billing

import (
	"context"

	"go.uber.org/zap"

	"github.com/vendorbill/backend/internal/domain/billing"
	"github.com/vendorbill/backend/internal/domain/identity"

	"github.com/google/uuid"
)

// TaxSettingsService manages per-vendor tax configuration
type TaxSettingsService struct {
	settingsRepo billing.VendorTaxSettingsRepository
	logger       *zap.Logger
}

// NewTaxSettingsService creates a new TaxSettingsService
func NewTaxSettingsService(settingsRepo billing.VendorTaxSettingsRepository, logger *zap.Logger) *TaxSettingsService {
	return &TaxSettingsService{
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// Get returns the vendor's effective tax settings, falling back to the
// canonical defaults when no row exists
func (s *TaxSettingsService) Get(ctx context.Context, principal identity.Principal, requestedVendor *uuid.UUID) (*TaxSettingsResponse, error) {
	vendorID, err := principal.ResolveVendorID(requestedVendor)
	if err != nil {
		return nil, err
	}
	settings, err := s.settingsRepo.FindByVendorID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	cfg := billing.TaxConfigFor(settings, nil)
	return &TaxSettingsResponse{
		VendorID:           vendorID,
		VatRate:            cfg.VatRate.String(),
		WhtRate:            cfg.WhtRate.String(),
		CalculateBeforeVat: cfg.CalculateBeforeVat,
		IsDefault:          settings == nil,
	}, nil
}

// Upsert creates or replaces the vendor's tax settings. Existing billing
// note snapshots are untouched.
func (s *TaxSettingsService) Upsert(ctx context.Context, principal identity.Principal, req UpsertTaxSettingsRequest) (*TaxSettingsResponse, error) {
	vendorID, err := principal.ResolveVendorID(req.VendorID)
	if err != nil {
		return nil, err
	}
	settings, err := billing.NewVendorTaxSettings(vendorID, req.VatRate, req.WhtRate, req.CalculateBeforeVat)
	if err != nil {
		return nil, err
	}
	if err := s.settingsRepo.Upsert(ctx, settings); err != nil {
		return nil, err
	}
	s.logger.Info("vendor tax settings updated",
		zap.String("vendor_id", vendorID.String()),
		zap.String("vat_rate", req.VatRate.String()),
		zap.String("wht_rate", req.WhtRate.String()))
	return &TaxSettingsResponse{
		VendorID:           vendorID,
		VatRate:            settings.VatRate.String(),
		WhtRate:            settings.WhtRate.String(),
		CalculateBeforeVat: settings.CalculateBeforeVat,
		IsDefault:          false,
	}, nil
}
