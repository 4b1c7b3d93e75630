package billing

import (
	"context"

	"github.com/google/uuid"

	"github.com/vendorbill/backend/internal/domain/billing"
	"github.com/vendorbill/backend/internal/domain/identity"
	"github.com/vendorbill/backend/internal/domain/shared"
)

// DocumentNumberService owns numbering configuration and number
// allocation. Allocation consumes a sequence number; preview never does.
type DocumentNumberService struct {
	configRepo billing.DocumentNumberConfigRepository
	seqRepo    billing.DocumentSequenceRepository
	clock      billing.Clock
}

// NewDocumentNumberService creates a new DocumentNumberService
func NewDocumentNumberService(
	configRepo billing.DocumentNumberConfigRepository,
	seqRepo billing.DocumentSequenceRepository,
	clock billing.Clock,
) *DocumentNumberService {
	if clock == nil {
		clock = billing.SystemClock{}
	}
	return &DocumentNumberService{
		configRepo: configRepo,
		seqRepo:    seqRepo,
		clock:      clock,
	}
}

// sequenceScope returns the vendor key the sequence row is stored
// under. Voucher references must be unique across vendors, so payment
// vouchers draw from a single global daily counter instead of a
// per-vendor one.
func sequenceScope(vendorID uuid.UUID, docType billing.DocumentType) uuid.UUID {
	if docType == billing.DocumentTypePaymentVoucher {
		return uuid.Nil
	}
	return vendorID
}

// resolveRule returns the effective numbering rule for a vendor and
// document type, and whether auto-numbering is enabled. Payment vouchers
// always use the fixed rule.
func (s *DocumentNumberService) resolveRule(ctx context.Context, vendorID uuid.UUID, docType billing.DocumentType) (billing.NumberRule, bool, error) {
	if docType == billing.DocumentTypePaymentVoucher {
		return billing.PaymentVoucherRule(), true, nil
	}
	cfg, err := s.configRepo.FindByVendorAndType(ctx, vendorID, docType)
	if err != nil {
		return billing.NumberRule{}, false, err
	}
	if cfg == nil || !cfg.Enabled {
		return billing.DefaultPreviewRule(docType), false, nil
	}
	return cfg.Rule(), true, nil
}

// Allocate consumes the next number for a vendor and document type and
// returns the formatted reference. The sequence increment is a single
// atomic upsert, so concurrent allocations for the same key never
// collide. Returns enabled=false without consuming anything when the
// vendor has no active configuration.
func (s *DocumentNumberService) Allocate(ctx context.Context, vendorID uuid.UUID, docType billing.DocumentType) (ref string, enabled bool, err error) {
	if !docType.IsValid() {
		return "", false, shared.NewDomainError("VALIDATION_ERROR", "Unknown document type "+docType.String())
	}
	rule, enabled, err := s.resolveRule(ctx, vendorID, docType)
	if err != nil {
		return "", false, err
	}
	if !enabled {
		return "", false, nil
	}
	now := s.clock.Now()
	n, err := s.seqRepo.Next(ctx, sequenceScope(vendorID, docType), docType, rule.PeriodKey(now))
	if err != nil {
		return "", false, err
	}
	return rule.Format(now, n), true, nil
}

// Preview returns the number the next allocation would produce, without
// consuming it. Racing allocators can still take the previewed number
// first.
func (s *DocumentNumberService) Preview(ctx context.Context, principal identity.Principal, requestedVendor *uuid.UUID, docType billing.DocumentType) (*DocNumberPreviewResponse, error) {
	if !docType.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Unknown document type "+docType.String())
	}
	vendorID, err := principal.ResolveVendorID(requestedVendor)
	if err != nil {
		return nil, err
	}
	rule, configured, err := s.resolveRule(ctx, vendorID, docType)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	current, err := s.seqRepo.Current(ctx, sequenceScope(vendorID, docType), docType, rule.PeriodKey(now))
	if err != nil {
		return nil, err
	}
	return &DocNumberPreviewResponse{
		DocumentType: docType.String(),
		Preview:      rule.Format(now, current+1),
		Configured:   configured,
	}, nil
}

// ListConfigs returns the vendor's numbering configurations
func (s *DocumentNumberService) ListConfigs(ctx context.Context, principal identity.Principal, requestedVendor *uuid.UUID) ([]DocNumberConfigResponse, error) {
	vendorID, err := principal.ResolveVendorID(requestedVendor)
	if err != nil {
		return nil, err
	}
	configs, err := s.configRepo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	out := make([]DocNumberConfigResponse, len(configs))
	for i := range configs {
		out[i] = *ToDocNumberConfigResponse(&configs[i])
	}
	return out, nil
}

// UpsertConfig creates or replaces a vendor's numbering configuration
func (s *DocumentNumberService) UpsertConfig(ctx context.Context, principal identity.Principal, req UpsertDocNumberConfigRequest) (*DocNumberConfigResponse, error) {
	vendorID, err := principal.ResolveVendorID(req.VendorID)
	if err != nil {
		return nil, err
	}
	cfg, err := billing.NewDocumentNumberConfig(vendorID, billing.DocumentType(req.DocumentType), req.Enabled, billing.NumberRule{
		Prefix:        req.Prefix,
		DateFormat:    billing.DateFormat(req.DateFormat),
		RunningDigits: req.RunningDigits,
		ResetPeriod:   billing.ResetPeriod(req.ResetPeriod),
	})
	if err != nil {
		return nil, err
	}
	if err := s.configRepo.Upsert(ctx, cfg); err != nil {
		return nil, err
	}
	return ToDocNumberConfigResponse(cfg), nil
}

// DeleteConfig removes a vendor's numbering configuration, reverting the
// document type to the fallback reference scheme
func (s *DocumentNumberService) DeleteConfig(ctx context.Context, principal identity.Principal, requestedVendor *uuid.UUID, docType billing.DocumentType) error {
	vendorID, err := principal.ResolveVendorID(requestedVendor)
	if err != nil {
		return err
	}
	if !docType.IsValid() || docType == billing.DocumentTypePaymentVoucher {
		return shared.NewDomainError("VALIDATION_ERROR", "Document type "+docType.String()+" is not configurable")
	}
	return s.configRepo.Delete(ctx, vendorID, docType)
}
