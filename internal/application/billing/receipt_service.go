package billing

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vendorbill/backend/internal/domain/billing"
	"github.com/vendorbill/backend/internal/domain/identity"
	"github.com/vendorbill/backend/internal/domain/shared"
)

// ReceiptService handles receipt issuance and reversal. Every write
// pairs with the parent billing note in one transaction.
type ReceiptService struct {
	receiptRepo billing.ReceiptRepository
	noteRepo    billing.BillingNoteRepository
	numberSvc   *DocumentNumberService
	clock       billing.Clock
	logger      *zap.Logger
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(
	receiptRepo billing.ReceiptRepository,
	noteRepo billing.BillingNoteRepository,
	numberSvc *DocumentNumberService,
	clock billing.Clock,
	logger *zap.Logger,
) *ReceiptService {
	if clock == nil {
		clock = billing.SystemClock{}
	}
	return &ReceiptService{
		receiptRepo: receiptRepo,
		noteRepo:    noteRepo,
		numberSvc:   numberSvc,
		clock:       clock,
		logger:      logger,
	}
}

// Create issues a receipt for an approved billing note and forces the
// note to PAID in the same transaction
func (s *ReceiptService) Create(ctx context.Context, principal identity.Principal, req CreateReceiptRequest) (*ReceiptResponse, error) {
	note, err := s.noteRepo.FindByID(ctx, req.BillingNoteID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Billing note not found")
	}
	if !principal.CanAccessVendor(note.VendorID) {
		return nil, shared.ErrForbidden
	}

	existing, err := s.receiptRepo.FindByBillingNoteID(ctx, note.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Billing note already has a receipt")
	}

	ref, err := s.resolveReceiptRef(ctx, note.VendorID)
	if err != nil {
		return nil, err
	}

	receipt, err := billing.NewReceipt(note, ref, req.ReceiptDate)
	if err != nil {
		return nil, err
	}
	if note.Status != billing.BillingNoteStatusPaid {
		if err := note.MarkPaid(); err != nil {
			return nil, err
		}
	}

	if err := s.receiptRepo.CreateAndMarkBillingPaid(ctx, receipt, note); err != nil {
		return nil, err
	}
	s.logger.Info("receipt issued",
		zap.String("receipt_ref", receipt.ReceiptRef),
		zap.String("billing_ref", note.BillingRef))
	drainEvents(s.logger, receipt)
	drainEvents(s.logger, note)
	return ToReceiptResponse(receipt), nil
}

// Get returns a single receipt scoped to the caller
func (s *ReceiptService) Get(ctx context.Context, principal identity.Principal, id uuid.UUID) (*ReceiptResponse, error) {
	receipt, err := s.loadOwned(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	return ToReceiptResponse(receipt), nil
}

// List returns receipts for a vendor
func (s *ReceiptService) List(ctx context.Context, principal identity.Principal, requestedVendor *uuid.UUID, filter shared.Filter) (*shared.Paginated[ReceiptResponse], error) {
	vendorID, err := principal.ResolveVendorID(requestedVendor)
	if err != nil {
		return nil, err
	}
	page, err := s.receiptRepo.List(ctx, billing.ReceiptFilter{
		Filter:   filter,
		VendorID: vendorID,
	})
	if err != nil {
		return nil, err
	}
	items := make([]ReceiptResponse, len(page.Items))
	for i := range page.Items {
		items[i] = *ToReceiptResponse(&page.Items[i])
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

// Delete removes a receipt and reverts the parent billing note to
// PENDING, always PENDING rather than its prior status. Privileged
// callers only.
func (s *ReceiptService) Delete(ctx context.Context, principal identity.Principal, id uuid.UUID) error {
	if !principal.IsPrivileged() {
		return shared.ErrForbidden
	}
	receipt, err := s.loadOwned(ctx, principal, id)
	if err != nil {
		return err
	}
	note, err := s.noteRepo.FindByID(ctx, receipt.BillingNoteID)
	if err != nil {
		return err
	}
	if note == nil {
		return shared.NewDomainError("NOT_FOUND", "Billing note not found")
	}
	if err := note.RevertToPending(); err != nil {
		return err
	}
	if err := s.receiptRepo.DeleteAndRevertBilling(ctx, receipt, note); err != nil {
		return err
	}
	s.logger.Info("receipt deleted",
		zap.String("receipt_ref", receipt.ReceiptRef),
		zap.String("billing_ref", note.BillingRef))
	return nil
}

// UpdateStatus flips a receipt between PAID and PENDING. When reverting
// to PENDING with revertBilling set, the parent note goes back to
// PENDING in the same transaction. Privileged callers only.
func (s *ReceiptService) UpdateStatus(ctx context.Context, principal identity.Principal, id uuid.UUID, req UpdateReceiptStatusRequest) (*ReceiptResponse, error) {
	if !principal.IsPrivileged() {
		return nil, shared.ErrForbidden
	}
	receipt, err := s.loadOwned(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	target := billing.ReceiptStatus(req.Status)
	switch target {
	case billing.ReceiptStatusPending:
		if err := receipt.MarkPending(); err != nil {
			return nil, err
		}
	case billing.ReceiptStatusPaid:
		if err := receipt.MarkPaid(); err != nil {
			return nil, err
		}
	default:
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Unknown receipt status "+req.Status)
	}

	var note *billing.BillingNote
	if target == billing.ReceiptStatusPending && req.RevertBilling {
		note, err = s.noteRepo.FindByID(ctx, receipt.BillingNoteID)
		if err != nil {
			return nil, err
		}
		if note != nil {
			if err := note.RevertToPending(); err != nil {
				return nil, err
			}
		}
	}

	if err := s.receiptRepo.SaveWithBilling(ctx, receipt, note); err != nil {
		return nil, err
	}
	return ToReceiptResponse(receipt), nil
}

// resolveReceiptRef allocates a receipt reference via the configured
// numbering rule or the legacy fallback scheme
func (s *ReceiptService) resolveReceiptRef(ctx context.Context, vendorID uuid.UUID) (string, error) {
	ref, enabled, err := s.numberSvc.Allocate(ctx, vendorID, billing.DocumentTypeReceipt)
	if err != nil {
		return "", err
	}
	if !enabled {
		year := s.clock.Now().Year()
		maxSeq, err := s.receiptRepo.MaxFallbackSequence(ctx, vendorID, billing.FallbackReceiptPrefix, year)
		if err != nil {
			return "", err
		}
		ref = billing.FallbackRef(billing.FallbackReceiptPrefix, year, maxSeq+1)
	}
	exists, err := s.receiptRepo.ExistsByRef(ctx, ref)
	if err != nil {
		return "", err
	}
	if exists {
		return "", shared.NewDomainError("DUPLICATE_REFERENCE", "Receipt reference "+ref+" already exists")
	}
	return ref, nil
}

func (s *ReceiptService) loadOwned(ctx context.Context, principal identity.Principal, id uuid.UUID) (*billing.Receipt, error) {
	receipt, err := s.receiptRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Receipt not found")
	}
	if !principal.CanAccessVendor(receipt.VendorID) {
		return nil, shared.ErrForbidden
	}
	return receipt, nil
}
