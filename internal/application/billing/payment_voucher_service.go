package billing

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vendorbill/backend/internal/domain/billing"
	"github.com/vendorbill/backend/internal/domain/identity"
	"github.com/vendorbill/backend/internal/domain/shared"
)

// PaymentVoucherService consolidates submitted billing notes into
// payment vouchers. Vendors never call these operations.
type PaymentVoucherService struct {
	voucherRepo billing.PaymentVoucherRepository
	noteRepo    billing.BillingNoteRepository
	numberSvc   *DocumentNumberService
	logger      *zap.Logger
}

// NewPaymentVoucherService creates a new PaymentVoucherService
func NewPaymentVoucherService(
	voucherRepo billing.PaymentVoucherRepository,
	noteRepo billing.BillingNoteRepository,
	numberSvc *DocumentNumberService,
	logger *zap.Logger,
) *PaymentVoucherService {
	return &PaymentVoucherService{
		voucherRepo: voucherRepo,
		noteRepo:    noteRepo,
		numberSvc:   numberSvc,
		logger:      logger,
	}
}

// Create builds a voucher over a vendor's submitted billing notes. The
// member set is validated with a strict count match; the voucher insert
// and member approval run in one transaction.
func (s *PaymentVoucherService) Create(ctx context.Context, principal identity.Principal, req CreatePaymentVoucherRequest) (*PaymentVoucherResponse, error) {
	if !principal.IsPrivileged() {
		return nil, shared.ErrForbidden
	}

	members, err := s.noteRepo.FindByIDs(ctx, req.VendorID, req.BillingNoteIDs)
	if err != nil {
		return nil, err
	}
	if len(members) != len(req.BillingNoteIDs) {
		return nil, shared.NewDomainError("OWNERSHIP_VIOLATION", "Some billing notes were not found for this vendor")
	}

	ref, _, err := s.numberSvc.Allocate(ctx, req.VendorID, billing.DocumentTypePaymentVoucher)
	if err != nil {
		return nil, err
	}
	exists, err := s.voucherRepo.ExistsByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("DUPLICATE_REFERENCE", "Voucher reference "+ref+" already exists")
	}

	voucher, err := billing.NewPaymentVoucher(req.VendorID, ref, req.VoucherDate, members, req.Remark)
	if err != nil {
		return nil, err
	}
	createdBy := principal.UserID
	voucher.CreatedBy = &createdBy

	if err := s.voucherRepo.CreateWithMembers(ctx, voucher, req.BillingNoteIDs); err != nil {
		return nil, err
	}
	s.logger.Info("payment voucher created",
		zap.String("voucher_ref", voucher.VoucherRef),
		zap.String("vendor_id", req.VendorID.String()),
		zap.Int("member_count", len(req.BillingNoteIDs)),
		zap.String("net_total", voucher.NetTotal.StringFixed(2)))
	drainEvents(s.logger, voucher)
	return ToPaymentVoucherResponse(voucher), nil
}

// Get returns a single voucher with its member notes
func (s *PaymentVoucherService) Get(ctx context.Context, principal identity.Principal, id uuid.UUID) (*PaymentVoucherResponse, error) {
	voucher, err := s.loadPrivileged(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	return ToPaymentVoucherResponse(voucher), nil
}

// List returns vouchers, optionally narrowed to one vendor or status
func (s *PaymentVoucherService) List(ctx context.Context, principal identity.Principal, vendorID *uuid.UUID, status *billing.VoucherStatus, filter shared.Filter) (*shared.Paginated[PaymentVoucherResponse], error) {
	if !principal.IsPrivileged() {
		return nil, shared.ErrForbidden
	}
	page, err := s.voucherRepo.List(ctx, billing.PaymentVoucherFilter{
		Filter:   filter,
		VendorID: vendorID,
		Status:   status,
	})
	if err != nil {
		return nil, err
	}
	items := make([]PaymentVoucherResponse, len(page.Items))
	for i := range page.Items {
		items[i] = *ToPaymentVoucherResponse(&page.Items[i])
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

// Cancel voids a voucher, reverts every member note to SUBMITTED, and
// removes the voucher row. Admin only.
func (s *PaymentVoucherService) Cancel(ctx context.Context, principal identity.Principal, id uuid.UUID) error {
	if !principal.IsAdmin() {
		return shared.ErrForbidden
	}
	voucher, err := s.loadPrivileged(ctx, principal, id)
	if err != nil {
		return err
	}
	if err := voucher.Cancel(); err != nil {
		return err
	}
	if err := s.voucherRepo.CancelAndReleaseMembers(ctx, voucher, false); err != nil {
		return err
	}
	s.logger.Info("payment voucher cancelled", zap.String("voucher_ref", voucher.VoucherRef))
	drainEvents(s.logger, voucher)
	return nil
}

// UpdateStatus sets the voucher status directly. A CANCELLED target
// still releases the member notes, but the voucher row is kept as an
// audit record. Admin only.
func (s *PaymentVoucherService) UpdateStatus(ctx context.Context, principal identity.Principal, id uuid.UUID, status billing.VoucherStatus) (*PaymentVoucherResponse, error) {
	if !principal.IsAdmin() {
		return nil, shared.ErrForbidden
	}
	voucher, err := s.loadPrivileged(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	if status == billing.VoucherStatusCancelled {
		if err := voucher.Cancel(); err != nil {
			return nil, err
		}
		if err := s.voucherRepo.CancelAndReleaseMembers(ctx, voucher, true); err != nil {
			return nil, err
		}
		drainEvents(s.logger, voucher)
		voucher.BillingNotes = nil
		return ToPaymentVoucherResponse(voucher), nil
	}

	if err := voucher.UpdateStatus(status); err != nil {
		return nil, err
	}
	if err := s.voucherRepo.Update(ctx, voucher); err != nil {
		return nil, err
	}
	return ToPaymentVoucherResponse(voucher), nil
}

func (s *PaymentVoucherService) loadPrivileged(ctx context.Context, principal identity.Principal, id uuid.UUID) (*billing.PaymentVoucher, error) {
	if !principal.IsPrivileged() {
		return nil, shared.ErrForbidden
	}
	voucher, err := s.voucherRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Payment voucher not found")
	}
	return voucher, nil
}
