package identity

import (
	"github.com/google/uuid"

	"github.com/vendorbill/backend/internal/domain/shared"
)

// Role represents the role a caller acts under
type Role string

const (
	RoleAdmin  Role = "ADMIN"  // Back-office administrator
	RoleUser   Role = "USER"   // Back-office staff
	RoleVendor Role = "VENDOR" // External vendor, scoped to its own documents
)

// IsValid checks if the role is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleVendor:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// Principal is the resolved identity a request acts as. Identity
// resolution itself (tokens, sessions) is an external capability; the
// billing engine only consumes the resolved role and vendor scope.
type Principal struct {
	UserID   uuid.UUID
	Role     Role
	VendorID *uuid.UUID // set for vendor-role callers
}

// IsPrivileged returns true for back-office callers that may act on any
// vendor's documents
func (p Principal) IsPrivileged() bool {
	return p.Role == RoleAdmin || p.Role == RoleUser
}

// IsAdmin returns true only for administrator callers
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanAccessVendor returns true if the principal may touch documents
// belonging to the given vendor
func (p Principal) CanAccessVendor(vendorID uuid.UUID) bool {
	if p.IsPrivileged() {
		return true
	}
	return p.VendorID != nil && *p.VendorID == vendorID
}

// ResolveVendorID determines the vendor scope of an operation. Vendor
// callers are always scoped to their own vendor; privileged callers must
// name a vendor explicitly.
func (p Principal) ResolveVendorID(requested *uuid.UUID) (uuid.UUID, error) {
	if p.IsPrivileged() {
		if requested == nil || *requested == uuid.Nil {
			return uuid.Nil, shared.NewDomainError("VALIDATION_ERROR", "Vendor ID is required for privileged callers")
		}
		return *requested, nil
	}
	if p.VendorID == nil || *p.VendorID == uuid.Nil {
		return uuid.Nil, shared.ErrForbidden
	}
	if requested != nil && *requested != uuid.Nil && *requested != *p.VendorID {
		return uuid.Nil, shared.ErrForbidden
	}
	return *p.VendorID, nil
}
