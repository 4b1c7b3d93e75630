package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendorbill/backend/internal/domain/identity"
	"github.com/vendorbill/backend/internal/infrastructure/config"
)

func newTestService(expiration time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:     "test-secret",
		Expiration: expiration,
		Issuer:     "vendorbill-test",
	})
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newTestService(time.Hour)
	vendorID := uuid.New()
	principal := identity.Principal{UserID: uuid.New(), Role: identity.RoleVendor, VendorID: &vendorID}

	token, expiresAt, err := svc.Generate(principal)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	got, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, principal.UserID, got.UserID)
	assert.Equal(t, identity.RoleVendor, got.Role)
	require.NotNil(t, got.VendorID)
	assert.Equal(t, vendorID, *got.VendorID)
}

func TestValidateAdminToken(t *testing.T) {
	svc := newTestService(time.Hour)
	principal := identity.Principal{UserID: uuid.New(), Role: identity.RoleAdmin}

	token, _, err := svc.Generate(principal)
	require.NoError(t, err)

	got, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, identity.RoleAdmin, got.Role)
	assert.Nil(t, got.VendorID)
}

func TestValidateRejectsExpired(t *testing.T) {
	svc := newTestService(-time.Minute)
	token, _, err := svc.Generate(identity.Principal{UserID: uuid.New(), Role: identity.RoleUser})
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, _, err := newTestService(time.Hour).Generate(identity.Principal{UserID: uuid.New(), Role: identity.RoleUser})
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{Secret: "different", Expiration: time.Hour, Issuer: "x"})
	_, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := newTestService(time.Hour)
	_, err := svc.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
