package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vendorbill/backend/internal/domain/identity"
	"github.com/vendorbill/backend/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidClaims = errors.New("invalid token claims")
	ErrMissingUserID = errors.New("missing user_id in claims")
	ErrInvalidRole   = errors.New("invalid role in claims")
)

// Claims represents custom JWT claims carried by access tokens
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Role     string `json:"role"`
	VendorID string `json:"vendor_id,omitempty"`
}

// JWTService handles JWT token operations
type JWTService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret:     []byte(cfg.Secret),
		expiration: cfg.Expiration,
		issuer:     cfg.Issuer,
	}
}

// Generate issues a signed access token for a principal
func (s *JWTService) Generate(principal identity.Principal) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.expiration)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   principal.UserID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: principal.UserID.String(),
		Role:   string(principal.Role),
	}
	if principal.VendorID != nil {
		claims.VendorID = principal.VendorID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Validate parses and verifies a token, returning the principal it
// carries
func (s *JWTService) Validate(tokenString string) (identity.Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return identity.Principal{}, ErrExpiredToken
		}
		return identity.Principal{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return identity.Principal{}, ErrInvalidClaims
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return identity.Principal{}, ErrMissingUserID
	}
	role := identity.Role(claims.Role)
	if !role.IsValid() {
		return identity.Principal{}, ErrInvalidRole
	}

	principal := identity.Principal{UserID: userID, Role: role}
	if claims.VendorID != "" {
		vendorID, err := uuid.Parse(claims.VendorID)
		if err != nil {
			return identity.Principal{}, ErrInvalidClaims
		}
		principal.VendorID = &vendorID
	}
	if role == identity.RoleVendor && principal.VendorID == nil {
		return identity.Principal{}, ErrInvalidClaims
	}
	return principal, nil
}
