package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"railgriev/models"
)

// Claims is the signed token payload. Customer tokens carry CustomerID and
// Audience "customer"; staff tokens carry Login/Role/Department/Division and
// Audience "staff". The two are never interchangeable.
type Claims struct {
	CustomerID int64  `json:"customer_id,omitempty"`
	Login      string `json:"login,omitempty"`
	Role       string `json:"role,omitempty"`
	Department string `json:"department,omitempty"`
	Division   string `json:"division,omitempty"`
	jwt.RegisteredClaims
}

const (
	AudienceCustomer = "customer"
	AudienceStaff    = "staff"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// GenerateCustomerToken creates a signed JWT for a customer session
func GenerateCustomerToken(customer *models.Customer, secret string, expiry time.Duration) (string, error) {
	claims := Claims{
		CustomerID: customer.CustomerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   customer.CustomerNumber,
			Audience:  jwt.ClaimStrings{AudienceCustomer},
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GenerateStaffToken creates a signed JWT for a staff session
func GenerateStaffToken(staff *models.StaffUser, secret string, expiry time.Duration) (string, error) {
	claims := Claims{
		Login:      staff.Login,
		Role:       string(staff.Role),
		Department: staff.Department,
		Division:   staff.Division.String,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   staff.Login,
			Audience:  jwt.ClaimStrings{AudienceStaff},
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken parses and verifies a token, checking the expected audience
func ValidateToken(tokenString, secret, audience string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	found := false
	for _, aud := range claims.Audience {
		if aud == audience {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
