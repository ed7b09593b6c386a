package utils

import (
	"database/sql"
	"testing"
	"time"

	"railgriev/models"
)

const testSecret = "test-secret"

func TestCustomerTokenRoundTrip(t *testing.T) {
	customer := &models.Customer{
		CustomerID:     42,
		CustomerNumber: "ED2026031001",
	}
	token, err := GenerateCustomerToken(customer, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims, err := ValidateToken(token, testSecret, AudienceCustomer)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}
	if claims.CustomerID != 42 {
		t.Errorf("expected customer_id 42, got %d", claims.CustomerID)
	}
}

func TestStaffTokenRoundTrip(t *testing.T) {
	staff := &models.StaffUser{
		Login:      "ram.kumar",
		Role:       models.RoleController,
		Department: "COMMERCIAL",
		Division:   sql.NullString{String: "DLI", Valid: true},
	}
	token, err := GenerateStaffToken(staff, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims, err := ValidateToken(token, testSecret, AudienceStaff)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}
	if claims.Login != "ram.kumar" || claims.Role != "controller" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.Department != "COMMERCIAL" || claims.Division != "DLI" {
		t.Errorf("missing scope claims: %+v", claims)
	}
}

// Customer tokens must not open staff endpoints and vice versa
func TestTokenAudienceIsEnforced(t *testing.T) {
	customer := &models.Customer{CustomerID: 42, CustomerNumber: "ED2026031001"}
	customerToken, err := GenerateCustomerToken(customer, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	if _, err := ValidateToken(customerToken, testSecret, AudienceStaff); err == nil {
		t.Error("customer token accepted as staff")
	}

	staff := &models.StaffUser{Login: "ram.kumar", Role: models.RoleController, Department: "COMMERCIAL"}
	staffToken, err := GenerateStaffToken(staff, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	if _, err := ValidateToken(staffToken, testSecret, AudienceCustomer); err == nil {
		t.Error("staff token accepted as customer")
	}
}

func TestValidateTokenRejectsBadInput(t *testing.T) {
	customer := &models.Customer{CustomerID: 42, CustomerNumber: "ED2026031001"}

	expired, err := GenerateCustomerToken(customer, testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	if _, err := ValidateToken(expired, testSecret, AudienceCustomer); err == nil {
		t.Error("expired token accepted")
	}

	valid, err := GenerateCustomerToken(customer, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	if _, err := ValidateToken(valid, "other-secret", AudienceCustomer); err == nil {
		t.Error("token accepted with wrong secret")
	}
	if _, err := ValidateToken("not-a-token", testSecret, AudienceCustomer); err == nil {
		t.Error("garbage accepted as token")
	}
}
