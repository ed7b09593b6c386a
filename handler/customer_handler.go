package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"railgriev/middleware"
	"railgriev/models"
	"railgriev/repository"
	"railgriev/service"
	"railgriev/validators"
)

// CustomerHandler handles customer account requests
type CustomerHandler struct {
	service *service.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(svc *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: svc}
}

// Register handles POST /api/v1/customers/register
func (h *CustomerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}
	if fields := validators.ValidateStruct(&req); fields != nil {
		respondWithValidationError(w, fields)
		return
	}

	customer, err := h.service.Register(&req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			respondWithError(w, http.StatusConflict, "Conflict", "Email already registered")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal error", "Registration failed")
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"error":           false,
		"message":         "Account created",
		"customer_number": customer.CustomerNumber,
	})
}

// Login handles POST /api/v1/customers/login
func (h *CustomerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}
	if fields := validators.ValidateStruct(&req); fields != nil {
		respondWithValidationError(w, fields)
		return
	}

	token, customer, err := h.service.Login(&req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Invalid email or password")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal error", "Login failed")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"error": false,
		"token": token,
		"customer": map[string]interface{}{
			"customer_number": customer.CustomerNumber,
			"name":            customer.Name,
			"email":           customer.Email,
		},
	})
}

// GetProfile handles GET /api/v1/customers/profile
func (h *CustomerHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	rctx, ok := middleware.GetRequestContext(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Session not found in context")
		return
	}

	customer, err := h.service.GetProfile(rctx.CustomerID)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			respondWithError(w, http.StatusNotFound, "Not found", "Account not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal error", "Failed to load profile")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"error": false,
		"data":  customer,
	})
}

// UpdateProfile handles PUT /api/v1/customers/profile
func (h *CustomerHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	rctx, ok := middleware.GetRequestContext(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Session not found in context")
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}
	if fields := validators.ValidateStruct(&req); fields != nil {
		respondWithValidationError(w, fields)
		return
	}

	customer, err := h.service.UpdateProfile(rctx.CustomerID, &req)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal error", "Failed to update profile")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"error": false,
		"data":  customer,
	})
}
