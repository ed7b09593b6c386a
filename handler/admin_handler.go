package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"railgriev/models"
	"railgriev/repository"
	"railgriev/service"
	"railgriev/validators"
)

// AdminHandler handles catalog management, account administration, reports
// and manual sweep triggers.
type AdminHandler struct {
	categories *repository.CategoryRepository
	sheds      *repository.ShedRepository
	customers  *service.CustomerService
	reports    *service.ReportService
	priority   *service.PriorityService
	autoClose  *service.AutoCloseService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	categories *repository.CategoryRepository,
	sheds *repository.ShedRepository,
	customers *service.CustomerService,
	reports *service.ReportService,
	priority *service.PriorityService,
	autoClose *service.AutoCloseService,
) *AdminHandler {
	return &AdminHandler{
		categories: categories,
		sheds:      sheds,
		customers:  customers,
		reports:    reports,
		priority:   priority,
		autoClose:  autoClose,
	}
}

// ListCategories handles GET /api/v1/catalog
func (h *AdminHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	entries, err := h.categories.ListEntries()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal error", "Failed to load catalog")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"error": false,
		"data":  entries,
	})
}

// CreateCategory handles POST /api/v1/admin/catalog
func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req models.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}
	if fields := validators.ValidateStruct(&req); fields != nil {
		respondWithValidationError(w, fields)
		return
	}

	entry := &models.CategoryEntry{
		Category: req.Category,
		Type:     req.Type,
		SubType:  req.SubType,
	}
	if err := h.categories.CreateEntry(entry); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal error", "Failed to create catalog entry")
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"error":    false,
		"entry_id": entry.EntryID,
	})
}

// DeleteCategory handles DELETE /api/v1/admin/catalog/{id}
func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid catalog entry id")
		return
	}
	if err := h.categories.DeleteEntry(id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			respondWithError(w, http.StatusNotFound, "Not found", "Catalog entry not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal error", "Failed to delete catalog entry")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"error":   false,
		"message": "Catalog entry deleted",
	})
}

// ListSheds handles GET /api/v1/sheds
func (h *AdminHandler) ListSheds(w http.ResponseWriter, r *http.Request) {
	sheds, err := h.sheds.ListSheds()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal error", "Failed to load sheds")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"error": false,
		"data":  sheds,
	})
}

// ListCustomers handles GET /api/v1/admin/customers
func (h *AdminHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.ListCustomers()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal error", "Failed to load customers")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"error": false,
		"data":  customers,
	})
}

// DeleteCustomer handles DELETE /api/v1/admin/customers/{id}
func (h *AdminHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid customer id")
		return
	}
	if err := h.customers.DeleteCustomer(id); err != nil {
		switch {
		case errors.Is(err, repository.ErrCustomerNotFound):
			respondWithError(w, http.StatusNotFound, "Not found", "Customer not found")
		case errors.Is(err, repository.ErrCustomerHasComplaints):
			respondWithError(w, http.StatusConflict, "Conflict", "Customer has complaints on record and cannot be deleted")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal error", "Failed to delete customer")
		}
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"error":   false,
		"message": "Customer deleted",
	})
}

// GetReportSummary handles GET /api/v1/admin/reports/summary
func (h *AdminHandler) GetReportSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reports.Summary()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal error", "Failed to build report")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"error": false,
		"data":  summary,
	})
}

// RunPrioritySweep handles POST /api/v1/admin/sweeps/priority
func (h *AdminHandler) RunPrioritySweep(w http.ResponseWriter, r *http.Request) {
	updated, err := h.priority.RunPrioritySweep()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal error", "Priority sweep failed")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"error": false,
		"data":  models.SweepResult{Updated: updated},
	})
}

// RunAutoCloseSweep handles POST /api/v1/admin/sweeps/auto-close
func (h *AdminHandler) RunAutoCloseSweep(w http.ResponseWriter, r *http.Request) {
	closed, err := h.autoClose.RunAutoCloseSweep()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal error", "Auto-close sweep failed")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"error": false,
		"data":  models.SweepResult{Updated: closed},
	})
}
