package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"railgriev/middleware"
	"railgriev/models"
	"railgriev/service"
	"railgriev/validators"
)

// StaffHandler handles staff-side complaint operations
type StaffHandler struct {
	complaints *service.ComplaintService
	staff      *service.StaffService
}

// NewStaffHandler creates a new staff handler
func NewStaffHandler(complaints *service.ComplaintService, staff *service.StaffService) *StaffHandler {
	return &StaffHandler{complaints: complaints, staff: staff}
}

// Login handles POST /api/v1/staff/login
func (h *StaffHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}
	if fields := validators.ValidateStruct(&req); fields != nil {
		respondWithValidationError(w, fields)
		return
	}

	token, staff, err := h.staff.Login(&req)
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
		"staff": map[string]interface{}{
			"login":      staff.Login,
			"name":       staff.Name,
			"role":       staff.Role,
			"department": staff.Department,
		},
	})
}

// GetQueue handles GET /api/v1/staff/complaints?status=Pending
func (h *StaffHandler) GetQueue(w http.ResponseWriter, r *http.Request) {
	rctx, ok := middleware.GetRequestContext(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Session not found in context")
		return
	}

	var status *models.ComplaintStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.ComplaintStatus(raw)
		switch s {
		case models.StatusPending, models.StatusReplied, models.StatusReverted,
			models.StatusClosed, models.StatusAwaitingApproval:
			status = &s
		default:
			respondWithError(w, http.StatusBadRequest, "Validation error", "Unknown status filter")
			return
		}
	}

	summaries, err := h.complaints.GetStaffComplaints(rctx, status)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal error", "Failed to load complaints")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"error": false,
		"data":  summaries,
	})
}

// GetComplaintDetail handles GET /api/v1/staff/complaints/{number}
func (h *StaffHandler) GetComplaintDetail(w http.ResponseWriter, r *http.Request) {
	rctx, ok := middleware.GetRequestContext(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Session not found in context")
		return
	}

	detail, err := h.complaints.GetDetail(rctx, mux.Vars(r)["number"])
	if err != nil {
		respondWithComplaintError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"error": false,
		"data":  detail,
	})
}

// Forward handles POST /api/v1/staff/complaints/{number}/forward
func (h *StaffHandler) Forward(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, func(rctx models.RequestContext, number string) error {
		var req models.ForwardRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return errBadBody
		}
		if fields := validators.ValidateStruct(&req); fields != nil {
			respondWithValidationError(w, fields)
			return errResponded
		}
		return h.complaints.Forward(rctx, number, &req)
	}, "Complaint forwarded")
}

// Reply handles POST /api/v1/staff/complaints/{number}/reply
func (h *StaffHandler) Reply(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, func(rctx models.RequestContext, number string) error {
		var req models.ReplyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return errBadBody
		}
		if fields := validators.ValidateStruct(&req); fields != nil {
			respondWithValidationError(w, fields)
			return errResponded
		}
		return h.complaints.Reply(rctx, number, &req)
	}, "Reply recorded")
}

// Close handles POST /api/v1/staff/complaints/{number}/close
func (h *StaffHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, func(rctx models.RequestContext, number string) error {
		var req models.CloseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return errBadBody
		}
		if fields := validators.ValidateStruct(&req); fields != nil {
			respondWithValidationError(w, fields)
			return errResponded
		}
		return h.complaints.Close(rctx, number, &req)
	}, "Closure proposed, awaiting approval")
}

// Approve handles POST /api/v1/staff/complaints/{number}/approve
func (h *StaffHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, func(rctx models.RequestContext, number string) error {
		var req models.DecisionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return errBadBody
		}
		return h.complaints.Approve(rctx, number, &req)
	}, "Closure approved")
}

// Reject handles POST /api/v1/staff/complaints/{number}/reject
func (h *StaffHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, func(rctx models.RequestContext, number string) error {
		var req models.DecisionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return errBadBody
		}
		return h.complaints.Reject(rctx, number, &req)
	}, "Closure rejected, complaint reverted")
}

// Revert handles POST /api/v1/staff/complaints/{number}/revert
func (h *StaffHandler) Revert(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, func(rctx models.RequestContext, number string) error {
		var req models.RevertRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return errBadBody
		}
		if fields := validators.ValidateStruct(&req); fields != nil {
			respondWithValidationError(w, fields)
			return errResponded
		}
		return h.complaints.Revert(rctx, number, &req)
	}, "Complaint reverted")
}

// AddRemark handles POST /api/v1/staff/complaints/{number}/remarks
func (h *StaffHandler) AddRemark(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, func(rctx models.RequestContext, number string) error {
		var req models.RemarkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return errBadBody
		}
		if fields := validators.ValidateStruct(&req); fields != nil {
			respondWithValidationError(w, fields)
			return errResponded
		}
		return h.complaints.AddRemark(rctx, number, &req)
	}, "Remark added")
}

var (
	errBadBody   = errors.New("bad request body")
	errResponded = errors.New("response already written")
)

// action wraps the shared context/vars/error plumbing of the staff
// lifecycle endpoints.
func (h *StaffHandler) action(w http.ResponseWriter, r *http.Request, fn func(models.RequestContext, string) error, okMessage string) {
	rctx, ok := middleware.GetRequestContext(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Session not found in context")
		return
	}

	err := fn(rctx, mux.Vars(r)["number"])
	switch {
	case err == nil:
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"error":   false,
			"message": okMessage,
		})
	case errors.Is(err, errResponded):
	case errors.Is(err, errBadBody):
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
	default:
		respondWithComplaintError(w, err)
	}
}
