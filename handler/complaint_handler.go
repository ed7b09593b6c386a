package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"railgriev/middleware"
	"railgriev/models"
	"railgriev/repository"
	"railgriev/service"
	"railgriev/validators"
)

const maxEvidenceSize = 5 << 20 // 5 MB

// ComplaintHandler handles customer-facing complaint requests
type ComplaintHandler struct {
	service        *service.ComplaintService
	complaintRepo  *repository.ComplaintRepository
	evidenceRepo   *repository.EvidenceRepository
	uploadBasePath string
}

// NewComplaintHandler creates a new complaint handler
func NewComplaintHandler(
	svc *service.ComplaintService,
	complaintRepo *repository.ComplaintRepository,
	evidenceRepo *repository.EvidenceRepository,
) *ComplaintHandler {
	basePath := os.Getenv("UPLOAD_BASE_PATH")
	if basePath == "" {
		basePath = "uploads"
	}
	return &ComplaintHandler{
		service:        svc,
		complaintRepo:  complaintRepo,
		evidenceRepo:   evidenceRepo,
		uploadBasePath: basePath,
	}
}

// SubmitComplaint handles POST /api/v1/complaints
func (h *ComplaintHandler) SubmitComplaint(w http.ResponseWriter, r *http.Request) {
	rctx, ok := middleware.GetRequestContext(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Session not found in context")
		return
	}

	var req models.SubmitComplaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}
	if fields := validators.ValidateStruct(&req); fields != nil {
		respondWithValidationError(w, fields)
		return
	}

	complaint, err := h.service.Submit(rctx, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCategory) {
			respondWithError(w, http.StatusBadRequest, "Validation error", "Unknown category/type/subtype combination")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal error", "Failed to register complaint")
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"error":            false,
		"message":          "Complaint registered successfully",
		"complaint_number": complaint.ComplaintNumber,
		"status":           complaint.Status,
	})
}

// GetMyComplaints handles GET /api/v1/complaints
func (h *ComplaintHandler) GetMyComplaints(w http.ResponseWriter, r *http.Request) {
	rctx, ok := middleware.GetRequestContext(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Session not found in context")
		return
	}

	summaries, err := h.service.GetCustomerComplaints(rctx.CustomerID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal error", "Failed to load complaints")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"error": false,
		"data":  summaries,
	})
}

// GetComplaintDetail handles GET /api/v1/complaints/{number}
func (h *ComplaintHandler) GetComplaintDetail(w http.ResponseWriter, r *http.Request) {
	rctx, ok := middleware.GetRequestContext(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Session not found in context")
		return
	}
	number := mux.Vars(r)["number"]

	detail, err := h.service.GetDetail(rctx, number)
	if err != nil {
		respondWithComplaintError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"error": false,
		"data":  detail,
	})
}

// ResubmitComplaint handles POST /api/v1/complaints/{number}/resubmit
func (h *ComplaintHandler) ResubmitComplaint(w http.ResponseWriter, r *http.Request) {
	rctx, ok := middleware.GetRequestContext(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Session not found in context")
		return
	}
	number := mux.Vars(r)["number"]

	if err := h.service.Resubmit(rctx, number); err != nil {
		respondWithComplaintError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"error":   false,
		"message": "Complaint resubmitted",
	})
}

// SubmitFeedback handles POST /api/v1/complaints/{number}/feedback
func (h *ComplaintHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	rctx, ok := middleware.GetRequestContext(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Session not found in context")
		return
	}
	number := mux.Vars(r)["number"]

	var req models.FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}
	if fields := validators.ValidateStruct(&req); fields != nil {
		respondWithValidationError(w, fields)
		return
	}

	if err := h.service.SubmitFeedback(rctx, number, &req); err != nil {
		respondWithComplaintError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"error":   false,
		"message": "Feedback recorded, complaint closed",
	})
}

// UploadEvidence handles POST /api/v1/complaints/{number}/evidence.
// One image per complaint; a second upload replaces the first.
func (h *ComplaintHandler) UploadEvidence(w http.ResponseWriter, r *http.Request) {
	rctx, ok := middleware.GetRequestContext(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Session not found in context")
		return
	}
	number := mux.Vars(r)["number"]

	complaint, err := h.complaintRepo.GetComplaintByNumber(number)
	if err != nil {
		respondWithComplaintError(w, err)
		return
	}
	if complaint.CustomerID != rctx.CustomerID {
		respondWithError(w, http.StatusForbidden, "Forbidden", "Complaint does not belong to caller")
		return
	}

	if err := r.ParseMultipartForm(maxEvidenceSize); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "File too large or malformed upload")
		return
	}
	file, header, err := r.FormFile("evidence")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Missing 'evidence' file field")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png":
	default:
		respondWithError(w, http.StatusBadRequest, "Validation error", "Only JPG and PNG images are accepted")
		return
	}

	fileName := uuid.New().String() + ext
	dir := filepath.Join(h.uploadBasePath, "evidence")
	if err := os.MkdirAll(dir, 0755); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal error", "Failed to store file")
		return
	}
	fullPath := filepath.Join(dir, fileName)
	dst, err := os.Create(fullPath)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal error", "Failed to store file")
		return
	}
	defer dst.Close()

	size, err := io.Copy(dst, io.LimitReader(file, maxEvidenceSize+1))
	if err != nil || size > maxEvidenceSize {
		os.Remove(fullPath)
		respondWithError(w, http.StatusBadRequest, "Validation error", fmt.Sprintf("File exceeds %d bytes", maxEvidenceSize))
		return
	}

	evidence := &models.Evidence{
		ComplaintID: complaint.ComplaintID,
		FileName:    fileName,
		FilePath:    fullPath,
		MimeType:    header.Header.Get("Content-Type"),
		FileSize:    size,
	}
	if err := h.evidenceRepo.CreateOrUpdate(evidence); err != nil {
		os.Remove(fullPath)
		respondWithError(w, http.StatusInternalServerError, "Internal error", "Failed to record evidence")
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"error":     false,
		"message":   "Evidence uploaded",
		"file_name": fileName,
	})
}

// respondWithComplaintError maps lifecycle errors onto HTTP statuses
func respondWithComplaintError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrComplaintNotFound):
		respondWithError(w, http.StatusNotFound, "Not found", "Complaint not found")
	case errors.Is(err, service.ErrNotOwner):
		respondWithError(w, http.StatusForbidden, "Forbidden", "Complaint does not belong to caller")
	case errors.Is(err, service.ErrNotHolder):
		respondWithError(w, http.StatusForbidden, "Forbidden", "Complaint is not assigned to caller")
	case errors.Is(err, service.ErrInvalidTransition):
		respondWithError(w, http.StatusConflict, "Conflict", "Operation not valid in the complaint's current status")
	case errors.Is(err, service.ErrApprovalRequired):
		respondWithError(w, http.StatusForbidden, "Forbidden", "Operation requires a department head")
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal error", "Operation failed")
	}
}
