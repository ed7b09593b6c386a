package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"railgriev/handler"
	"railgriev/middleware"
	"railgriev/models"
)

// SetupRoutes configures all API routes
func SetupRoutes(
	complaintHandler *handler.ComplaintHandler,
	customerHandler *handler.CustomerHandler,
	staffHandler *handler.StaffHandler,
	adminHandler *handler.AdminHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	router := mux.NewRouter()

	apiV1 := router.PathPrefix("/api/v1").Subrouter()

	// Public routes
	apiV1.HandleFunc("/customers/register", customerHandler.Register).Methods("POST")
	apiV1.HandleFunc("/customers/login", customerHandler.Login).Methods("POST")
	apiV1.HandleFunc("/staff/login", staffHandler.Login).Methods("POST")
	apiV1.HandleFunc("/catalog", adminHandler.ListCategories).Methods("GET")
	apiV1.HandleFunc("/sheds", adminHandler.ListSheds).Methods("GET")

	// Customer routes (customer token required)
	customer := apiV1.NewRoute().Subrouter()
	customer.Use(authMiddleware.RequireCustomer)
	customer.HandleFunc("/customers/profile", customerHandler.GetProfile).Methods("GET")
	customer.HandleFunc("/customers/profile", customerHandler.UpdateProfile).Methods("PUT")
	customer.HandleFunc("/complaints", complaintHandler.SubmitComplaint).Methods("POST")
	customer.HandleFunc("/complaints", complaintHandler.GetMyComplaints).Methods("GET")
	customer.HandleFunc("/complaints/{number}", complaintHandler.GetComplaintDetail).Methods("GET")
	customer.HandleFunc("/complaints/{number}/resubmit", complaintHandler.ResubmitComplaint).Methods("POST")
	customer.HandleFunc("/complaints/{number}/feedback", complaintHandler.SubmitFeedback).Methods("POST")
	customer.HandleFunc("/complaints/{number}/evidence", complaintHandler.UploadEvidence).Methods("POST")

	// Staff routes (any staff role)
	staff := apiV1.PathPrefix("/staff").Subrouter()
	staff.Use(authMiddleware.RequireStaff())
	staff.HandleFunc("/complaints", staffHandler.GetQueue).Methods("GET")
	staff.HandleFunc("/complaints/{number}", staffHandler.GetComplaintDetail).Methods("GET")
	staff.HandleFunc("/complaints/{number}/forward", staffHandler.Forward).Methods("POST")
	staff.HandleFunc("/complaints/{number}/reply", staffHandler.Reply).Methods("POST")
	staff.HandleFunc("/complaints/{number}/close", staffHandler.Close).Methods("POST")
	staff.HandleFunc("/complaints/{number}/revert", staffHandler.Revert).Methods("POST")
	staff.HandleFunc("/complaints/{number}/remarks", staffHandler.AddRemark).Methods("POST")
	// Approve/reject additionally require a department-head or admin role;
	// the lifecycle service enforces that.
	staff.HandleFunc("/complaints/{number}/approve", staffHandler.Approve).Methods("POST")
	staff.HandleFunc("/complaints/{number}/reject", staffHandler.Reject).Methods("POST")

	// Admin routes
	admin := apiV1.PathPrefix("/admin").Subrouter()
	admin.Use(authMiddleware.RequireStaff(models.RoleAdmin))
	admin.HandleFunc("/catalog", adminHandler.CreateCategory).Methods("POST")
	admin.HandleFunc("/catalog/{id}", adminHandler.DeleteCategory).Methods("DELETE")
	admin.HandleFunc("/customers", adminHandler.ListCustomers).Methods("GET")
	admin.HandleFunc("/customers/{id}", adminHandler.DeleteCustomer).Methods("DELETE")
	admin.HandleFunc("/reports/summary", adminHandler.GetReportSummary).Methods("GET")
	admin.HandleFunc("/sweeps/priority", adminHandler.RunPrioritySweep).Methods("POST")
	admin.HandleFunc("/sweeps/auto-close", adminHandler.RunAutoCloseSweep).Methods("POST")

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return router
}
