package service

import (
	"fmt"

	"railgriev/models"
	"railgriev/repository"
)

// ReportService builds the dashboard summary from grouped counts
type ReportService struct {
	complaints *repository.ComplaintRepository
}

// NewReportService creates a new report service
func NewReportService(complaints *repository.ComplaintRepository) *ReportService {
	return &ReportService{complaints: complaints}
}

// Summary returns complaint counts grouped by status, priority and department
func (s *ReportService) Summary() (*models.ReportSummary, error) {
	byStatus, err := s.complaints.CountGroupedBy("status")
	if err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}
	byPriority, err := s.complaints.CountGroupedBy("priority")
	if err != nil {
		return nil, fmt.Errorf("failed to count by priority: %w", err)
	}
	byDepartment, err := s.complaints.CountGroupedBy("department")
	if err != nil {
		return nil, fmt.Errorf("failed to count by department: %w", err)
	}

	total := 0
	for _, n := range byStatus {
		total += n
	}
	return &models.ReportSummary{
		ByStatus:     byStatus,
		ByPriority:   byPriority,
		ByDepartment: byDepartment,
		Total:        total,
	}, nil
}
