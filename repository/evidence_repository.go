package repository

import (
	"database/sql"
	"fmt"

	"railgriev/models"
)

// EvidenceRepository stores one evidence image per complaint; re-upload
// overwrites the existing record.
type EvidenceRepository struct {
	db *sql.DB
}

// NewEvidenceRepository creates a new evidence repository
func NewEvidenceRepository(db *sql.DB) *EvidenceRepository {
	return &EvidenceRepository{db: db}
}

// CreateOrUpdate upserts the evidence record for a complaint
func (r *EvidenceRepository) CreateOrUpdate(e *models.Evidence) error {
	query := `
		INSERT INTO complaint_evidence (complaint_id, file_name, file_path, mime_type, file_size)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			file_name = VALUES(file_name),
			file_path = VALUES(file_path),
			mime_type = VALUES(mime_type),
			file_size = VALUES(file_size)
	`
	_, err := r.db.Exec(query, e.ComplaintID, e.FileName, e.FilePath, e.MimeType, e.FileSize)
	if err != nil {
		return fmt.Errorf("failed to save evidence: %w", err)
	}
	return nil
}

// GetByComplaintID returns the evidence record, or nil when none exists
func (r *EvidenceRepository) GetByComplaintID(complaintID int64) (*models.Evidence, error) {
	query := `
		SELECT evidence_id, complaint_id, file_name, file_path, mime_type, file_size, created_at
		FROM complaint_evidence
		WHERE complaint_id = ?
	`
	var e models.Evidence
	err := r.db.QueryRow(query, complaintID).Scan(
		&e.EvidenceID, &e.ComplaintID, &e.FileName, &e.FilePath, &e.MimeType, &e.FileSize, &e.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get evidence: %w", err)
	}
	return &e, nil
}
