package repository

import (
	"database/sql"
	"fmt"

	"railgriev/models"
)

// MailLogRepository records every outbound mail attempt in notifications_log
type MailLogRepository struct {
	db *sql.DB
}

// NewMailLogRepository creates a new mail log repository
func NewMailLogRepository(db *sql.DB) *MailLogRepository {
	return &MailLogRepository{db: db}
}

// CreateMailLog inserts one mail log entry
func (r *MailLogRepository) CreateMailLog(m *models.MailLog) error {
	query := `
		INSERT INTO notifications_log (
			complaint_id, mail_type, recipient, subject, body, status, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.Exec(
		query,
		m.ComplaintID,
		m.MailType,
		m.Recipient,
		m.Subject,
		m.Body,
		m.Status,
		m.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to create mail log: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get mail log ID: %w", err)
	}
	m.ID = id
	return nil
}
