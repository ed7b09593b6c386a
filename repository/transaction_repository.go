package repository

import (
	"database/sql"
	"fmt"

	"railgriev/models"
)

// TransactionRepository is the write-only audit log for complaint lifecycle
// actions. Entries are appended once and never updated or deleted; reads
// return history in chronological order for display only.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Append inserts one audit entry and returns its generated ID
func (r *TransactionRepository) Append(t *models.Transaction) (int64, error) {
	query := `
		INSERT INTO complaint_transactions (
			complaint_id, transaction_type, from_user, to_user,
			from_department, to_department, remarks, created_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.Exec(
		query,
		t.ComplaintID,
		t.Type,
		t.FromUser,
		t.ToUser,
		t.FromDepartment,
		t.ToDepartment,
		t.Remarks,
		t.CreatedBy,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to append transaction: %w", err)
	}

	transactionID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get transaction ID: %w", err)
	}
	t.TransactionID = transactionID
	return transactionID, nil
}

// HistoryOf returns all transactions for a complaint ordered by created_at
// ascending (transaction_id breaks same-second ties).
func (r *TransactionRepository) HistoryOf(complaintID int64) ([]models.Transaction, error) {
	query := `
		SELECT transaction_id, complaint_id, transaction_type,
			from_user, to_user, from_department, to_department,
			remarks, created_by, created_at
		FROM complaint_transactions
		WHERE complaint_id = ?
		ORDER BY created_at ASC, transaction_id ASC
	`
	rows, err := r.db.Query(query, complaintID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var history []models.Transaction
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(
			&t.TransactionID,
			&t.ComplaintID,
			&t.Type,
			&t.FromUser,
			&t.ToUser,
			&t.FromDepartment,
			&t.ToDepartment,
			&t.Remarks,
			&t.CreatedBy,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		history = append(history, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return history, nil
}
