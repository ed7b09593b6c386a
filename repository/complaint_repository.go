package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"railgriev/models"
)

// ErrComplaintNotFound is returned when a complaint lookup matches no row
var ErrComplaintNotFound = errors.New("complaint not found")

// ComplaintRepository handles database operations for complaints
type ComplaintRepository struct {
	db *sql.DB
}

// NewComplaintRepository creates a new complaint repository
func NewComplaintRepository(db *sql.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

const complaintColumns = `
	complaint_id, complaint_number, customer_id, category, type, subtype,
	description, department, assigned_to, shed_code, division, zone,
	status, priority, forwarded_flag, awaiting_approval_flag,
	action_taken, rating, rating_remarks, rejection_reason,
	created_at, updated_at`

// GenerateComplaintNumber generates a unique complaint number.
// Format: CMP + yyyymmdd + 4 random digits, retried on the rare collision.
func (r *ComplaintRepository) GenerateComplaintNumber() (string, error) {
	datePrefix := time.Now().UTC().Format("20060102")
	for attempt := 0; attempt < 10; attempt++ {
		number := fmt.Sprintf("CMP%s%04d", datePrefix, rand.Intn(10000))
		var count int
		err := r.db.QueryRow(`SELECT COUNT(*) FROM complaints WHERE complaint_number = ?`, number).Scan(&count)
		if err != nil {
			return "", fmt.Errorf("failed to check complaint number: %w", err)
		}
		if count == 0 {
			return number, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique complaint number")
}

// CreateComplaint inserts a new complaint and fills in its generated ID
func (r *ComplaintRepository) CreateComplaint(c *models.Complaint) error {
	query := `
		INSERT INTO complaints (
			complaint_number, customer_id, category, type, subtype, description,
			department, assigned_to, shed_code, division, zone,
			status, priority, forwarded_flag, awaiting_approval_flag
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.Exec(
		query,
		c.ComplaintNumber,
		c.CustomerID,
		c.Category,
		c.Type,
		c.SubType,
		c.Description,
		c.Department,
		c.AssignedTo,
		c.ShedCode,
		c.Division,
		c.Zone,
		c.Status,
		c.Priority,
		c.ForwardedFlag,
		c.AwaitingFlag,
	)
	if err != nil {
		return fmt.Errorf("failed to create complaint: %w", err)
	}

	complaintID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get complaint ID: %w", err)
	}
	c.ComplaintID = complaintID
	return nil
}

func scanComplaint(row interface{ Scan(...interface{}) error }) (*models.Complaint, error) {
	var c models.Complaint
	err := row.Scan(
		&c.ComplaintID, &c.ComplaintNumber, &c.CustomerID,
		&c.Category, &c.Type, &c.SubType,
		&c.Description, &c.Department, &c.AssignedTo,
		&c.ShedCode, &c.Division, &c.Zone,
		&c.Status, &c.Priority, &c.ForwardedFlag, &c.AwaitingFlag,
		&c.ActionTaken, &c.Rating, &c.RatingRemarks, &c.RejectionReason,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetComplaintByNumber retrieves a complaint by its public number
func (r *ComplaintRepository) GetComplaintByNumber(number string) (*models.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE complaint_number = ?`
	c, err := scanComplaint(r.db.QueryRow(query, number))
	if err == sql.ErrNoRows {
		return nil, ErrComplaintNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get complaint: %w", err)
	}
	return c, nil
}

// GetComplaintsByCustomerID retrieves all complaints for a customer, newest first
func (r *ComplaintRepository) GetComplaintsByCustomerID(customerID int64) ([]models.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE customer_id = ? ORDER BY created_at DESC`
	rows, err := r.db.Query(query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query complaints: %w", err)
	}
	defer rows.Close()
	return collectComplaints(rows)
}

func collectComplaints(rows *sql.Rows) ([]models.Complaint, error) {
	var complaints []models.Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan complaint: %w", err)
		}
		complaints = append(complaints, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating complaints: %w", err)
	}
	return complaints, nil
}

// ComplaintFilter is the typed replacement for ad hoc filter-string
// concatenation. Each set field maps to exactly one parameterized predicate.
type ComplaintFilter struct {
	Status     *models.ComplaintStatus
	Priority   *models.Priority
	Category   *string
	AssignedTo *string // matches staff login OR department code
	Division   *string // expands to: division = ? OR division = 'HQ' OR division IS NULL
	From       *time.Time
	To         *time.Time
}

// predicates builds the WHERE clause and its arguments
func (f ComplaintFilter) predicates() (string, []interface{}) {
	var conds []string
	var args []interface{}
	if f.Status != nil {
		conds = append(conds, "status = ?")
		args = append(args, *f.Status)
	}
	if f.Priority != nil {
		conds = append(conds, "priority = ?")
		args = append(args, *f.Priority)
	}
	if f.Category != nil {
		conds = append(conds, "category = ?")
		args = append(args, *f.Category)
	}
	if f.AssignedTo != nil {
		conds = append(conds, "assigned_to = ?")
		args = append(args, *f.AssignedTo)
	}
	if f.Division != nil {
		// Preserved verbatim from the legacy division-restriction rule:
		// HQ and unscoped complaints are visible to every division.
		conds = append(conds, "(division = ? OR division = 'HQ' OR division IS NULL)")
		args = append(args, *f.Division)
	}
	if f.From != nil {
		conds = append(conds, "created_at >= ?")
		args = append(args, *f.From)
	}
	if f.To != nil {
		conds = append(conds, "created_at <= ?")
		args = append(args, *f.To)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// SearchWithFilters returns complaints matching the filter, newest first
func (r *ComplaintRepository) SearchWithFilters(f ComplaintFilter) ([]models.Complaint, error) {
	where, args := f.predicates()
	query := `SELECT ` + complaintColumns + ` FROM complaints` + where + ` ORDER BY created_at DESC`
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search complaints: %w", err)
	}
	defer rows.Close()
	return collectComplaints(rows)
}

// CountWithFilters returns the number of complaints matching the filter
func (r *ComplaintRepository) CountWithFilters(f ComplaintFilter) (int, error) {
	where, args := f.predicates()
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM complaints`+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count complaints: %w", err)
	}
	return count, nil
}

// UpdateState writes a new lifecycle state. All state columns are written
// together from the tagged union so flags and assignee can never drift from
// the status. Single statement; last writer wins.
func (r *ComplaintRepository) UpdateState(complaintID int64, state models.ComplaintState) error {
	cols := state.Columns()
	query := `
		UPDATE complaints
		SET status = ?,
			forwarded_flag = ?,
			awaiting_approval_flag = ?,
			assigned_to = ?,
			action_taken = COALESCE(?, action_taken),
			rejection_reason = COALESCE(?, rejection_reason),
			rating = COALESCE(?, rating),
			rating_remarks = COALESCE(?, rating_remarks),
			updated_at = NOW()
		WHERE complaint_id = ?
	`
	result, err := r.db.Exec(
		query,
		cols.Status,
		cols.ForwardedFlag,
		cols.AwaitingFlag,
		cols.AssignedTo,
		cols.ActionTaken,
		cols.Reason,
		cols.Rating,
		cols.RatingRemarks,
		complaintID,
	)
	if err != nil {
		return fmt.Errorf("failed to update complaint state: %w", err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return ErrComplaintNotFound
	}
	return nil
}

// UpdatePriority persists a recomputed priority without touching status or flags
func (r *ComplaintRepository) UpdatePriority(complaintID int64, priority models.Priority) error {
	_, err := r.db.Exec(
		`UPDATE complaints SET priority = ?, updated_at = NOW() WHERE complaint_id = ?`,
		priority,
		complaintID,
	)
	if err != nil {
		return fmt.Errorf("failed to update complaint priority: %w", err)
	}
	return nil
}

// SweepCandidate is the projection the sweep jobs operate on
type SweepCandidate struct {
	ComplaintID     int64
	ComplaintNumber string
	Status          models.ComplaintStatus
	Priority        models.Priority
	Rating          sql.NullInt64
	CreatedAt       time.Time
}

// GetPrioritySweepCandidates returns open complaints whose priority may need
// recomputation (status Pending or Replied).
func (r *ComplaintRepository) GetPrioritySweepCandidates() ([]SweepCandidate, error) {
	query := `
		SELECT complaint_id, complaint_number, status, priority, rating, created_at
		FROM complaints
		WHERE status IN (?, ?)
	`
	rows, err := r.db.Query(query, models.StatusPending, models.StatusReplied)
	if err != nil {
		return nil, fmt.Errorf("failed to query priority sweep candidates: %w", err)
	}
	defer rows.Close()
	return collectCandidates(rows)
}

// GetAutoCloseCandidates returns replied complaints older than the cutoff
// with no customer rating.
func (r *ComplaintRepository) GetAutoCloseCandidates(cutoff time.Time) ([]SweepCandidate, error) {
	query := `
		SELECT complaint_id, complaint_number, status, priority, rating, created_at
		FROM complaints
		WHERE status = ?
			AND created_at <= ?
			AND (rating IS NULL OR rating = 0)
	`
	rows, err := r.db.Query(query, models.StatusReplied, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query auto-close candidates: %w", err)
	}
	defer rows.Close()
	return collectCandidates(rows)
}

func collectCandidates(rows *sql.Rows) ([]SweepCandidate, error) {
	var candidates []SweepCandidate
	for rows.Next() {
		var c SweepCandidate
		if err := rows.Scan(&c.ComplaintID, &c.ComplaintNumber, &c.Status, &c.Priority, &c.Rating, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sweep candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sweep candidates: %w", err)
	}
	return candidates, nil
}

// CountGroupedBy returns complaint counts grouped by the given column.
// Only whitelisted columns are accepted; anything else is an error.
func (r *ComplaintRepository) CountGroupedBy(column string) (map[string]int, error) {
	switch column {
	case "status", "priority", "department":
	default:
		return nil, fmt.Errorf("unsupported grouping column %q", column)
	}
	rows, err := r.db.Query(`SELECT ` + column + `, COUNT(*) FROM complaints GROUP BY ` + column)
	if err != nil {
		return nil, fmt.Errorf("failed to count by %s: %w", column, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		counts[key] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating count rows: %w", err)
	}
	return counts, nil
}

// CountByCustomerID returns the number of complaints a customer has filed.
// Used to block customer deletion while complaints reference the account.
func (r *ComplaintRepository) CountByCustomerID(customerID int64) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM complaints WHERE customer_id = ?`, customerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count customer complaints: %w", err)
	}
	return count, nil
}
