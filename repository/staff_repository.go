package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"railgriev/models"
)

// ErrStaffNotFound is returned when a staff lookup matches no row
var ErrStaffNotFound = errors.New("staff user not found")

// StaffRepository handles database operations for staff users
type StaffRepository struct {
	db *sql.DB
}

// NewStaffRepository creates a new staff repository
func NewStaffRepository(db *sql.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

const staffColumns = `
	staff_id, login, name, role, department, division, zone,
	email, password_hash, is_active, created_at`

func scanStaff(row interface{ Scan(...interface{}) error }) (*models.StaffUser, error) {
	var s models.StaffUser
	err := row.Scan(
		&s.StaffID, &s.Login, &s.Name, &s.Role, &s.Department,
		&s.Division, &s.Zone, &s.Email, &s.PasswordHash,
		&s.IsActive, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetStaffByLogin retrieves a staff user by login
func (r *StaffRepository) GetStaffByLogin(login string) (*models.StaffUser, error) {
	query := `SELECT ` + staffColumns + ` FROM staff_users WHERE login = ?`
	s, err := scanStaff(r.db.QueryRow(query, login))
	if err == sql.ErrNoRows {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get staff user: %w", err)
	}
	return s, nil
}

// GetStaffByEmail retrieves a staff user by login email
func (r *StaffRepository) GetStaffByEmail(email string) (*models.StaffUser, error) {
	query := `SELECT ` + staffColumns + ` FROM staff_users WHERE email = ?`
	s, err := scanStaff(r.db.QueryRow(query, email))
	if err == sql.ErrNoRows {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get staff user: %w", err)
	}
	return s, nil
}

// FindActiveController finds an active controller in the given department
// matching division and zone. Returns nil (no error) when nothing matches;
// routing treats that as a fallback, not a failure.
func (r *StaffRepository) FindActiveController(department, division, zone string) (*models.StaffUser, error) {
	query := `SELECT ` + staffColumns + `
		FROM staff_users
		WHERE role = ?
			AND department = ?
			AND division = ?
			AND zone = ?
			AND is_active = TRUE
		LIMIT 1
	`
	s, err := scanStaff(r.db.QueryRow(query, models.RoleController, department, division, zone))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find controller: %w", err)
	}
	return s, nil
}

// FindDepartmentHead finds an active department head for rejection routing.
// Returns nil when the department has none configured.
func (r *StaffRepository) FindDepartmentHead(department string) (*models.StaffUser, error) {
	query := `SELECT ` + staffColumns + `
		FROM staff_users
		WHERE role = ?
			AND department = ?
			AND is_active = TRUE
		LIMIT 1
	`
	s, err := scanStaff(r.db.QueryRow(query, models.RoleDeptHead, department))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find department head: %w", err)
	}
	return s, nil
}
