package repository

import (
	"database/sql"
	"fmt"

	"railgriev/models"
)

// ShedRepository looks up sheds and their division/zone for routing
type ShedRepository struct {
	db *sql.DB
}

// NewShedRepository creates a new shed repository
func NewShedRepository(db *sql.DB) *ShedRepository {
	return &ShedRepository{db: db}
}

// GetShedByCode retrieves an active shed by its code. Returns nil (no error)
// when the code is unknown or inactive; routing falls back to the default.
func (r *ShedRepository) GetShedByCode(code string) (*models.Shed, error) {
	query := `
		SELECT shed_id, shed_code, name, division, zone, is_active
		FROM sheds
		WHERE shed_code = ? AND is_active = TRUE
	`
	var s models.Shed
	err := r.db.QueryRow(query, code).Scan(
		&s.ShedID, &s.ShedCode, &s.Name, &s.Division, &s.Zone, &s.IsActive,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shed: %w", err)
	}
	return &s, nil
}

// ListSheds returns all active sheds for form population
func (r *ShedRepository) ListSheds() ([]models.Shed, error) {
	rows, err := r.db.Query(`SELECT shed_id, shed_code, name, division, zone, is_active FROM sheds WHERE is_active = TRUE ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sheds: %w", err)
	}
	defer rows.Close()

	var sheds []models.Shed
	for rows.Next() {
		var s models.Shed
		if err := rows.Scan(&s.ShedID, &s.ShedCode, &s.Name, &s.Division, &s.Zone, &s.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan shed: %w", err)
		}
		sheds = append(sheds, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sheds: %w", err)
	}
	return sheds, nil
}
