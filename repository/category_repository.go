package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"railgriev/models"
)

// ErrCategoryNotFound is returned when a catalog entry lookup matches no row
var ErrCategoryNotFound = errors.New("category entry not found")

// CategoryRepository handles the static (Category, Type, SubType) catalog
type CategoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// IsValidCombination reports whether the triple exists in the catalog
func (r *CategoryRepository) IsValidCombination(category, typ, subtype string) (bool, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM category_catalog WHERE category = ? AND type = ? AND subtype = ?`,
		category, typ, subtype,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check category combination: %w", err)
	}
	return count > 0, nil
}

// CreateEntry inserts a catalog entry
func (r *CategoryRepository) CreateEntry(e *models.CategoryEntry) error {
	result, err := r.db.Exec(
		`INSERT INTO category_catalog (category, type, subtype) VALUES (?, ?, ?)`,
		e.Category, e.Type, e.SubType,
	)
	if err != nil {
		return fmt.Errorf("failed to create category entry: %w", err)
	}
	entryID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get entry ID: %w", err)
	}
	e.EntryID = entryID
	return nil
}

// ListEntries returns the whole catalog ordered for display
func (r *CategoryRepository) ListEntries() ([]models.CategoryEntry, error) {
	rows, err := r.db.Query(`SELECT entry_id, category, type, subtype FROM category_catalog ORDER BY category, type, subtype`)
	if err != nil {
		return nil, fmt.Errorf("failed to list category entries: %w", err)
	}
	defer rows.Close()

	var entries []models.CategoryEntry
	for rows.Next() {
		var e models.CategoryEntry
		if err := rows.Scan(&e.EntryID, &e.Category, &e.Type, &e.SubType); err != nil {
			return nil, fmt.Errorf("failed to scan category entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category entries: %w", err)
	}
	return entries, nil
}

// DeleteEntry removes a catalog entry by ID
func (r *CategoryRepository) DeleteEntry(entryID int64) error {
	result, err := r.db.Exec(`DELETE FROM category_catalog WHERE entry_id = ?`, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete category entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
