package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"railgriev/models"
)

var (
	// ErrCustomerNotFound is returned when a customer lookup matches no row
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrCustomerHasComplaints blocks deletion while complaints reference the account
	ErrCustomerHasComplaints = errors.New("customer has complaints and cannot be deleted")
)

// CustomerRepository handles database operations for customer accounts
type CustomerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

const customerColumns = `
	customer_id, customer_number, name, company_name, email,
	mobile_number, designation, password_hash, role, created_at, updated_at`

// GenerateCustomerNumber generates a unique customer number.
// Format: ED + yyyymmdd + 2 random digits, retried on collision.
func (r *CustomerRepository) GenerateCustomerNumber() (string, error) {
	datePrefix := time.Now().UTC().Format("20060102")
	for attempt := 0; attempt < 20; attempt++ {
		number := fmt.Sprintf("ED%s%02d", datePrefix, rand.Intn(100))
		var count int
		err := r.db.QueryRow(`SELECT COUNT(*) FROM customers WHERE customer_number = ?`, number).Scan(&count)
		if err != nil {
			return "", fmt.Errorf("failed to check customer number: %w", err)
		}
		if count == 0 {
			return number, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique customer number")
}

// CreateCustomer inserts a new customer and fills in its generated ID
func (r *CustomerRepository) CreateCustomer(c *models.Customer) error {
	query := `
		INSERT INTO customers (
			customer_number, name, company_name, email,
			mobile_number, designation, password_hash, role
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.Exec(
		query,
		c.CustomerNumber,
		c.Name,
		c.CompanyName,
		c.Email,
		c.MobileNumber,
		c.Designation,
		c.PasswordHash,
		c.Role,
	)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	customerID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get customer ID: %w", err)
	}
	c.CustomerID = customerID
	return nil
}

func scanCustomer(row interface{ Scan(...interface{}) error }) (*models.Customer, error) {
	var c models.Customer
	err := row.Scan(
		&c.CustomerID, &c.CustomerNumber, &c.Name, &c.CompanyName, &c.Email,
		&c.MobileNumber, &c.Designation, &c.PasswordHash, &c.Role,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetCustomerByID retrieves a customer by primary key
func (r *CustomerRepository) GetCustomerByID(customerID int64) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE customer_id = ?`
	c, err := scanCustomer(r.db.QueryRow(query, customerID))
	if err == sql.ErrNoRows {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return c, nil
}

// GetCustomerByEmail retrieves a customer by login email
func (r *CustomerRepository) GetCustomerByEmail(email string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE email = ?`
	c, err := scanCustomer(r.db.QueryRow(query, email))
	if err == sql.ErrNoRows {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return c, nil
}

// ListCustomers returns all customers, newest first
func (r *CustomerRepository) ListCustomers() ([]models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY created_at DESC`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customers: %w", err)
	}
	return customers, nil
}

// UpdateProfile updates the editable profile fields
func (r *CustomerRepository) UpdateProfile(customerID int64, name, companyName, mobileNumber, designation string) error {
	query := `
		UPDATE customers
		SET name = ?, company_name = ?, mobile_number = ?, designation = ?, updated_at = NOW()
		WHERE customer_id = ?
	`
	result, err := r.db.Exec(query, name, companyName, mobileNumber, designation, customerID)
	if err != nil {
		return fmt.Errorf("failed to update customer profile: %w", err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

// DeleteCustomer removes a customer account. Deletion is blocked while any
// complaint references the customer.
func (r *CustomerRepository) DeleteCustomer(customerID int64) error {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM complaints WHERE customer_id = ?`, customerID).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check customer complaints: %w", err)
	}
	if count > 0 {
		return ErrCustomerHasComplaints
	}

	result, err := r.db.Exec(`DELETE FROM customers WHERE customer_id = ?`, customerID)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}
