package service

import (
	"errors"
	"fmt"
	"time"

	"railgriev/models"
	"railgriev/repository"
	"railgriev/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)

// CustomerService handles customer accounts and sessions
type CustomerService struct {
	customers   *repository.CustomerRepository
	jwtSecret   string
	tokenExpiry time.Duration
}

// NewCustomerService creates a new customer service
func NewCustomerService(customers *repository.CustomerRepository, jwtSecret string, tokenExpiry time.Duration) *CustomerService {
	return &CustomerService{
		customers:   customers,
		jwtSecret:   jwtSecret,
		tokenExpiry: tokenExpiry,
	}
}

// Register creates a new customer account with an ED-prefixed customer number
func (s *CustomerService) Register(req *models.RegisterCustomerRequest) (*models.Customer, error) {
	existing, err := s.customers.GetCustomerByEmail(req.Email)
	if err != nil && !errors.Is(err, repository.ErrCustomerNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	number, err := s.customers.GenerateCustomerNumber()
	if err != nil {
		return nil, fmt.Errorf("failed to generate customer number: %w", err)
	}
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	customer := &models.Customer{
		CustomerNumber: number,
		Name:           req.Name,
		Email:          req.Email,
		MobileNumber:   req.MobileNumber,
		PasswordHash:   hash,
		Role:           "customer",
	}
	if req.CompanyName != "" {
		customer.CompanyName.String = req.CompanyName
		customer.CompanyName.Valid = true
	}
	if req.Designation != "" {
		customer.Designation.String = req.Designation
		customer.Designation.Valid = true
	}

	if err := s.customers.CreateCustomer(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// Login verifies credentials and issues a customer session token
func (s *CustomerService) Login(req *models.LoginRequest) (string, *models.Customer, error) {
	customer, err := s.customers.GetCustomerByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !utils.CheckPassword(req.Password, customer.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateCustomerToken(customer, s.jwtSecret, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, customer, nil
}

// GetProfile returns the customer's own account record
func (s *CustomerService) GetProfile(customerID int64) (*models.Customer, error) {
	return s.customers.GetCustomerByID(customerID)
}

// UpdateProfile updates the editable profile fields. Email is immutable.
func (s *CustomerService) UpdateProfile(customerID int64, req *models.UpdateProfileRequest) (*models.Customer, error) {
	if err := s.customers.UpdateProfile(customerID, req.Name, req.CompanyName, req.MobileNumber, req.Designation); err != nil {
		return nil, err
	}
	return s.customers.GetCustomerByID(customerID)
}

// ListCustomers returns all customer accounts (admin only)
func (s *CustomerService) ListCustomers() ([]models.Customer, error) {
	return s.customers.ListCustomers()
}

// DeleteCustomer removes an account that has no complaints on record
func (s *CustomerService) DeleteCustomer(customerID int64) error {
	return s.customers.DeleteCustomer(customerID)
}
