package service

import (
	"errors"
	"fmt"
	"time"

	"railgriev/models"
	"railgriev/repository"
	"railgriev/utils"
)

// StaffService handles staff authentication
type StaffService struct {
	staff       *repository.StaffRepository
	jwtSecret   string
	tokenExpiry time.Duration
}

// NewStaffService creates a new staff service
func NewStaffService(staff *repository.StaffRepository, jwtSecret string, tokenExpiry time.Duration) *StaffService {
	return &StaffService{
		staff:       staff,
		jwtSecret:   jwtSecret,
		tokenExpiry: tokenExpiry,
	}
}

// Login verifies staff credentials and issues a staff session token
func (s *StaffService) Login(req *models.LoginRequest) (string, *models.StaffUser, error) {
	staff, err := s.staff.GetStaffByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrStaffNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !staff.IsActive {
		return "", nil, ErrInvalidCredentials
	}
	if !utils.CheckPassword(req.Password, staff.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateStaffToken(staff, s.jwtSecret, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, staff, nil
}
