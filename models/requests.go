package models

import "time"

// RequestContext carries the authenticated actor through handlers and
// services instead of ambient session state. Exactly one of CustomerID or
// StaffLogin is set depending on which middleware admitted the request.
type RequestContext struct {
	CustomerID int64
	StaffLogin string
	StaffRole  StaffRole
	Department string
	Division   string
	IPAddress  string
	UserAgent  string
}

// Actor returns the audit identity for transaction entries
func (c RequestContext) Actor() string {
	if c.StaffLogin != "" {
		return c.StaffLogin
	}
	return "customer"
}

// RegisterCustomerRequest is the self-registration payload
type RegisterCustomerRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=255"`
	CompanyName  string `json:"company_name" validate:"max=255"`
	Email        string `json:"email" validate:"required,email"`
	MobileNumber string `json:"mobile_number" validate:"required,len=10,numeric"`
	Designation  string `json:"designation" validate:"max=100"`
	Password     string `json:"password" validate:"required,min=8"`
}

// LoginRequest is shared by customer and staff login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest is the customer profile-edit payload
type UpdateProfileRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=255"`
	CompanyName  string `json:"company_name" validate:"max=255"`
	MobileNumber string `json:"mobile_number" validate:"required,len=10,numeric"`
	Designation  string `json:"designation" validate:"max=100"`
}

// SubmitComplaintRequest is the complaint submission payload. Department and
// ShedCode are optional routing hints; the resolver applies its defaults.
type SubmitComplaintRequest struct {
	Category    string `json:"category" validate:"required"`
	Type        string `json:"type" validate:"required"`
	SubType     string `json:"subtype" validate:"required"`
	Description string `json:"description" validate:"required,min=10"`
	Department  string `json:"department"`
	ShedCode    string `json:"shed_code"`
}

// ForwardRequest passes a complaint to another department or user
type ForwardRequest struct {
	ToDepartment string `json:"to_department" validate:"required"`
	ToUser       string `json:"to_user"`
	Remarks      string `json:"remarks"`
}

// CloseRequest proposes closure with the action taken; goes to the
// department head for approval.
type CloseRequest struct {
	ActionTaken string `json:"action_taken" validate:"required,min=5"`
	Remarks     string `json:"remarks"`
}

// ReplyRequest records the staff answer sent to the customer
type ReplyRequest struct {
	ActionTaken string `json:"action_taken" validate:"required,min=5"`
}

// DecisionRequest carries an approve/reject decision reason
type DecisionRequest struct {
	Reason string `json:"reason"`
}

// RevertRequest sends a complaint back to a responsible party
type RevertRequest struct {
	ToUser string `json:"to_user" validate:"required"`
	Reason string `json:"reason" validate:"required"`
}

// RemarkRequest appends an internal remark without changing state
type RemarkRequest struct {
	Remarks string `json:"remarks" validate:"required"`
}

// FeedbackRequest is the customer rating on a replied complaint
type FeedbackRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Remarks string `json:"remarks" validate:"max=500"`
}

// CategoryRequest is the admin catalog CRUD payload
type CategoryRequest struct {
	Category string `json:"category" validate:"required,max=100"`
	Type     string `json:"type" validate:"required,max=100"`
	SubType  string `json:"subtype" validate:"required,max=100"`
}

// ComplaintSummary is the list-view projection
type ComplaintSummary struct {
	ComplaintNumber string    `json:"complaint_number"`
	Category        string    `json:"category"`
	Type            string    `json:"type"`
	SubType         string    `json:"subtype"`
	Status          string    `json:"status"`
	Priority        string    `json:"priority"`
	AssignedTo      *string   `json:"assigned_to,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// TransactionView is one history entry in the complaint detail payload
type TransactionView struct {
	TransactionID  int64     `json:"transaction_id"`
	Type           string    `json:"type"`
	FromUser       *string   `json:"from_user,omitempty"`
	ToUser         *string   `json:"to_user,omitempty"`
	FromDepartment *string   `json:"from_department,omitempty"`
	ToDepartment   *string   `json:"to_department,omitempty"`
	Remarks        *string   `json:"remarks,omitempty"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}

// ComplaintDetail is the AJAX view contract:
// {"error": false, "data": {..., "transactions": [...]}}
type ComplaintDetail struct {
	ComplaintNumber string            `json:"complaint_number"`
	Category        string            `json:"category"`
	Type            string            `json:"type"`
	SubType         string            `json:"subtype"`
	Description     string            `json:"description"`
	Department      string            `json:"department"`
	AssignedTo      *string           `json:"assigned_to,omitempty"`
	ShedCode        *string           `json:"shed_code,omitempty"`
	Division        *string           `json:"division,omitempty"`
	Zone            *string           `json:"zone,omitempty"`
	Status          string            `json:"status"`
	Priority        string            `json:"priority"`
	ActionTaken     *string           `json:"action_taken,omitempty"`
	Rating          *int64            `json:"rating,omitempty"`
	RatingRemarks   *string           `json:"rating_remarks,omitempty"`
	RejectionReason *string           `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       *time.Time        `json:"updated_at,omitempty"`
	Transactions    []TransactionView `json:"transactions"`
}

// SweepResult reports how many records a sweep changed
type SweepResult struct {
	Updated int `json:"updated"`
}

// ReportSummary is the dashboard feed: counts grouped three ways
type ReportSummary struct {
	ByStatus     map[string]int `json:"by_status"`
	ByPriority   map[string]int `json:"by_priority"`
	ByDepartment map[string]int `json:"by_department"`
	Total        int            `json:"total"`
}

// ErrorResponse is the uniform error payload
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Code    int               `json:"code"`
	Fields  map[string]string `json:"fields,omitempty"`
}
