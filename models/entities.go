package models

import (
	"database/sql"
	"time"
)

// ComplaintStatus represents the possible statuses of a complaint
type ComplaintStatus string

const (
	StatusPending          ComplaintStatus = "Pending"
	StatusReplied          ComplaintStatus = "Replied"
	StatusReverted         ComplaintStatus = "Reverted"
	StatusClosed           ComplaintStatus = "Closed"
	StatusAwaitingApproval ComplaintStatus = "awaiting_approval"
)

// Priority represents complaint priority levels
type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// Flag is the Y/N marker used for forwarded_flag and awaiting_approval_flag
type Flag string

const (
	FlagYes Flag = "Y"
	FlagNo  Flag = "N"
)

// TransactionType classifies an audit-log entry
type TransactionType string

const (
	TxnCreate         TransactionType = "create"
	TxnForward        TransactionType = "forward"
	TxnInternalRemark TransactionType = "internal_remark"
	TxnStatusUpdate   TransactionType = "status_update"
	TxnAssignment     TransactionType = "assignment"
	TxnClose          TransactionType = "close"
	TxnApprove        TransactionType = "approve"
	TxnReject         TransactionType = "reject"
	TxnRevert         TransactionType = "revert"
	TxnResubmit       TransactionType = "resubmit"
	TxnAutoClose      TransactionType = "auto_close"
	TxnFeedback       TransactionType = "feedback"
)

// StaffRole identifies a staff user's function
type StaffRole string

const (
	RoleController StaffRole = "controller"
	RoleOfficer    StaffRole = "officer"
	RoleDeptHead   StaffRole = "dept_head"
	RoleAdmin      StaffRole = "admin"
)

// DefaultDepartment is the fallback assignee when routing finds no match.
const DefaultDepartment = "COMMERCIAL"

// Complaint represents a grievance record
type Complaint struct {
	ComplaintID     int64           `db:"complaint_id" json:"complaint_id"`
	ComplaintNumber string          `db:"complaint_number" json:"complaint_number"`
	CustomerID      int64           `db:"customer_id" json:"customer_id"`
	Category        string          `db:"category" json:"category"`
	Type            string          `db:"type" json:"type"`
	SubType         string          `db:"subtype" json:"subtype"`
	Description     string          `db:"description" json:"description"`
	Department      string          `db:"department" json:"department"`
	AssignedTo      sql.NullString  `db:"assigned_to" json:"assigned_to"`
	ShedCode        sql.NullString  `db:"shed_code" json:"shed_code"`
	Division        sql.NullString  `db:"division" json:"division"`
	Zone            sql.NullString  `db:"zone" json:"zone"`
	Status          ComplaintStatus `db:"status" json:"status"`
	Priority        Priority        `db:"priority" json:"priority"`
	ForwardedFlag   Flag            `db:"forwarded_flag" json:"forwarded_flag"`
	AwaitingFlag    Flag            `db:"awaiting_approval_flag" json:"awaiting_approval_flag"`
	ActionTaken     sql.NullString  `db:"action_taken" json:"action_taken"`
	Rating          sql.NullInt64   `db:"rating" json:"rating"`
	RatingRemarks   sql.NullString  `db:"rating_remarks" json:"rating_remarks"`
	RejectionReason sql.NullString  `db:"rejection_reason" json:"rejection_reason"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       sql.NullTime    `db:"updated_at" json:"updated_at"`
}

// Transaction is one immutable audit-log entry for a complaint.
// Rows are only ever inserted; history is read in created_at ASC order.
type Transaction struct {
	TransactionID  int64           `db:"transaction_id" json:"transaction_id"`
	ComplaintID    int64           `db:"complaint_id" json:"complaint_id"`
	Type           TransactionType `db:"transaction_type" json:"transaction_type"`
	FromUser       sql.NullString  `db:"from_user" json:"from_user"`
	ToUser         sql.NullString  `db:"to_user" json:"to_user"`
	FromDepartment sql.NullString  `db:"from_department" json:"from_department"`
	ToDepartment   sql.NullString  `db:"to_department" json:"to_department"`
	Remarks        sql.NullString  `db:"remarks" json:"remarks"`
	CreatedBy      string          `db:"created_by" json:"created_by"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// Customer represents a registered customer account
type Customer struct {
	CustomerID     int64          `db:"customer_id" json:"customer_id"`
	CustomerNumber string         `db:"customer_number" json:"customer_number"`
	Name           string         `db:"name" json:"name"`
	CompanyName    sql.NullString `db:"company_name" json:"company_name"`
	Email          string         `db:"email" json:"email"`
	MobileNumber   string         `db:"mobile_number" json:"mobile_number"`
	Designation    sql.NullString `db:"designation" json:"designation"`
	PasswordHash   string         `db:"password_hash" json:"-"`
	Role           string         `db:"role" json:"role"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      sql.NullTime   `db:"updated_at" json:"updated_at"`
}

// StaffUser represents a departmental user who works complaints
type StaffUser struct {
	StaffID      int64          `db:"staff_id" json:"staff_id"`
	Login        string         `db:"login" json:"login"`
	Name         string         `db:"name" json:"name"`
	Role         StaffRole      `db:"role" json:"role"`
	Department   string         `db:"department" json:"department"`
	Division     sql.NullString `db:"division" json:"division"`
	Zone         sql.NullString `db:"zone" json:"zone"`
	Email        sql.NullString `db:"email" json:"email"`
	PasswordHash string         `db:"password_hash" json:"-"`
	IsActive     bool           `db:"is_active" json:"is_active"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}

// Shed is a physical terminal/yard location tied to a division and zone
type Shed struct {
	ShedID   int64  `db:"shed_id" json:"shed_id"`
	ShedCode string `db:"shed_code" json:"shed_code"`
	Name     string `db:"name" json:"name"`
	Division string `db:"division" json:"division"`
	Zone     string `db:"zone" json:"zone"`
	IsActive bool   `db:"is_active" json:"is_active"`
}

// CategoryEntry is one (Category, Type, SubType) combination from the catalog
type CategoryEntry struct {
	EntryID  int64  `db:"entry_id" json:"entry_id"`
	Category string `db:"category" json:"category"`
	Type     string `db:"type" json:"type"`
	SubType  string `db:"subtype" json:"subtype"`
}

// Evidence is the uploaded image attached to a complaint (one per complaint,
// overwrite allowed)
type Evidence struct {
	EvidenceID  int64     `db:"evidence_id" json:"evidence_id"`
	ComplaintID int64     `db:"complaint_id" json:"complaint_id"`
	FileName    string    `db:"file_name" json:"file_name"`
	FilePath    string    `db:"file_path" json:"file_path"`
	MimeType    string    `db:"mime_type" json:"mime_type"`
	FileSize    int64     `db:"file_size" json:"file_size"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// MailType classifies an outbound notification mail
type MailType string

const (
	MailAssignment MailType = "assignment"
	MailClosure    MailType = "closure"
)

// MailLog records each outbound mail attempt (sent, failed or skipped)
type MailLog struct {
	ID           int64          `db:"id" json:"id"`
	ComplaintID  int64          `db:"complaint_id" json:"complaint_id"`
	MailType     MailType       `db:"mail_type" json:"mail_type"`
	Recipient    string         `db:"recipient" json:"recipient"`
	Subject      string         `db:"subject" json:"subject"`
	Body         string         `db:"body" json:"body"`
	Status       string         `db:"status" json:"status"` // sent | failed | skipped
	ErrorMessage sql.NullString `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}
