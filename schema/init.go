// Package schema: safe database initialization — create only missing tables, never drop or overwrite.

package schema

import (
	"database/sql"
	"log"
)

// InitializeDatabase ensures all tables exist. Checks INFORMATION_SCHEMA.TABLES
// and creates only missing tables, in dependency order. Never drops or
// recreates tables; never removes data.
func InitializeDatabase(db *sql.DB) {
	tables := []struct {
		name   string
		create func(*sql.DB)
	}{
		{"customers", createCustomersTable},
		{"staff_users", createStaffUsersTable},
		{"sheds", createShedsTable},
		{"category_catalog", createCategoryCatalogTable},
		{"complaints", createComplaintsTable},
		{"complaint_transactions", createComplaintTransactionsTable},
		{"complaint_evidence", createComplaintEvidenceTable},
		{"notifications_log", createNotificationsLogTable},
	}

	for _, t := range tables {
		exists, err := tableExists(db, t.name)
		if err != nil {
			log.Fatalf("[SCHEMA] Failed to check if table %s exists: %v", t.name, err)
		}
		if exists {
			log.Printf("[SCHEMA] %s table exists", t.name)
			continue
		}
		t.create(db)
		log.Printf("[SCHEMA] created %s table", t.name)
	}
}

func tableExists(db *sql.DB, name string) (bool, error) {
	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?`,
		name,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func createCustomersTable(db *sql.DB) {
	q := `
CREATE TABLE IF NOT EXISTS customers (
    customer_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    customer_number VARCHAR(20) UNIQUE NOT NULL COMMENT 'Public customer number (ED...)',
    name VARCHAR(255) NOT NULL,
    company_name VARCHAR(255) NULL,
    email VARCHAR(255) UNIQUE NOT NULL,
    mobile_number VARCHAR(15) NOT NULL,
    designation VARCHAR(100) NULL,
    password_hash VARCHAR(255) NOT NULL,
    role VARCHAR(50) NOT NULL DEFAULT 'customer',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NULL,
    INDEX idx_email (email),
    INDEX idx_customer_number (customer_number)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`
	if _, err := db.Exec(q); err != nil {
		log.Fatalf("[SCHEMA] Failed to create table customers: %v", err)
	}
}

func createStaffUsersTable(db *sql.DB) {
	q := `
CREATE TABLE IF NOT EXISTS staff_users (
    staff_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    login VARCHAR(50) UNIQUE NOT NULL,
    name VARCHAR(255) NOT NULL,
    role ENUM('controller', 'officer', 'dept_head', 'admin') NOT NULL,
    department VARCHAR(50) NOT NULL,
    division VARCHAR(10) NULL,
    zone VARCHAR(10) NULL,
    email VARCHAR(255) NULL,
    password_hash VARCHAR(255) NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    INDEX idx_role_dept (role, department),
    INDEX idx_division_zone (division, zone)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`
	if _, err := db.Exec(q); err != nil {
		log.Fatalf("[SCHEMA] Failed to create table staff_users: %v", err)
	}
}

func createShedsTable(db *sql.DB) {
	q := `
CREATE TABLE IF NOT EXISTS sheds (
    shed_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    shed_code VARCHAR(50) UNIQUE NOT NULL,
    name VARCHAR(255) NOT NULL,
    division VARCHAR(10) NOT NULL,
    zone VARCHAR(10) NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    INDEX idx_shed_code (shed_code)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`
	if _, err := db.Exec(q); err != nil {
		log.Fatalf("[SCHEMA] Failed to create table sheds: %v", err)
	}
}

func createCategoryCatalogTable(db *sql.DB) {
	q := `
CREATE TABLE IF NOT EXISTS category_catalog (
    entry_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    category VARCHAR(100) NOT NULL,
    type VARCHAR(100) NOT NULL,
    subtype VARCHAR(100) NOT NULL,
    UNIQUE KEY uq_combination (category, type, subtype)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`
	if _, err := db.Exec(q); err != nil {
		log.Fatalf("[SCHEMA] Failed to create table category_catalog: %v", err)
	}
}

func createComplaintsTable(db *sql.DB) {
	q := `
CREATE TABLE IF NOT EXISTS complaints (
    complaint_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    complaint_number VARCHAR(20) UNIQUE NOT NULL COMMENT 'Public complaint number (CMP...)',
    customer_id BIGINT NOT NULL,
    category VARCHAR(100) NOT NULL,
    type VARCHAR(100) NOT NULL,
    subtype VARCHAR(100) NOT NULL,
    description TEXT NOT NULL,
    department VARCHAR(50) NOT NULL COMMENT 'Originating department context',
    assigned_to VARCHAR(50) NULL COMMENT 'Current holder: staff login or department code',
    shed_code VARCHAR(50) NULL,
    division VARCHAR(10) NULL,
    zone VARCHAR(10) NULL,
    status ENUM('Pending', 'Replied', 'Reverted', 'Closed', 'awaiting_approval') NOT NULL DEFAULT 'Pending',
    priority ENUM('Low', 'Medium', 'High', 'Critical') NOT NULL DEFAULT 'Low',
    forwarded_flag ENUM('Y', 'N') NOT NULL DEFAULT 'N',
    awaiting_approval_flag ENUM('Y', 'N') NOT NULL DEFAULT 'N',
    action_taken TEXT NULL,
    rating INT NULL,
    rating_remarks VARCHAR(500) NULL,
    rejection_reason VARCHAR(500) NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NULL,
    FOREIGN KEY (customer_id) REFERENCES customers(customer_id) ON DELETE RESTRICT,
    INDEX idx_complaint_number (complaint_number),
    INDEX idx_customer_id (customer_id),
    INDEX idx_status (status),
    INDEX idx_assigned_to (assigned_to),
    INDEX idx_status_created (status, created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`
	if _, err := db.Exec(q); err != nil {
		log.Fatalf("[SCHEMA] Failed to create table complaints: %v", err)
	}
}

func createComplaintTransactionsTable(db *sql.DB) {
	q := `
CREATE TABLE IF NOT EXISTS complaint_transactions (
    transaction_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    complaint_id BIGINT NOT NULL,
    transaction_type ENUM('create', 'forward', 'internal_remark', 'status_update', 'assignment', 'close', 'approve', 'reject', 'revert', 'resubmit', 'auto_close', 'feedback') NOT NULL,
    from_user VARCHAR(50) NULL,
    to_user VARCHAR(50) NULL,
    from_department VARCHAR(50) NULL,
    to_department VARCHAR(50) NULL,
    remarks TEXT NULL,
    created_by VARCHAR(50) NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (complaint_id) REFERENCES complaints(complaint_id) ON DELETE RESTRICT,
    INDEX idx_complaint_created (complaint_id, created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`
	if _, err := db.Exec(q); err != nil {
		log.Fatalf("[SCHEMA] Failed to create table complaint_transactions: %v", err)
	}
}

func createComplaintEvidenceTable(db *sql.DB) {
	q := `
CREATE TABLE IF NOT EXISTS complaint_evidence (
    evidence_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    complaint_id BIGINT UNIQUE NOT NULL,
    file_name VARCHAR(255) NOT NULL,
    file_path VARCHAR(500) NOT NULL,
    mime_type VARCHAR(100) NOT NULL,
    file_size BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (complaint_id) REFERENCES complaints(complaint_id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`
	if _, err := db.Exec(q); err != nil {
		log.Fatalf("[SCHEMA] Failed to create table complaint_evidence: %v", err)
	}
}

func createNotificationsLogTable(db *sql.DB) {
	q := `
CREATE TABLE IF NOT EXISTS notifications_log (
    id BIGINT PRIMARY KEY AUTO_INCREMENT,
    complaint_id BIGINT NOT NULL,
    mail_type ENUM('assignment', 'closure') NOT NULL,
    recipient VARCHAR(255) NOT NULL,
    subject VARCHAR(500) NOT NULL,
    body TEXT NOT NULL,
    status VARCHAR(20) NOT NULL COMMENT 'sent | failed | skipped',
    error_message TEXT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    INDEX idx_complaint_id (complaint_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`
	if _, err := db.Exec(q); err != nil {
		log.Fatalf("[SCHEMA] Failed to create table notifications_log: %v", err)
	}
}
