package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"railgriev/models"
	"railgriev/notification"
	"railgriev/repository"
)

const mailSendTimeout = 30 * time.Second

// MailService sends lifecycle notifications in the background and records
// every attempt in the mail log. A mail failure never fails the operation
// that queued it.
type MailService struct {
	sender    notification.Sender
	staff     *repository.StaffRepository
	customers *repository.CustomerRepository
	mailLog   *repository.MailLogRepository
}

// NewMailService creates a new mail service
func NewMailService(
	sender notification.Sender,
	staff *repository.StaffRepository,
	customers *repository.CustomerRepository,
	mailLog *repository.MailLogRepository,
) *MailService {
	return &MailService{
		sender:    sender,
		staff:     staff,
		customers: customers,
		mailLog:   mailLog,
	}
}

// QueueAssignmentMail notifies the assigned staff user of a new complaint
func (s *MailService) QueueAssignmentMail(complaintID int64, complaintNumber, assignedTo string) {
	go func() {
		staff, err := s.staff.GetStaffByLogin(assignedTo)
		if err != nil || staff == nil || !staff.Email.Valid {
			// Department-level assignments have no direct mailbox.
			log.Printf("[mail] no recipient for assignment of %s to %s", complaintNumber, assignedTo)
			return
		}
		mail := &notification.Mail{
			Recipient: staff.Email.String,
			Subject:   fmt.Sprintf("New complaint assigned: %s", complaintNumber),
			Body: fmt.Sprintf("Complaint %s has been assigned to you. Please review it in the grievance portal.",
				complaintNumber),
		}
		s.deliver(complaintID, models.MailAssignment, mail)
	}()
}

// QueueClosureMail notifies the customer that their complaint was closed
func (s *MailService) QueueClosureMail(complaintID int64, complaintNumber string, customerID int64) {
	go func() {
		customer, err := s.customers.GetCustomerByID(customerID)
		if err != nil {
			log.Printf("[mail] no recipient for closure of %s: %v", complaintNumber, err)
			return
		}
		mail := &notification.Mail{
			Recipient: customer.Email,
			Subject:   fmt.Sprintf("Complaint %s closed", complaintNumber),
			Body: fmt.Sprintf("Dear %s,\n\nYour complaint %s has been resolved and closed. Thank you for your patience.",
				customer.Name, complaintNumber),
		}
		s.deliver(complaintID, models.MailClosure, mail)
	}()
}

func (s *MailService) deliver(complaintID int64, mailType models.MailType, mail *notification.Mail) {
	ctx, cancel := context.WithTimeout(context.Background(), mailSendTimeout)
	defer cancel()

	entry := &models.MailLog{
		ComplaintID: complaintID,
		MailType:    mailType,
		Recipient:   mail.Recipient,
		Subject:     mail.Subject,
		Body:        mail.Body,
		Status:      "sent",
	}

	err := s.sender.Send(ctx, mail)
	switch {
	case errors.Is(err, notification.ErrSkipped):
		entry.Status = "skipped"
	case err != nil:
		entry.Status = "failed"
		entry.ErrorMessage = sql.NullString{String: err.Error(), Valid: true}
		log.Printf("[mail] send failed to %s: %v", mail.Recipient, err)
	}

	if err := s.mailLog.CreateMailLog(entry); err != nil {
		log.Printf("[mail] failed to log mail attempt: %v", err)
	}
}
