package service

import (
	"database/sql"
	"log"
	"time"

	"railgriev/models"
	"railgriev/repository"
)

// autoCloseAfter is how long a Replied complaint waits for customer feedback
// before the sweep force-closes it.
const autoCloseAfter = 72 * time.Hour

// AutoCloseRemarks is stored in rating_remarks on force-close
const AutoCloseRemarks = "Auto-closed"

// AutoCloseStore is the slice of the complaint repository the auto-close
// sweep needs.
type AutoCloseStore interface {
	GetAutoCloseCandidates(cutoff time.Time) ([]repository.SweepCandidate, error)
	UpdateState(complaintID int64, state models.ComplaintState) error
}

// TransactionAppender appends audit entries
type TransactionAppender interface {
	Append(t *models.Transaction) (int64, error)
}

// AutoCloseService force-closes replied complaints left unrated too long
type AutoCloseService struct {
	store AutoCloseStore
	txns  TransactionAppender
	now   func() time.Time
}

// NewAutoCloseService creates a new auto-close service
func NewAutoCloseService(store AutoCloseStore, txns TransactionAppender) *AutoCloseService {
	return &AutoCloseService{store: store, txns: txns, now: time.Now}
}

// RunAutoCloseSweep closes every complaint that has sat in Replied for at
// least three days with no customer rating. Each record is processed
// independently: a failure is logged and the loop continues. Returns the
// number of complaints closed.
func (s *AutoCloseService) RunAutoCloseSweep() (int, error) {
	cutoff := s.now().Add(-autoCloseAfter)
	candidates, err := s.store.GetAutoCloseCandidates(cutoff)
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, c := range candidates {
		if err := s.store.UpdateState(c.ComplaintID, models.Closed(nil, AutoCloseRemarks)); err != nil {
			log.Printf("[sweep] auto-close failed for %s: %v", c.ComplaintNumber, err)
			continue
		}
		_, err := s.txns.Append(&models.Transaction{
			ComplaintID: c.ComplaintID,
			Type:        models.TxnAutoClose,
			Remarks:     sql.NullString{String: "Closed automatically: no customer feedback within 3 days of reply", Valid: true},
			CreatedBy:   "system",
		})
		if err != nil {
			// The complaint is already closed; the missing audit entry is
			// logged, not rolled back.
			log.Printf("[sweep] auto-close transaction append failed for %s: %v", c.ComplaintNumber, err)
		}
		closed++
	}
	if closed > 0 {
		log.Printf("[sweep] auto-close sweep closed %d complaints", closed)
	}
	return closed, nil
}

// Name identifies this sweep in worker logs
func (s *AutoCloseService) Name() string { return "auto-close" }

// Run satisfies the worker's Sweep interface
func (s *AutoCloseService) Run() (int, error) { return s.RunAutoCloseSweep() }
