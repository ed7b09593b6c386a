package service

import (
	"log"
	"time"

	"railgriev/models"
	"railgriev/repository"
)

// PrioritySweepStore is the slice of the complaint repository the priority
// sweep needs.
type PrioritySweepStore interface {
	GetPrioritySweepCandidates() ([]repository.SweepCandidate, error)
	UpdatePriority(complaintID int64, priority models.Priority) error
}

// PriorityService recomputes age-derived complaint priority
type PriorityService struct {
	store PrioritySweepStore
	now   func() time.Time
}

// NewPriorityService creates a new priority service
func NewPriorityService(store PrioritySweepStore) *PriorityService {
	return &PriorityService{store: store, now: time.Now}
}

// CalculateAutoPriority derives priority from complaint age. The breakpoints
// map boundary values to the higher tier: exactly 1h is Medium, exactly 3h
// is High, exactly 24h is Critical. A zero created_at yields Low rather than
// an error.
func CalculateAutoPriority(createdAt, now time.Time) models.Priority {
	if createdAt.IsZero() || createdAt.After(now) {
		return models.PriorityLow
	}
	age := now.Sub(createdAt)
	switch {
	case age >= 24*time.Hour:
		return models.PriorityCritical
	case age >= 3*time.Hour:
		return models.PriorityHigh
	case age >= time.Hour:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

// RunPrioritySweep recomputes priority for all open complaints (Pending or
// Replied) and persists only the ones that changed. Returns the number of
// records updated; running twice with no elapsed time updates nothing on the
// second pass. A failed record is logged and skipped, never aborting the
// batch.
func (s *PriorityService) RunPrioritySweep() (int, error) {
	candidates, err := s.store.GetPrioritySweepCandidates()
	if err != nil {
		return 0, err
	}

	now := s.now()
	updated := 0
	for _, c := range candidates {
		want := CalculateAutoPriority(c.CreatedAt, now)
		if want == c.Priority {
			continue
		}
		if err := s.store.UpdatePriority(c.ComplaintID, want); err != nil {
			log.Printf("[sweep] priority update failed for %s: %v", c.ComplaintNumber, err)
			continue
		}
		updated++
	}
	if updated > 0 {
		log.Printf("[sweep] priority sweep updated %d of %d open complaints", updated, len(candidates))
	}
	return updated, nil
}

// Name identifies this sweep in worker logs
func (s *PriorityService) Name() string { return "priority" }

// Run satisfies the worker's Sweep interface
func (s *PriorityService) Run() (int, error) { return s.RunPrioritySweep() }
