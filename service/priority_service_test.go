package service

import (
	"errors"
	"testing"
	"time"

	"railgriev/models"
	"railgriev/repository"
)

func TestCalculateAutoPriority(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		age  time.Duration
		want models.Priority
	}{
		{"just created", 0, models.PriorityLow},
		{"59 minutes", 59 * time.Minute, models.PriorityLow},
		{"exactly 1 hour", time.Hour, models.PriorityMedium},
		{"2 hours", 2 * time.Hour, models.PriorityMedium},
		{"just under 3 hours", 3*time.Hour - time.Second, models.PriorityMedium},
		{"exactly 3 hours", 3 * time.Hour, models.PriorityHigh},
		{"12 hours", 12 * time.Hour, models.PriorityHigh},
		{"just under 24 hours", 24*time.Hour - time.Second, models.PriorityHigh},
		{"exactly 24 hours", 24 * time.Hour, models.PriorityCritical},
		{"a week", 7 * 24 * time.Hour, models.PriorityCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateAutoPriority(now.Add(-tt.age), now)
			if got != tt.want {
				t.Errorf("age %v: got %s, want %s", tt.age, got, tt.want)
			}
		})
	}
}

func TestCalculateAutoPriorityInvalidTimestamps(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	if got := CalculateAutoPriority(time.Time{}, now); got != models.PriorityLow {
		t.Errorf("zero created_at: got %s, want Low", got)
	}
	if got := CalculateAutoPriority(now.Add(time.Hour), now); got != models.PriorityLow {
		t.Errorf("future created_at: got %s, want Low", got)
	}
}

// Priority only ever rises as a complaint ages
func TestCalculateAutoPriorityMonotonic(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rank := map[models.Priority]int{
		models.PriorityLow:      0,
		models.PriorityMedium:   1,
		models.PriorityHigh:     2,
		models.PriorityCritical: 3,
	}

	prev := models.PriorityLow
	for age := time.Duration(0); age <= 30*time.Hour; age += 10 * time.Minute {
		got := CalculateAutoPriority(now.Add(-age), now)
		if rank[got] < rank[prev] {
			t.Fatalf("priority dropped from %s to %s at age %v", prev, got, age)
		}
		prev = got
	}
}

type fakePriorityStore struct {
	candidates []repository.SweepCandidate
	updates    map[int64]models.Priority
	failIDs    map[int64]bool
}

func (f *fakePriorityStore) GetPrioritySweepCandidates() ([]repository.SweepCandidate, error) {
	return f.candidates, nil
}

func (f *fakePriorityStore) UpdatePriority(id int64, p models.Priority) error {
	if f.failIDs[id] {
		return errors.New("deadlock")
	}
	if f.updates == nil {
		f.updates = make(map[int64]models.Priority)
	}
	f.updates[id] = p
	for i := range f.candidates {
		if f.candidates[i].ComplaintID == id {
			f.candidates[i].Priority = p
		}
	}
	return nil
}

func TestRunPrioritySweep(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &fakePriorityStore{
		candidates: []repository.SweepCandidate{
			{ComplaintID: 1, ComplaintNumber: "CMP202603100001", Priority: models.PriorityLow, CreatedAt: now.Add(-30 * time.Minute)},
			{ComplaintID: 2, ComplaintNumber: "CMP202603100002", Priority: models.PriorityLow, CreatedAt: now.Add(-2 * time.Hour)},
			{ComplaintID: 3, ComplaintNumber: "CMP202603100003", Priority: models.PriorityHigh, CreatedAt: now.Add(-25 * time.Hour)},
			{ComplaintID: 4, ComplaintNumber: "CMP202603100004", Priority: models.PriorityHigh, CreatedAt: now.Add(-5 * time.Hour)},
		},
	}
	svc := NewPriorityService(store)
	svc.now = func() time.Time { return now }

	updated, err := svc.RunPrioritySweep()
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if updated != 2 {
		t.Errorf("expected 2 updates, got %d", updated)
	}
	if store.updates[2] != models.PriorityMedium {
		t.Errorf("complaint 2: got %s, want Medium", store.updates[2])
	}
	if store.updates[3] != models.PriorityCritical {
		t.Errorf("complaint 3: got %s, want Critical", store.updates[3])
	}
	if _, ok := store.updates[1]; ok {
		t.Error("complaint 1 already Low, should not be rewritten")
	}
	if _, ok := store.updates[4]; ok {
		t.Error("complaint 4 already High, should not be rewritten")
	}
}

// A second sweep with no elapsed time must be a no-op
func TestRunPrioritySweepIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &fakePriorityStore{
		candidates: []repository.SweepCandidate{
			{ComplaintID: 1, Priority: models.PriorityLow, CreatedAt: now.Add(-4 * time.Hour)},
		},
	}
	svc := NewPriorityService(store)
	svc.now = func() time.Time { return now }

	if updated, _ := svc.RunPrioritySweep(); updated != 1 {
		t.Fatalf("first sweep: expected 1 update, got %d", updated)
	}
	if updated, _ := svc.RunPrioritySweep(); updated != 0 {
		t.Errorf("second sweep: expected 0 updates, got %d", updated)
	}
}

// A failing record must not abort the batch
func TestRunPrioritySweepContinuesOnError(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &fakePriorityStore{
		candidates: []repository.SweepCandidate{
			{ComplaintID: 1, Priority: models.PriorityLow, CreatedAt: now.Add(-2 * time.Hour)},
			{ComplaintID: 2, Priority: models.PriorityLow, CreatedAt: now.Add(-2 * time.Hour)},
		},
		failIDs: map[int64]bool{1: true},
	}
	svc := NewPriorityService(store)
	svc.now = func() time.Time { return now }

	updated, err := svc.RunPrioritySweep()
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if updated != 1 {
		t.Errorf("expected 1 update despite failure, got %d", updated)
	}
	if store.updates[2] != models.PriorityMedium {
		t.Errorf("complaint 2 should still be updated, got %s", store.updates[2])
	}
}
