package service

import (
	"testing"
	"time"

	"railgriev/models"
	"railgriev/repository"
)

type fakeAutoCloseStore struct {
	complaints []repository.SweepCandidate
	states     map[int64]models.StateColumns
}

// GetAutoCloseCandidates applies the same predicate as the SQL: status
// Replied, created_at at or before the cutoff, no rating.
func (f *fakeAutoCloseStore) GetAutoCloseCandidates(cutoff time.Time) ([]repository.SweepCandidate, error) {
	var out []repository.SweepCandidate
	for _, c := range f.complaints {
		if c.Status != models.StatusReplied || c.Rating.Valid {
			continue
		}
		if c.CreatedAt.After(cutoff) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeAutoCloseStore) UpdateState(id int64, state models.ComplaintState) error {
	if f.states == nil {
		f.states = make(map[int64]models.StateColumns)
	}
	cols := state.Columns()
	f.states[id] = cols
	for i := range f.complaints {
		if f.complaints[i].ComplaintID == id {
			f.complaints[i].Status = cols.Status
			f.complaints[i].Rating = cols.Rating
		}
	}
	return nil
}

type fakeAppender struct {
	entries []models.Transaction
}

func (f *fakeAppender) Append(t *models.Transaction) (int64, error) {
	f.entries = append(f.entries, *t)
	return int64(len(f.entries)), nil
}

func candidate(id int64, status models.ComplaintStatus, age time.Duration, now time.Time) repository.SweepCandidate {
	return repository.SweepCandidate{
		ComplaintID:     id,
		ComplaintNumber: "CMP202603100001",
		Status:          status,
		CreatedAt:       now.Add(-age),
	}
}

func TestRunAutoCloseSweep(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &fakeAutoCloseStore{
		complaints: []repository.SweepCandidate{
			candidate(1, models.StatusReplied, 72*time.Hour+time.Second, now),
			candidate(2, models.StatusReplied, 2*24*time.Hour+23*time.Hour, now),
			candidate(3, models.StatusPending, 5*24*time.Hour, now),
		},
	}
	txns := &fakeAppender{}
	svc := NewAutoCloseService(store, txns)
	svc.now = func() time.Time { return now }

	closed, err := svc.RunAutoCloseSweep()
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if closed != 1 {
		t.Fatalf("expected 1 closure, got %d", closed)
	}

	cols, ok := store.states[1]
	if !ok {
		t.Fatal("complaint 1 was not closed")
	}
	if cols.Status != models.StatusClosed {
		t.Errorf("expected Closed, got %s", cols.Status)
	}
	if cols.Rating.Valid {
		t.Errorf("auto-close must not invent a rating, got %+v", cols.Rating)
	}
	if !cols.RatingRemarks.Valid || cols.RatingRemarks.String != AutoCloseRemarks {
		t.Errorf("expected rating_remarks %q, got %+v", AutoCloseRemarks, cols.RatingRemarks)
	}

	if len(txns.entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(txns.entries))
	}
	entry := txns.entries[0]
	if entry.Type != models.TxnAutoClose {
		t.Errorf("expected auto_close transaction, got %s", entry.Type)
	}
	if entry.CreatedBy != "system" {
		t.Errorf("expected system actor, got %q", entry.CreatedBy)
	}
}

// A rated reply must never be auto-closed, however old
func TestRunAutoCloseSweepSkipsRated(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rated := candidate(1, models.StatusReplied, 10*24*time.Hour, now)
	rated.Rating.Int64 = 4
	rated.Rating.Valid = true
	store := &fakeAutoCloseStore{complaints: []repository.SweepCandidate{rated}}
	svc := NewAutoCloseService(store, &fakeAppender{})
	svc.now = func() time.Time { return now }

	closed, err := svc.RunAutoCloseSweep()
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if closed != 0 {
		t.Errorf("rated complaint was auto-closed")
	}
}

// Once closed, a complaint leaves the candidate set: a second sweep is a no-op
func TestRunAutoCloseSweepIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &fakeAutoCloseStore{
		complaints: []repository.SweepCandidate{
			candidate(1, models.StatusReplied, 4*24*time.Hour, now),
		},
	}
	txns := &fakeAppender{}
	svc := NewAutoCloseService(store, txns)
	svc.now = func() time.Time { return now }

	if closed, _ := svc.RunAutoCloseSweep(); closed != 1 {
		t.Fatalf("first sweep: expected 1 closure, got %d", closed)
	}
	if closed, _ := svc.RunAutoCloseSweep(); closed != 0 {
		t.Errorf("second sweep: expected 0 closures, got %d", closed)
	}
	if len(txns.entries) != 1 {
		t.Errorf("expected exactly 1 audit entry, got %d", len(txns.entries))
	}
}
