package repository

import (
	"strings"
	"testing"
	"time"

	"railgriev/models"
)

func TestEmptyFilterHasNoWhereClause(t *testing.T) {
	where, args := ComplaintFilter{}.predicates()
	if where != "" {
		t.Errorf("expected empty clause, got %q", where)
	}
	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}
}

func TestFilterSingleField(t *testing.T) {
	status := models.StatusPending
	where, args := ComplaintFilter{Status: &status}.predicates()
	if where != " WHERE status = ?" {
		t.Errorf("unexpected clause: %q", where)
	}
	if len(args) != 1 || args[0] != status {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestFilterDivisionExpandsToHQRule(t *testing.T) {
	division := "DLI"
	where, args := ComplaintFilter{Division: &division}.predicates()
	want := " WHERE (division = ? OR division = 'HQ' OR division IS NULL)"
	if where != want {
		t.Errorf("got %q, want %q", where, want)
	}
	if len(args) != 1 || args[0] != "DLI" {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestFilterCombinesWithAND(t *testing.T) {
	status := models.StatusPending
	priority := models.PriorityCritical
	division := "DLI"
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	where, args := ComplaintFilter{
		Status:   &status,
		Priority: &priority,
		Division: &division,
		From:     &from,
		To:       &to,
	}.predicates()

	if !strings.HasPrefix(where, " WHERE ") {
		t.Fatalf("missing WHERE prefix: %q", where)
	}
	if got := strings.Count(where, " AND "); got != 4 {
		t.Errorf("expected 4 ANDs, got %d in %q", got, where)
	}
	// one placeholder per argument, no string interpolation of values
	if got := strings.Count(where, "?"); got != len(args) {
		t.Errorf("%d placeholders for %d args in %q", got, len(args), where)
	}
	if len(args) != 5 {
		t.Errorf("expected 5 args, got %v", args)
	}
}

func TestFilterNeverInterpolatesValues(t *testing.T) {
	hostile := "x'; DROP TABLE complaints; --"
	where, _ := ComplaintFilter{Category: &hostile}.predicates()
	if strings.Contains(where, "DROP TABLE") {
		t.Errorf("filter value leaked into SQL: %q", where)
	}
}
