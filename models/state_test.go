package models

import "testing"

func TestColumnsPending(t *testing.T) {
	cols := Pending("COMMERCIAL").Columns()
	if cols.Status != StatusPending {
		t.Errorf("expected Pending status, got %s", cols.Status)
	}
	if cols.ForwardedFlag != FlagNo || cols.AwaitingFlag != FlagNo {
		t.Errorf("expected both flags N, got %s/%s", cols.ForwardedFlag, cols.AwaitingFlag)
	}
	if !cols.AssignedTo.Valid || cols.AssignedTo.String != "COMMERCIAL" {
		t.Errorf("expected assigned_to COMMERCIAL, got %+v", cols.AssignedTo)
	}
}

func TestColumnsForwardedKeepsPendingStatus(t *testing.T) {
	cols := Forwarded("MECHANICAL").Columns()
	if cols.Status != StatusPending {
		t.Errorf("forwarded complaints stay Pending, got %s", cols.Status)
	}
	if cols.ForwardedFlag != FlagYes {
		t.Errorf("expected forwarded_flag Y, got %s", cols.ForwardedFlag)
	}
	if cols.AwaitingFlag != FlagNo {
		t.Errorf("expected awaiting_approval_flag N, got %s", cols.AwaitingFlag)
	}
}

func TestColumnsAwaitingApproval(t *testing.T) {
	cols := AwaitingApproval("om.prakash", "Refund issued").Columns()
	if cols.Status != StatusAwaitingApproval {
		t.Errorf("expected awaiting_approval status, got %s", cols.Status)
	}
	if cols.AwaitingFlag != FlagYes {
		t.Errorf("expected awaiting_approval_flag Y, got %s", cols.AwaitingFlag)
	}
	if cols.ForwardedFlag != FlagNo {
		t.Errorf("awaiting approval must clear forwarded_flag, got %s", cols.ForwardedFlag)
	}
	if !cols.AssignedTo.Valid || cols.AssignedTo.String != "om.prakash" {
		t.Errorf("proposer keeps the complaint, got %+v", cols.AssignedTo)
	}
	if !cols.ActionTaken.Valid || cols.ActionTaken.String != "Refund issued" {
		t.Errorf("expected action_taken recorded, got %+v", cols.ActionTaken)
	}
}

// Replied and Closed must always release the assignee and drop the
// forwarded flag, whatever path led there.
func TestColumnsTerminalStatesReleaseAssignee(t *testing.T) {
	rating := 4
	states := map[string]ComplaintState{
		"replied":        Replied("Wagon supplied"),
		"closed rated":   Closed(&rating, "Satisfied"),
		"closed unrated": Closed(nil, "Auto-closed"),
	}
	for name, state := range states {
		t.Run(name, func(t *testing.T) {
			cols := state.Columns()
			if cols.AssignedTo.Valid {
				t.Errorf("assigned_to must be NULL, got %q", cols.AssignedTo.String)
			}
			if cols.ForwardedFlag != FlagNo {
				t.Errorf("forwarded_flag must be N, got %s", cols.ForwardedFlag)
			}
		})
	}
}

func TestColumnsClosedRating(t *testing.T) {
	rating := 5
	cols := Closed(&rating, "Great service").Columns()
	if !cols.Rating.Valid || cols.Rating.Int64 != 5 {
		t.Errorf("expected rating 5, got %+v", cols.Rating)
	}

	cols = Closed(nil, "Auto-closed").Columns()
	if cols.Rating.Valid {
		t.Errorf("unrated closure must leave rating NULL, got %+v", cols.Rating)
	}
	if !cols.RatingRemarks.Valid || cols.RatingRemarks.String != "Auto-closed" {
		t.Errorf("expected auto-close remarks, got %+v", cols.RatingRemarks)
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from ComplaintStatus
		to   ComplaintState
		want bool
	}{
		{"pending can be forwarded", StatusPending, Forwarded("MECHANICAL"), true},
		{"reverted can be forwarded", StatusReverted, Forwarded("MECHANICAL"), true},
		{"replied cannot be forwarded", StatusReplied, Forwarded("MECHANICAL"), false},
		{"closed cannot be forwarded", StatusClosed, Forwarded("MECHANICAL"), false},
		{"pending can be replied", StatusPending, Replied("done"), true},
		{"pending can go to approval", StatusPending, AwaitingApproval("a", "b"), true},
		{"awaiting can be reverted", StatusAwaitingApproval, Reverted("a", "why"), true},
		{"closed cannot be reverted", StatusClosed, Reverted("a", "why"), false},
		{"replied cannot be reverted", StatusReplied, Reverted("a", "why"), false},
		{"awaiting can close", StatusAwaitingApproval, Closed(nil, ""), true},
		{"replied can close", StatusReplied, Closed(nil, "Auto-closed"), true},
		{"pending cannot close", StatusPending, Closed(nil, ""), false},
		{"reverted can resubmit", StatusReverted, Pending("COMMERCIAL"), true},
		{"pending cannot resubmit", StatusPending, Pending("COMMERCIAL"), false},
		{"closed is terminal", StatusClosed, Pending("COMMERCIAL"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to.Kind(), got, tt.want)
			}
		})
	}
}
