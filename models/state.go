package models

import "database/sql"

// StateKind discriminates ComplaintState variants
type StateKind string

const (
	KindPending          StateKind = "pending"
	KindForwarded        StateKind = "forwarded"
	KindAwaitingApproval StateKind = "awaiting_approval"
	KindReverted         StateKind = "reverted"
	KindReplied          StateKind = "replied"
	KindClosed           StateKind = "closed"
)

// ComplaintState is the tagged union behind the status column and the two
// Y/N flags. Status, forwarded_flag, awaiting_approval_flag and assigned_to
// are only ever written together through StateColumns, so combinations like
// Closed with forwarded_flag='Y' cannot be stored.
//
// Construct values with the Pending/Forwarded/AwaitingApproval/Reverted/
// Replied/Closed helpers; the zero value is not a valid state.
type ComplaintState struct {
	kind        StateKind
	assignedTo  string // holder login or department code; empty for Replied/Closed
	actionTaken string // resolution text; AwaitingApproval, Replied and Closed
	reason      string // Reverted only
	rating      *int   // Closed only, nil when unrated
	remarks     string // Closed only, rating remarks / "Auto-closed"
}

// StateColumns is the exact set of complaint columns a state update touches
type StateColumns struct {
	Status        ComplaintStatus
	ForwardedFlag Flag
	AwaitingFlag  Flag
	AssignedTo    sql.NullString
	ActionTaken   sql.NullString
	Reason        sql.NullString
	Rating        sql.NullInt64
	RatingRemarks sql.NullString
}

// Pending is the entry state; assignedTo is the routed department or
// controller login.
func Pending(assignedTo string) ComplaintState {
	return ComplaintState{kind: KindPending, assignedTo: assignedTo}
}

// Forwarded marks a complaint passed to another department or user
func Forwarded(to string) ComplaintState {
	return ComplaintState{kind: KindForwarded, assignedTo: to}
}

// AwaitingApproval marks a proposed closure pending a department-head
// decision; holder keeps the complaint until approved or rejected.
func AwaitingApproval(holder, actionTaken string) ComplaintState {
	return ComplaintState{kind: KindAwaitingApproval, assignedTo: holder, actionTaken: actionTaken}
}

// Reverted sends the complaint back to a responsible party with a reason
func Reverted(to, reason string) ComplaintState {
	return ComplaintState{kind: KindReverted, assignedTo: to, reason: reason}
}

// Replied records a staff answer to the customer; the complaint leaves the
// assignment queue and waits for a rating or the auto-close sweep.
func Replied(actionTaken string) ComplaintState {
	return ComplaintState{kind: KindReplied, actionTaken: actionTaken}
}

// Closed is the terminal state. rating is nil for approvals without
// feedback; remarks carries rating remarks or the auto-close marker.
func Closed(rating *int, remarks string) ComplaintState {
	return ComplaintState{kind: KindClosed, rating: rating, remarks: remarks}
}

// Kind returns the variant discriminator
func (s ComplaintState) Kind() StateKind { return s.kind }

// AssignedTo returns the current holder, empty for Replied/Closed
func (s ComplaintState) AssignedTo() string { return s.assignedTo }

// Columns derives the database columns for this state. The invariants from
// the lifecycle contract hold by construction:
//
//	Closed or Replied  => assigned_to IS NULL
//	Replied, awaiting_approval or Closed => forwarded_flag = 'N'
func (s ComplaintState) Columns() StateColumns {
	cols := StateColumns{
		Status:        StatusPending,
		ForwardedFlag: FlagNo,
		AwaitingFlag:  FlagNo,
	}
	switch s.kind {
	case KindPending:
		cols.Status = StatusPending
		cols.AssignedTo = sql.NullString{String: s.assignedTo, Valid: s.assignedTo != ""}
	case KindForwarded:
		cols.Status = StatusPending
		cols.ForwardedFlag = FlagYes
		cols.AssignedTo = sql.NullString{String: s.assignedTo, Valid: s.assignedTo != ""}
	case KindAwaitingApproval:
		cols.Status = StatusAwaitingApproval
		cols.AwaitingFlag = FlagYes
		cols.AssignedTo = sql.NullString{String: s.assignedTo, Valid: s.assignedTo != ""}
		cols.ActionTaken = sql.NullString{String: s.actionTaken, Valid: s.actionTaken != ""}
	case KindReverted:
		cols.Status = StatusReverted
		cols.AssignedTo = sql.NullString{String: s.assignedTo, Valid: s.assignedTo != ""}
		cols.Reason = sql.NullString{String: s.reason, Valid: s.reason != ""}
	case KindReplied:
		cols.Status = StatusReplied
		cols.ActionTaken = sql.NullString{String: s.actionTaken, Valid: s.actionTaken != ""}
	case KindClosed:
		cols.Status = StatusClosed
		if s.rating != nil {
			cols.Rating = sql.NullInt64{Int64: int64(*s.rating), Valid: true}
		}
		cols.RatingRemarks = sql.NullString{String: s.remarks, Valid: s.remarks != ""}
	}
	return cols
}

// activeStatuses are the statuses a staff action may operate on
var activeStatuses = map[ComplaintStatus]bool{
	StatusPending:          true,
	StatusReverted:         true,
	StatusAwaitingApproval: true,
}

// CanTransition reports whether moving a complaint in fromStatus into the
// target state is a legal lifecycle step.
func CanTransition(fromStatus ComplaintStatus, to ComplaintState) bool {
	switch to.kind {
	case KindForwarded:
		return fromStatus == StatusPending || fromStatus == StatusReverted
	case KindAwaitingApproval:
		return fromStatus == StatusPending || fromStatus == StatusReverted
	case KindReplied:
		return fromStatus == StatusPending || fromStatus == StatusReverted
	case KindReverted:
		return activeStatuses[fromStatus]
	case KindClosed:
		// approve, feedback on a reply, or the auto-close sweep
		return fromStatus == StatusAwaitingApproval || fromStatus == StatusReplied
	case KindPending:
		// customer resubmission re-enters the active flow
		return fromStatus == StatusReverted
	}
	return false
}
