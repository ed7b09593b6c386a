package service

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"railgriev/models"
	"railgriev/repository"
)

var (
	// ErrInvalidCategory rejects submissions whose (category, type, subtype)
	// is not in the catalog
	ErrInvalidCategory = errors.New("invalid category/type/subtype combination")
	// ErrInvalidTransition rejects lifecycle steps the status machine forbids
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrNotHolder rejects staff actions on complaints the caller does not hold
	ErrNotHolder = errors.New("complaint is not assigned to caller")
	// ErrNotOwner rejects customer actions on another customer's complaint
	ErrNotOwner = errors.New("complaint does not belong to caller")
	// ErrApprovalRequired rejects approve/reject from non-department-heads
	ErrApprovalRequired = errors.New("approval requires a department head")
)

// ComplaintStore is the slice of the complaint repository the lifecycle uses
type ComplaintStore interface {
	GenerateComplaintNumber() (string, error)
	CreateComplaint(c *models.Complaint) error
	GetComplaintByNumber(number string) (*models.Complaint, error)
	GetComplaintsByCustomerID(customerID int64) ([]models.Complaint, error)
	SearchWithFilters(f repository.ComplaintFilter) ([]models.Complaint, error)
	UpdateState(complaintID int64, state models.ComplaintState) error
}

// TransactionStore appends audit entries and reads history for display
type TransactionStore interface {
	Append(t *models.Transaction) (int64, error)
	HistoryOf(complaintID int64) ([]models.Transaction, error)
}

// CatalogChecker validates category combinations against the catalog
type CatalogChecker interface {
	IsValidCombination(category, typ, subtype string) (bool, error)
}

// Mailer queues lifecycle notifications; implementations must never block or
// fail the calling operation.
type Mailer interface {
	QueueAssignmentMail(complaintID int64, complaintNumber, assignedTo string)
	QueueClosureMail(complaintID int64, complaintNumber string, customerID int64)
}

// ComplaintService implements the complaint lifecycle and routing
type ComplaintService struct {
	store   ComplaintStore
	txns    TransactionStore
	catalog CatalogChecker
	routing *RoutingService
	mailer  Mailer // optional
}

// NewComplaintService creates a new complaint service
func NewComplaintService(
	store ComplaintStore,
	txns TransactionStore,
	catalog CatalogChecker,
	routing *RoutingService,
	mailer Mailer,
) *ComplaintService {
	return &ComplaintService{
		store:   store,
		txns:    txns,
		catalog: catalog,
		routing: routing,
		mailer:  mailer,
	}
}

// Submit creates a new complaint: the category combination is validated,
// the routing resolver picks the initial assignee, the record starts as
// Pending/Low with both flags N, and a create transaction is appended.
func (s *ComplaintService) Submit(ctx models.RequestContext, req *models.SubmitComplaintRequest) (*models.Complaint, error) {
	valid, err := s.catalog.IsValidCombination(req.Category, req.Type, req.SubType)
	if err != nil {
		return nil, fmt.Errorf("failed to validate category: %w", err)
	}
	if !valid {
		return nil, ErrInvalidCategory
	}

	number, err := s.store.GenerateComplaintNumber()
	if err != nil {
		return nil, fmt.Errorf("failed to generate complaint number: %w", err)
	}

	assignment := s.routing.ResolveInitialAssignment(req.ShedCode, req.Department)

	complaint := &models.Complaint{
		ComplaintNumber: number,
		CustomerID:      ctx.CustomerID,
		Category:        req.Category,
		Type:            req.Type,
		SubType:         req.SubType,
		Description:     req.Description,
		Department:      models.DefaultDepartment,
		AssignedTo:      sql.NullString{String: assignment.AssignedTo, Valid: true},
		Status:          models.StatusPending,
		Priority:        models.PriorityLow,
		ForwardedFlag:   models.FlagNo,
		AwaitingFlag:    models.FlagNo,
	}
	if req.Department != "" {
		complaint.Department = req.Department
	}
	if req.ShedCode != "" {
		complaint.ShedCode = sql.NullString{String: req.ShedCode, Valid: true}
	}
	if assignment.Division != "" {
		complaint.Division = sql.NullString{String: assignment.Division, Valid: true}
		complaint.Zone = sql.NullString{String: assignment.Zone, Valid: true}
	}

	if err := s.store.CreateComplaint(complaint); err != nil {
		return nil, err
	}

	_, err = s.txns.Append(&models.Transaction{
		ComplaintID:  complaint.ComplaintID,
		Type:         models.TxnCreate,
		ToUser:       sql.NullString{String: assignment.AssignedTo, Valid: true},
		ToDepartment: sql.NullString{String: complaint.Department, Valid: true},
		Remarks:      sql.NullString{String: "Complaint registered", Valid: true},
		CreatedBy:    ctx.Actor(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record creation: %w", err)
	}

	if s.mailer != nil {
		s.mailer.QueueAssignmentMail(complaint.ComplaintID, complaint.ComplaintNumber, assignment.AssignedTo)
	}
	return complaint, nil
}

// holdsComplaint reports whether the staff caller currently owns the
// complaint: assigned directly to their login or to their department code.
func holdsComplaint(ctx models.RequestContext, c *models.Complaint) bool {
	if !c.AssignedTo.Valid {
		return false
	}
	return c.AssignedTo.String == ctx.StaffLogin || c.AssignedTo.String == ctx.Department
}

// transition loads the complaint, checks legality and the holder rule, and
// writes the new state. Every staff transition funnels through here.
func (s *ComplaintService) transition(ctx models.RequestContext, number string, to models.ComplaintState, requireHolder bool) (*models.Complaint, error) {
	complaint, err := s.store.GetComplaintByNumber(number)
	if err != nil {
		return nil, err
	}
	if requireHolder && !holdsComplaint(ctx, complaint) {
		return nil, ErrNotHolder
	}
	if !models.CanTransition(complaint.Status, to) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTransition, complaint.Status)
	}
	if err := s.store.UpdateState(complaint.ComplaintID, to); err != nil {
		return nil, err
	}
	return complaint, nil
}

// Forward passes a complaint to another department or staff user
func (s *ComplaintService) Forward(ctx models.RequestContext, number string, req *models.ForwardRequest) error {
	target := req.ToDepartment
	if req.ToUser != "" {
		target = req.ToUser
	}
	complaint, err := s.transition(ctx, number, models.Forwarded(target), true)
	if err != nil {
		return err
	}

	_, err = s.txns.Append(&models.Transaction{
		ComplaintID:    complaint.ComplaintID,
		Type:           models.TxnForward,
		FromUser:       sql.NullString{String: ctx.StaffLogin, Valid: true},
		ToUser:         sql.NullString{String: req.ToUser, Valid: req.ToUser != ""},
		FromDepartment: sql.NullString{String: ctx.Department, Valid: ctx.Department != ""},
		ToDepartment:   sql.NullString{String: req.ToDepartment, Valid: true},
		Remarks:        sql.NullString{String: req.Remarks, Valid: req.Remarks != ""},
		CreatedBy:      ctx.StaffLogin,
	})
	if err != nil {
		return fmt.Errorf("failed to record forward: %w", err)
	}
	return nil
}

// Reply records the staff answer sent to the customer. The complaint leaves
// the assignment queue and waits for a rating or the auto-close sweep.
func (s *ComplaintService) Reply(ctx models.RequestContext, number string, req *models.ReplyRequest) error {
	complaint, err := s.transition(ctx, number, models.Replied(req.ActionTaken), true)
	if err != nil {
		return err
	}

	_, err = s.txns.Append(&models.Transaction{
		ComplaintID:    complaint.ComplaintID,
		Type:           models.TxnStatusUpdate,
		FromUser:       sql.NullString{String: ctx.StaffLogin, Valid: true},
		FromDepartment: sql.NullString{String: ctx.Department, Valid: ctx.Department != ""},
		Remarks:        sql.NullString{String: req.ActionTaken, Valid: true},
		CreatedBy:      ctx.StaffLogin,
	})
	if err != nil {
		return fmt.Errorf("failed to record reply: %w", err)
	}
	return nil
}

// Close proposes closure: the complaint moves to awaiting_approval with the
// action taken recorded, pending a department-head decision.
func (s *ComplaintService) Close(ctx models.RequestContext, number string, req *models.CloseRequest) error {
	complaint, err := s.transition(ctx, number, models.AwaitingApproval(ctx.StaffLogin, req.ActionTaken), true)
	if err != nil {
		return err
	}

	_, err = s.txns.Append(&models.Transaction{
		ComplaintID:    complaint.ComplaintID,
		Type:           models.TxnClose,
		FromUser:       sql.NullString{String: ctx.StaffLogin, Valid: true},
		FromDepartment: sql.NullString{String: ctx.Department, Valid: ctx.Department != ""},
		Remarks:        sql.NullString{String: req.Remarks, Valid: req.Remarks != ""},
		CreatedBy:      ctx.StaffLogin,
	})
	if err != nil {
		return fmt.Errorf("failed to record closure proposal: %w", err)
	}
	return nil
}

// Approve finalizes a proposed closure: awaiting_approval becomes Closed,
// the assignee is cleared and both flags drop to N.
func (s *ComplaintService) Approve(ctx models.RequestContext, number string, req *models.DecisionRequest) error {
	if ctx.StaffRole != models.RoleDeptHead && ctx.StaffRole != models.RoleAdmin {
		return ErrApprovalRequired
	}
	complaint, err := s.store.GetComplaintByNumber(number)
	if err != nil {
		return err
	}
	if complaint.Status != models.StatusAwaitingApproval {
		return fmt.Errorf("%w: %s", ErrInvalidTransition, complaint.Status)
	}
	if err := s.store.UpdateState(complaint.ComplaintID, models.Closed(nil, "")); err != nil {
		return err
	}

	_, err = s.txns.Append(&models.Transaction{
		ComplaintID: complaint.ComplaintID,
		Type:        models.TxnApprove,
		FromUser:    sql.NullString{String: ctx.StaffLogin, Valid: true},
		Remarks:     sql.NullString{String: req.Reason, Valid: req.Reason != ""},
		CreatedBy:   ctx.StaffLogin,
	})
	if err != nil {
		return fmt.Errorf("failed to record approval: %w", err)
	}

	if s.mailer != nil {
		s.mailer.QueueClosureMail(complaint.ComplaintID, complaint.ComplaintNumber, complaint.CustomerID)
	}
	return nil
}

// Reject sends a proposed closure back to the staffer who proposed it
func (s *ComplaintService) Reject(ctx models.RequestContext, number string, req *models.DecisionRequest) error {
	if ctx.StaffRole != models.RoleDeptHead && ctx.StaffRole != models.RoleAdmin {
		return ErrApprovalRequired
	}
	complaint, err := s.store.GetComplaintByNumber(number)
	if err != nil {
		return err
	}
	if complaint.Status != models.StatusAwaitingApproval {
		return fmt.Errorf("%w: %s", ErrInvalidTransition, complaint.Status)
	}

	// The closure proposer still holds the complaint while it awaits
	// approval; rejection hands it straight back to them.
	priorHolder := ctx.Department
	if complaint.AssignedTo.Valid {
		priorHolder = complaint.AssignedTo.String
	}
	if err := s.store.UpdateState(complaint.ComplaintID, models.Reverted(priorHolder, req.Reason)); err != nil {
		return err
	}

	_, err = s.txns.Append(&models.Transaction{
		ComplaintID: complaint.ComplaintID,
		Type:        models.TxnReject,
		FromUser:    sql.NullString{String: ctx.StaffLogin, Valid: true},
		ToUser:      sql.NullString{String: priorHolder, Valid: true},
		Remarks:     sql.NullString{String: req.Reason, Valid: req.Reason != ""},
		CreatedBy:   ctx.StaffLogin,
	})
	if err != nil {
		return fmt.Errorf("failed to record rejection: %w", err)
	}
	return nil
}

// Revert sends a complaint in any active state back to a responsible party
func (s *ComplaintService) Revert(ctx models.RequestContext, number string, req *models.RevertRequest) error {
	complaint, err := s.transition(ctx, number, models.Reverted(req.ToUser, req.Reason), true)
	if err != nil {
		return err
	}

	_, err = s.txns.Append(&models.Transaction{
		ComplaintID: complaint.ComplaintID,
		Type:        models.TxnRevert,
		FromUser:    sql.NullString{String: ctx.StaffLogin, Valid: true},
		ToUser:      sql.NullString{String: req.ToUser, Valid: true},
		Remarks:     sql.NullString{String: req.Reason, Valid: true},
		CreatedBy:   ctx.StaffLogin,
	})
	if err != nil {
		return fmt.Errorf("failed to record revert: %w", err)
	}
	return nil
}

// Resubmit lets the customer re-enter a reverted complaint into the active
// flow. Routing runs again from the stored shed.
func (s *ComplaintService) Resubmit(ctx models.RequestContext, number string) error {
	complaint, err := s.store.GetComplaintByNumber(number)
	if err != nil {
		return err
	}
	if complaint.CustomerID != ctx.CustomerID {
		return ErrNotOwner
	}

	shedCode := ""
	if complaint.ShedCode.Valid {
		shedCode = complaint.ShedCode.String
	}
	assignment := s.routing.ResolveInitialAssignment(shedCode, "")
	next := models.Pending(assignment.AssignedTo)
	if !models.CanTransition(complaint.Status, next) {
		return fmt.Errorf("%w: %s", ErrInvalidTransition, complaint.Status)
	}
	if err := s.store.UpdateState(complaint.ComplaintID, next); err != nil {
		return err
	}

	_, err = s.txns.Append(&models.Transaction{
		ComplaintID:  complaint.ComplaintID,
		Type:         models.TxnResubmit,
		ToUser:       sql.NullString{String: assignment.AssignedTo, Valid: true},
		Remarks:      sql.NullString{String: "Complaint resubmitted by customer", Valid: true},
		CreatedBy:    ctx.Actor(),
		ToDepartment: sql.NullString{String: models.DefaultDepartment, Valid: true},
	})
	if err != nil {
		return fmt.Errorf("failed to record resubmission: %w", err)
	}
	return nil
}

// AddRemark appends an internal remark to the history without touching state
func (s *ComplaintService) AddRemark(ctx models.RequestContext, number string, req *models.RemarkRequest) error {
	complaint, err := s.store.GetComplaintByNumber(number)
	if err != nil {
		return err
	}

	_, err = s.txns.Append(&models.Transaction{
		ComplaintID:    complaint.ComplaintID,
		Type:           models.TxnInternalRemark,
		FromUser:       sql.NullString{String: ctx.StaffLogin, Valid: true},
		FromDepartment: sql.NullString{String: ctx.Department, Valid: ctx.Department != ""},
		Remarks:        sql.NullString{String: req.Remarks, Valid: true},
		CreatedBy:      ctx.StaffLogin,
	})
	if err != nil {
		return fmt.Errorf("failed to record remark: %w", err)
	}
	return nil
}

// SubmitFeedback stores the customer rating on a replied complaint and
// closes it.
func (s *ComplaintService) SubmitFeedback(ctx models.RequestContext, number string, req *models.FeedbackRequest) error {
	complaint, err := s.store.GetComplaintByNumber(number)
	if err != nil {
		return err
	}
	if complaint.CustomerID != ctx.CustomerID {
		return ErrNotOwner
	}
	if complaint.Status != models.StatusReplied {
		return fmt.Errorf("%w: %s", ErrInvalidTransition, complaint.Status)
	}

	rating := req.Rating
	if err := s.store.UpdateState(complaint.ComplaintID, models.Closed(&rating, req.Remarks)); err != nil {
		return err
	}

	_, err = s.txns.Append(&models.Transaction{
		ComplaintID: complaint.ComplaintID,
		Type:        models.TxnFeedback,
		Remarks:     sql.NullString{String: fmt.Sprintf("Rated %d/5. %s", req.Rating, req.Remarks), Valid: true},
		CreatedBy:   ctx.Actor(),
	})
	if err != nil {
		return fmt.Errorf("failed to record feedback: %w", err)
	}
	return nil
}

// GetCustomerComplaints lists a customer's own complaints, newest first
func (s *ComplaintService) GetCustomerComplaints(customerID int64) ([]models.ComplaintSummary, error) {
	complaints, err := s.store.GetComplaintsByCustomerID(customerID)
	if err != nil {
		return nil, err
	}
	summaries := make([]models.ComplaintSummary, 0, len(complaints))
	for _, c := range complaints {
		summaries = append(summaries, summarize(c))
	}
	return summaries, nil
}

// GetStaffComplaints lists complaints visible to the staff caller: those
// assigned to their login or department, restricted to their division.
// HQ and unscoped complaints remain visible to every division.
func (s *ComplaintService) GetStaffComplaints(ctx models.RequestContext, status *models.ComplaintStatus) ([]models.ComplaintSummary, error) {
	filter := repository.ComplaintFilter{Status: status}
	if ctx.Division != "" {
		filter.Division = &ctx.Division
	}
	complaints, err := s.store.SearchWithFilters(filter)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ComplaintSummary, 0, len(complaints))
	for _, c := range complaints {
		if c.AssignedTo.Valid && c.AssignedTo.String != ctx.StaffLogin && c.AssignedTo.String != ctx.Department {
			// Admins and department heads see the whole slice; others only
			// their own queue.
			if ctx.StaffRole != models.RoleAdmin && ctx.StaffRole != models.RoleDeptHead {
				continue
			}
		}
		summaries = append(summaries, summarize(c))
	}
	return summaries, nil
}

func summarize(c models.Complaint) models.ComplaintSummary {
	s := models.ComplaintSummary{
		ComplaintNumber: c.ComplaintNumber,
		Category:        c.Category,
		Type:            c.Type,
		SubType:         c.SubType,
		Status:          string(c.Status),
		Priority:        string(c.Priority),
		CreatedAt:       c.CreatedAt,
	}
	if c.AssignedTo.Valid {
		s.AssignedTo = &c.AssignedTo.String
	}
	return s
}

// GetDetail returns the full complaint view with its transaction history in
// chronological order. Customers may only see their own complaints; any
// staff caller may view any complaint.
func (s *ComplaintService) GetDetail(ctx models.RequestContext, number string) (*models.ComplaintDetail, error) {
	complaint, err := s.store.GetComplaintByNumber(number)
	if err != nil {
		return nil, err
	}
	if ctx.StaffLogin == "" && complaint.CustomerID != ctx.CustomerID {
		return nil, ErrNotOwner
	}

	history, err := s.txns.HistoryOf(complaint.ComplaintID)
	if err != nil {
		log.Printf("[complaint] history load failed for %s: %v", number, err)
		history = nil
	}

	detail := &models.ComplaintDetail{
		ComplaintNumber: complaint.ComplaintNumber,
		Category:        complaint.Category,
		Type:            complaint.Type,
		SubType:         complaint.SubType,
		Description:     complaint.Description,
		Department:      complaint.Department,
		Status:          string(complaint.Status),
		Priority:        string(complaint.Priority),
		CreatedAt:       complaint.CreatedAt,
		Transactions:    make([]models.TransactionView, 0, len(history)),
	}
	if complaint.AssignedTo.Valid {
		detail.AssignedTo = &complaint.AssignedTo.String
	}
	if complaint.ShedCode.Valid {
		detail.ShedCode = &complaint.ShedCode.String
	}
	if complaint.Division.Valid {
		detail.Division = &complaint.Division.String
	}
	if complaint.Zone.Valid {
		detail.Zone = &complaint.Zone.String
	}
	if complaint.ActionTaken.Valid {
		detail.ActionTaken = &complaint.ActionTaken.String
	}
	if complaint.Rating.Valid {
		detail.Rating = &complaint.Rating.Int64
	}
	if complaint.RatingRemarks.Valid {
		detail.RatingRemarks = &complaint.RatingRemarks.String
	}
	if complaint.RejectionReason.Valid {
		detail.RejectionReason = &complaint.RejectionReason.String
	}
	if complaint.UpdatedAt.Valid {
		detail.UpdatedAt = &complaint.UpdatedAt.Time
	}

	for _, t := range history {
		view := models.TransactionView{
			TransactionID: t.TransactionID,
			Type:          string(t.Type),
			CreatedBy:     t.CreatedBy,
			CreatedAt:     t.CreatedAt,
		}
		if t.FromUser.Valid {
			view.FromUser = &t.FromUser.String
		}
		if t.ToUser.Valid {
			view.ToUser = &t.ToUser.String
		}
		if t.FromDepartment.Valid {
			view.FromDepartment = &t.FromDepartment.String
		}
		if t.ToDepartment.Valid {
			view.ToDepartment = &t.ToDepartment.String
		}
		if t.Remarks.Valid {
			view.Remarks = &t.Remarks.String
		}
		detail.Transactions = append(detail.Transactions, view)
	}
	return detail, nil
}
