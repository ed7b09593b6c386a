package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"railgriev/models"
	"railgriev/repository"
)

type fakeComplaintStore struct {
	seq        int64
	complaints map[string]*models.Complaint
}

func newFakeComplaintStore() *fakeComplaintStore {
	return &fakeComplaintStore{complaints: make(map[string]*models.Complaint)}
}

func (f *fakeComplaintStore) GenerateComplaintNumber() (string, error) {
	f.seq++
	return fmt.Sprintf("CMP20260310%04d", f.seq), nil
}

func (f *fakeComplaintStore) CreateComplaint(c *models.Complaint) error {
	c.ComplaintID = f.seq
	c.CreatedAt = time.Now()
	f.complaints[c.ComplaintNumber] = c
	return nil
}

func (f *fakeComplaintStore) GetComplaintByNumber(number string) (*models.Complaint, error) {
	c, ok := f.complaints[number]
	if !ok {
		return nil, repository.ErrComplaintNotFound
	}
	snapshot := *c
	return &snapshot, nil
}

func (f *fakeComplaintStore) GetComplaintsByCustomerID(customerID int64) ([]models.Complaint, error) {
	var out []models.Complaint
	for _, c := range f.complaints {
		if c.CustomerID == customerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeComplaintStore) SearchWithFilters(filter repository.ComplaintFilter) ([]models.Complaint, error) {
	var out []models.Complaint
	for _, c := range f.complaints {
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeComplaintStore) UpdateState(id int64, state models.ComplaintState) error {
	for _, c := range f.complaints {
		if c.ComplaintID != id {
			continue
		}
		cols := state.Columns()
		c.Status = cols.Status
		c.ForwardedFlag = cols.ForwardedFlag
		c.AwaitingFlag = cols.AwaitingFlag
		c.AssignedTo = cols.AssignedTo
		if cols.ActionTaken.Valid {
			c.ActionTaken = cols.ActionTaken
		}
		if cols.Reason.Valid {
			c.RejectionReason = cols.Reason
		}
		if cols.Rating.Valid {
			c.Rating = cols.Rating
		}
		if cols.RatingRemarks.Valid {
			c.RatingRemarks = cols.RatingRemarks
		}
		return nil
	}
	return repository.ErrComplaintNotFound
}

type fakeTxnStore struct {
	entries []models.Transaction
}

func (f *fakeTxnStore) Append(t *models.Transaction) (int64, error) {
	t.TransactionID = int64(len(f.entries) + 1)
	t.CreatedAt = time.Now()
	f.entries = append(f.entries, *t)
	return t.TransactionID, nil
}

func (f *fakeTxnStore) HistoryOf(complaintID int64) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, e := range f.entries {
		if e.ComplaintID == complaintID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeCatalog struct {
	valid map[string]bool
}

func (f *fakeCatalog) IsValidCombination(category, typ, subtype string) (bool, error) {
	return f.valid[category+"/"+typ+"/"+subtype], nil
}

func newLifecycleFixture() (*ComplaintService, *fakeComplaintStore, *fakeTxnStore) {
	store := newFakeComplaintStore()
	txns := &fakeTxnStore{}
	catalog := &fakeCatalog{valid: map[string]bool{
		"Wagon Supply/Delay/Coal Rake": true,
	}}
	sheds := &fakeShedLookup{sheds: map[string]*models.Shed{
		"TKD": {ShedCode: "TKD", Division: "DLI", Zone: "NR"},
	}}
	controllers := &fakeControllerLookup{controllers: map[string]*models.StaffUser{
		"DLI/NR": {Login: "ram.kumar", Department: "COMMERCIAL"},
	}}
	routing := NewRoutingService(sheds, controllers)
	svc := NewComplaintService(store, txns, catalog, routing, nil)
	return svc, store, txns
}

var (
	customerCtx = models.RequestContext{CustomerID: 7}
	holderCtx   = models.RequestContext{StaffLogin: "ram.kumar", StaffRole: models.RoleController, Department: "COMMERCIAL", Division: "DLI"}
	headCtx     = models.RequestContext{StaffLogin: "s.gupta", StaffRole: models.RoleDeptHead, Department: "COMMERCIAL"}
)

func submitComplaint(t *testing.T, svc *ComplaintService) *models.Complaint {
	t.Helper()
	complaint, err := svc.Submit(customerCtx, &models.SubmitComplaintRequest{
		Category:    "Wagon Supply",
		Type:        "Delay",
		SubType:     "Coal Rake",
		Description: "Coal rake pending at TKD siding for four days",
		ShedCode:    "TKD",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	return complaint
}

func TestSubmitCreatesPendingComplaint(t *testing.T) {
	svc, store, txns := newLifecycleFixture()

	complaint := submitComplaint(t, svc)
	if complaint.Status != models.StatusPending {
		t.Errorf("expected Pending, got %s", complaint.Status)
	}
	if complaint.Priority != models.PriorityLow {
		t.Errorf("new complaints start Low, got %s", complaint.Priority)
	}
	if complaint.ForwardedFlag != models.FlagNo || complaint.AwaitingFlag != models.FlagNo {
		t.Errorf("expected both flags N, got %s/%s", complaint.ForwardedFlag, complaint.AwaitingFlag)
	}
	if complaint.AssignedTo.String != "ram.kumar" {
		t.Errorf("expected routed controller, got %q", complaint.AssignedTo.String)
	}
	if complaint.Division.String != "DLI" || complaint.Zone.String != "NR" {
		t.Errorf("expected shed scope DLI/NR, got %q/%q", complaint.Division.String, complaint.Zone.String)
	}

	stored := store.complaints[complaint.ComplaintNumber]
	if stored == nil {
		t.Fatal("complaint not persisted")
	}
	if len(txns.entries) != 1 || txns.entries[0].Type != models.TxnCreate {
		t.Errorf("expected a single create transaction, got %+v", txns.entries)
	}
}

func TestSubmitRejectsUnknownCategory(t *testing.T) {
	svc, _, _ := newLifecycleFixture()

	_, err := svc.Submit(customerCtx, &models.SubmitComplaintRequest{
		Category:    "Wagon Supply",
		Type:        "Delay",
		SubType:     "Nonexistent",
		Description: "does not matter for this test",
	})
	if !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestForwardRequiresHolder(t *testing.T) {
	svc, _, _ := newLifecycleFixture()
	complaint := submitComplaint(t, svc)

	stranger := models.RequestContext{StaffLogin: "someone.else", StaffRole: models.RoleOfficer, Department: "MECHANICAL"}
	err := svc.Forward(stranger, complaint.ComplaintNumber, &models.ForwardRequest{ToDepartment: "MECHANICAL"})
	if !errors.Is(err, ErrNotHolder) {
		t.Errorf("expected ErrNotHolder, got %v", err)
	}
}

func TestForwardSetsFlagAndReassigns(t *testing.T) {
	svc, store, txns := newLifecycleFixture()
	complaint := submitComplaint(t, svc)

	err := svc.Forward(holderCtx, complaint.ComplaintNumber, &models.ForwardRequest{
		ToDepartment: "MECHANICAL",
		Remarks:      "Wagon examination issue",
	})
	if err != nil {
		t.Fatalf("forward failed: %v", err)
	}

	stored := store.complaints[complaint.ComplaintNumber]
	if stored.Status != models.StatusPending {
		t.Errorf("forwarded complaint stays Pending, got %s", stored.Status)
	}
	if stored.ForwardedFlag != models.FlagYes {
		t.Errorf("expected forwarded_flag Y, got %s", stored.ForwardedFlag)
	}
	if stored.AssignedTo.String != "MECHANICAL" {
		t.Errorf("expected new assignee MECHANICAL, got %q", stored.AssignedTo.String)
	}

	last := txns.entries[len(txns.entries)-1]
	if last.Type != models.TxnForward {
		t.Errorf("expected forward transaction, got %s", last.Type)
	}
	if last.FromUser.String != "ram.kumar" || last.ToDepartment.String != "MECHANICAL" {
		t.Errorf("forward transaction missing from/to, got %+v", last)
	}
}

func TestReplyThenFeedbackClosesComplaint(t *testing.T) {
	svc, store, txns := newLifecycleFixture()
	complaint := submitComplaint(t, svc)

	if err := svc.Reply(holderCtx, complaint.ComplaintNumber, &models.ReplyRequest{ActionTaken: "Rake allotted on priority"}); err != nil {
		t.Fatalf("reply failed: %v", err)
	}
	stored := store.complaints[complaint.ComplaintNumber]
	if stored.Status != models.StatusReplied {
		t.Fatalf("expected Replied, got %s", stored.Status)
	}
	if stored.AssignedTo.Valid {
		t.Errorf("replied complaint must release the assignee, got %q", stored.AssignedTo.String)
	}

	if err := svc.SubmitFeedback(customerCtx, complaint.ComplaintNumber, &models.FeedbackRequest{Rating: 4, Remarks: "Resolved quickly"}); err != nil {
		t.Fatalf("feedback failed: %v", err)
	}
	stored = store.complaints[complaint.ComplaintNumber]
	if stored.Status != models.StatusClosed {
		t.Errorf("expected Closed after feedback, got %s", stored.Status)
	}
	if !stored.Rating.Valid || stored.Rating.Int64 != 4 {
		t.Errorf("expected rating 4, got %+v", stored.Rating)
	}

	last := txns.entries[len(txns.entries)-1]
	if last.Type != models.TxnFeedback {
		t.Errorf("expected feedback transaction, got %s", last.Type)
	}
}

func TestFeedbackRejectsOtherCustomers(t *testing.T) {
	svc, _, _ := newLifecycleFixture()
	complaint := submitComplaint(t, svc)
	if err := svc.Reply(holderCtx, complaint.ComplaintNumber, &models.ReplyRequest{ActionTaken: "done"}); err != nil {
		t.Fatalf("reply failed: %v", err)
	}

	other := models.RequestContext{CustomerID: 99}
	err := svc.SubmitFeedback(other, complaint.ComplaintNumber, &models.FeedbackRequest{Rating: 1})
	if !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}
}

func TestCloseApproveFlow(t *testing.T) {
	svc, store, txns := newLifecycleFixture()
	complaint := submitComplaint(t, svc)

	if err := svc.Close(holderCtx, complaint.ComplaintNumber, &models.CloseRequest{ActionTaken: "Demurrage waived"}); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	stored := store.complaints[complaint.ComplaintNumber]
	if stored.Status != models.StatusAwaitingApproval {
		t.Fatalf("expected awaiting_approval, got %s", stored.Status)
	}
	if stored.AwaitingFlag != models.FlagYes {
		t.Errorf("expected awaiting_approval_flag Y, got %s", stored.AwaitingFlag)
	}

	// a controller cannot approve their own closure
	err := svc.Approve(holderCtx, complaint.ComplaintNumber, &models.DecisionRequest{})
	if !errors.Is(err, ErrApprovalRequired) {
		t.Errorf("expected ErrApprovalRequired for controller, got %v", err)
	}

	if err := svc.Approve(headCtx, complaint.ComplaintNumber, &models.DecisionRequest{Reason: "Verified"}); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	stored = store.complaints[complaint.ComplaintNumber]
	if stored.Status != models.StatusClosed {
		t.Errorf("expected Closed, got %s", stored.Status)
	}
	if stored.AssignedTo.Valid {
		t.Errorf("closed complaint must release the assignee, got %q", stored.AssignedTo.String)
	}

	last := txns.entries[len(txns.entries)-1]
	if last.Type != models.TxnApprove {
		t.Errorf("expected approve transaction, got %s", last.Type)
	}
}

func TestRejectRevertsToProposer(t *testing.T) {
	svc, store, txns := newLifecycleFixture()
	complaint := submitComplaint(t, svc)

	if err := svc.Close(holderCtx, complaint.ComplaintNumber, &models.CloseRequest{ActionTaken: "Demurrage waived"}); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if err := svc.Reject(headCtx, complaint.ComplaintNumber, &models.DecisionRequest{Reason: "Action not verified"}); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	stored := store.complaints[complaint.ComplaintNumber]
	if stored.Status != models.StatusReverted {
		t.Errorf("expected Reverted, got %s", stored.Status)
	}
	if stored.AssignedTo.String != "ram.kumar" {
		t.Errorf("rejection must hand the complaint back to the proposer, got %q", stored.AssignedTo.String)
	}
	if stored.RejectionReason.String != "Action not verified" {
		t.Errorf("expected rejection reason recorded, got %q", stored.RejectionReason.String)
	}

	last := txns.entries[len(txns.entries)-1]
	if last.Type != models.TxnReject {
		t.Errorf("expected reject transaction, got %s", last.Type)
	}
}

func TestResubmitReroutesRevertedComplaint(t *testing.T) {
	svc, store, _ := newLifecycleFixture()
	complaint := submitComplaint(t, svc)

	if err := svc.Revert(holderCtx, complaint.ComplaintNumber, &models.RevertRequest{ToUser: "customer", Reason: "Need wagon numbers"}); err != nil {
		t.Fatalf("revert failed: %v", err)
	}

	if err := svc.Resubmit(customerCtx, complaint.ComplaintNumber); err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}
	stored := store.complaints[complaint.ComplaintNumber]
	if stored.Status != models.StatusPending {
		t.Errorf("expected Pending after resubmission, got %s", stored.Status)
	}
	if stored.AssignedTo.String != "ram.kumar" {
		t.Errorf("resubmission should re-run routing, got %q", stored.AssignedTo.String)
	}

	// a second resubmit must fail: the complaint is no longer Reverted
	err := svc.Resubmit(customerCtx, complaint.ComplaintNumber)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestAddRemarkDoesNotTouchState(t *testing.T) {
	svc, store, txns := newLifecycleFixture()
	complaint := submitComplaint(t, svc)
	before := *store.complaints[complaint.ComplaintNumber]

	if err := svc.AddRemark(holderCtx, complaint.ComplaintNumber, &models.RemarkRequest{Remarks: "Spoke to yard master"}); err != nil {
		t.Fatalf("remark failed: %v", err)
	}

	after := store.complaints[complaint.ComplaintNumber]
	if after.Status != before.Status || after.AssignedTo != before.AssignedTo || after.ForwardedFlag != before.ForwardedFlag {
		t.Errorf("remark changed complaint state: before %+v after %+v", before, *after)
	}
	last := txns.entries[len(txns.entries)-1]
	if last.Type != models.TxnInternalRemark {
		t.Errorf("expected internal_remark transaction, got %s", last.Type)
	}
}

func TestGetDetailIncludesOrderedHistory(t *testing.T) {
	svc, _, _ := newLifecycleFixture()
	complaint := submitComplaint(t, svc)

	if err := svc.Forward(holderCtx, complaint.ComplaintNumber, &models.ForwardRequest{ToDepartment: "MECHANICAL"}); err != nil {
		t.Fatalf("forward failed: %v", err)
	}
	mech := models.RequestContext{StaffLogin: "mech.officer", StaffRole: models.RoleOfficer, Department: "MECHANICAL"}
	if err := svc.Reply(mech, complaint.ComplaintNumber, &models.ReplyRequest{ActionTaken: "Examined and cleared"}); err != nil {
		t.Fatalf("reply failed: %v", err)
	}

	detail, err := svc.GetDetail(customerCtx, complaint.ComplaintNumber)
	if err != nil {
		t.Fatalf("detail failed: %v", err)
	}
	want := []models.TransactionType{models.TxnCreate, models.TxnForward, models.TxnStatusUpdate}
	if len(detail.Transactions) != len(want) {
		t.Fatalf("expected %d history entries, got %d", len(want), len(detail.Transactions))
	}
	for i, w := range want {
		if detail.Transactions[i].Type != string(w) {
			t.Errorf("entry %d: expected %s, got %s", i, w, detail.Transactions[i].Type)
		}
	}
	// audit ids must be strictly increasing: the log is append-only
	for i := 1; i < len(detail.Transactions); i++ {
		if detail.Transactions[i].TransactionID <= detail.Transactions[i-1].TransactionID {
			t.Errorf("history out of order at %d: %+v", i, detail.Transactions)
		}
	}
}

func TestGetDetailHidesOtherCustomersComplaints(t *testing.T) {
	svc, _, _ := newLifecycleFixture()
	complaint := submitComplaint(t, svc)

	other := models.RequestContext{CustomerID: 99}
	if _, err := svc.GetDetail(other, complaint.ComplaintNumber); !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}

	// staff callers may view any complaint
	if _, err := svc.GetDetail(headCtx, complaint.ComplaintNumber); err != nil {
		t.Errorf("staff detail view failed: %v", err)
	}
}

func TestSubmitWithoutShedFallsBackToDefaultDepartment(t *testing.T) {
	svc, store, _ := newLifecycleFixture()

	complaint, err := svc.Submit(customerCtx, &models.SubmitComplaintRequest{
		Category:    "Wagon Supply",
		Type:        "Delay",
		SubType:     "Coal Rake",
		Description: "No shed for this one, straight to the default queue",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if complaint.AssignedTo.String != models.DefaultDepartment {
		t.Errorf("expected %s, got %q", models.DefaultDepartment, complaint.AssignedTo.String)
	}
	stored := store.complaints[complaint.ComplaintNumber]
	if stored.Division.Valid {
		t.Errorf("no shed: division must stay NULL, got %q", stored.Division.String)
	}
}
