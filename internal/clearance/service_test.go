package clearance_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sgovph/sgov-backend/internal/apperr"
	"github.com/sgovph/sgov-backend/internal/clearance"
	"github.com/sgovph/sgov-backend/internal/models"
	"github.com/sgovph/sgov-backend/internal/notify"
)

type fakeStore struct {
	requested models.Clearance
	reqErr    error

	decideErr   error
	gotStatus   models.ClearanceStatus
	gotCode     *string
	gotRemarks  *string
	decidedUser uuid.UUID
	decidedOrg  uuid.UUID
}

func (f *fakeStore) Request(_ context.Context, userID, orgID uuid.UUID) (models.Clearance, error) {
	if f.reqErr != nil {
		return models.Clearance{}, f.reqErr
	}
	f.requested = models.Clearance{ID: uuid.New(), UserID: userID, OrganizationID: orgID, Status: models.ClearancePending}
	return f.requested, nil
}

func (f *fakeStore) Decide(_ context.Context, _ uuid.UUID, status models.ClearanceStatus, remarks, code *string) (uuid.UUID, uuid.UUID, error) {
	if f.decideErr != nil {
		return uuid.Nil, uuid.Nil, f.decideErr
	}
	f.gotStatus, f.gotRemarks, f.gotCode = status, remarks, code
	return f.decidedUser, f.decidedOrg, nil
}

func (f *fakeStore) ByID(_ context.Context, id uuid.UUID) (models.Clearance, error) {
	return models.Clearance{
		ID:              id,
		UserID:          f.decidedUser,
		OrganizationID:  f.decidedOrg,
		Status:          f.gotStatus,
		Remarks:         f.gotRemarks,
		TransactionCode: f.gotCode,
	}, nil
}

func (f *fakeStore) ListByUser(context.Context, uuid.UUID) ([]models.ClearanceWithOrg, error) {
	return nil, nil
}

func (f *fakeStore) ListPending(context.Context, uuid.UUID) ([]models.ClearanceWithUser, error) {
	return nil, nil
}

type fakeDirectory struct {
	admins    []uuid.UUID
	adminsErr error
	orgName   string
	nameErr   error
}

func (f *fakeDirectory) ListAdmins(context.Context, uuid.UUID) ([]uuid.UUID, error) {
	return f.admins, f.adminsErr
}

func (f *fakeDirectory) OrganizationName(context.Context, uuid.UUID) (string, error) {
	return f.orgName, f.nameErr
}

type fakeSink struct {
	notes []notify.Note
}

func (f *fakeSink) Emit(_ context.Context, n notify.Note) { f.notes = append(f.notes, n) }

func TestRequest_FansOutToAdmins(t *testing.T) {
	admins := []uuid.UUID{uuid.New(), uuid.New()}
	store := &fakeStore{}
	sink := &fakeSink{}
	svc := clearance.NewService(store, &fakeDirectory{admins: admins}, sink, zap.NewNop())

	c, err := svc.Request(context.Background(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	if c.Status != models.ClearancePending {
		t.Fatalf("status = %q, want pending", c.Status)
	}
	if len(sink.notes) != len(admins) {
		t.Fatalf("notes = %d, want %d", len(sink.notes), len(admins))
	}
	for i, n := range sink.notes {
		if n.UserID != admins[i] || n.Title != "New Clearance Request" {
			t.Fatalf("note %d = %+v", i, n)
		}
	}
}

func TestRequest_AdminLookupFailureDegrades(t *testing.T) {
	sink := &fakeSink{}
	svc := clearance.NewService(&fakeStore{}, &fakeDirectory{adminsErr: errors.New("boom")}, sink, zap.NewNop())

	if _, err := svc.Request(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("request failed on fan-out lookup: %v", err)
	}
	if len(sink.notes) != 0 {
		t.Fatal("notes emitted without admin list")
	}
}

func TestRequest_DuplicatePropagates(t *testing.T) {
	store := &fakeStore{reqErr: apperr.ErrDuplicateRequest}
	svc := clearance.NewService(store, &fakeDirectory{}, &fakeSink{}, zap.NewNop())

	_, err := svc.Request(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, apperr.ErrDuplicateRequest) {
		t.Fatalf("err = %v, want duplicate", err)
	}
}

func TestDecide_ApproveIssuesTransactionCode(t *testing.T) {
	store := &fakeStore{decidedUser: uuid.New(), decidedOrg: uuid.New()}
	sink := &fakeSink{}
	svc := clearance.NewService(store, &fakeDirectory{orgName: "Glee Club"}, sink, zap.NewNop())

	c, err := svc.Decide(context.Background(), uuid.New(), models.ClearanceApproved, nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.TransactionCode == nil {
		t.Fatal("approved clearance has no transaction code")
	}
	code := *c.TransactionCode
	if len(code) != 8 {
		t.Fatalf("code %q length = %d, want 8", code, len(code))
	}
	if code != strings.ToUpper(code) {
		t.Fatalf("code %q not uppercase", code)
	}
	if len(sink.notes) != 1 {
		t.Fatalf("notes = %d, want 1", len(sink.notes))
	}
	n := sink.notes[0]
	if n.Title != "Clearance Approved" {
		t.Fatalf("title = %q", n.Title)
	}
	if n.Message != "Your clearance for Glee Club has been approved." {
		t.Fatalf("message = %q", n.Message)
	}
}

func TestDecide_RejectCarriesNoCode(t *testing.T) {
	store := &fakeStore{decidedUser: uuid.New(), decidedOrg: uuid.New()}
	sink := &fakeSink{}
	svc := clearance.NewService(store, &fakeDirectory{orgName: "Glee Club"}, sink, zap.NewNop())

	remarks := "incomplete requirements"
	c, err := svc.Decide(context.Background(), uuid.New(), models.ClearanceRejected, &remarks)
	if err != nil {
		t.Fatal(err)
	}
	if c.TransactionCode != nil {
		t.Fatalf("rejected clearance got code %q", *c.TransactionCode)
	}
	if c.Remarks == nil || *c.Remarks != remarks {
		t.Fatalf("remarks = %v, want %q", c.Remarks, remarks)
	}
	if sink.notes[0].Message != "Your clearance for Glee Club has been rejected." {
		t.Fatalf("message = %q", sink.notes[0].Message)
	}
}

func TestDecide_RejectsOtherStatuses(t *testing.T) {
	svc := clearance.NewService(&fakeStore{}, &fakeDirectory{}, &fakeSink{}, zap.NewNop())
	_, err := svc.Decide(context.Background(), uuid.New(), models.ClearancePending, nil)
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestDecide_OrgNameFailureKeepsDecision(t *testing.T) {
	store := &fakeStore{decidedUser: uuid.New(), decidedOrg: uuid.New()}
	sink := &fakeSink{}
	svc := clearance.NewService(store, &fakeDirectory{nameErr: errors.New("down")}, sink, zap.NewNop())

	c, err := svc.Decide(context.Background(), uuid.New(), models.ClearanceApproved, nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.Status != models.ClearanceApproved {
		t.Fatalf("status = %q, want approved", c.Status)
	}
	if len(sink.notes) != 0 {
		t.Fatal("notification sent without an organization name")
	}
}

func TestDecide_InvalidTransitionPropagates(t *testing.T) {
	store := &fakeStore{decideErr: apperr.ErrInvalidTransition}
	svc := clearance.NewService(store, &fakeDirectory{}, &fakeSink{}, zap.NewNop())

	_, err := svc.Decide(context.Background(), uuid.New(), models.ClearanceApproved, nil)
	if !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Fatalf("err = %v, want invalid transition", err)
	}
}
