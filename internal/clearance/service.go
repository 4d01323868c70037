package clearance

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sgovph/sgov-backend/internal/apperr"
	"github.com/sgovph/sgov-backend/internal/models"
	"github.com/sgovph/sgov-backend/internal/notify"
)

// Store is the persistence the workflow needs; *Repo implements it.
type Store interface {
	Request(ctx context.Context, userID, orgID uuid.UUID) (models.Clearance, error)
	Decide(ctx context.Context, recordID uuid.UUID, status models.ClearanceStatus, remarks, transactionCode *string) (userID, orgID uuid.UUID, err error)
	ByID(ctx context.Context, recordID uuid.UUID) (models.Clearance, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ClearanceWithOrg, error)
	ListPending(ctx context.Context, orgID uuid.UUID) ([]models.ClearanceWithUser, error)
}

// Directory resolves organization membership and display names.
type Directory interface {
	ListAdmins(ctx context.Context, orgID uuid.UUID) ([]uuid.UUID, error)
	OrganizationName(ctx context.Context, orgID uuid.UUID) (string, error)
}

// Service drives the per-(student, organization) clearance state machine.
type Service struct {
	store Store
	dir   Directory
	sink  notify.Sink
	log   *zap.Logger
}

func NewService(store Store, dir Directory, sink notify.Sink, log *zap.Logger) *Service {
	return &Service{store: store, dir: dir, sink: sink, log: log}
}

// Request opens (or recycles a rejected) clearance request and notifies
// every admin of the organization. The fan-out is best-effort and
// independent per admin.
func (s *Service) Request(ctx context.Context, userID, orgID uuid.UUID) (models.Clearance, error) {
	c, err := s.store.Request(ctx, userID, orgID)
	if err != nil {
		return models.Clearance{}, err
	}

	admins, err := s.dir.ListAdmins(ctx, orgID)
	if err != nil {
		s.log.Warn("admin lookup failed, skipping clearance fan-out",
			zap.String("organization_id", orgID.String()), zap.Error(err))
		return c, nil
	}
	related := userID
	for _, adminID := range admins {
		s.sink.Emit(ctx, notify.Note{
			UserID:    adminID,
			Title:     "New Clearance Request",
			Message:   "A student has requested clearance approval.",
			Type:      models.NotifClearance,
			RelatedID: &related,
		})
	}
	return c, nil
}

// Decide approves or rejects a pending request. Approval issues the
// transaction code; rejection may carry remarks. The student notification
// needs the organization name; if that lookup fails the decision still
// stands and only the notification is dropped.
func (s *Service) Decide(ctx context.Context, recordID uuid.UUID, status models.ClearanceStatus, remarks *string) (models.Clearance, error) {
	if status != models.ClearanceApproved && status != models.ClearanceRejected {
		return models.Clearance{}, apperr.Validation("status must be approved or rejected")
	}

	var code *string
	if status == models.ClearanceApproved {
		c := newTransactionCode()
		code = &c
	}

	userID, orgID, err := s.store.Decide(ctx, recordID, status, remarks, code)
	if err != nil {
		return models.Clearance{}, err
	}

	decided, err := s.store.ByID(ctx, recordID)
	if err != nil {
		// The decision committed; surface the record we know.
		decided = models.Clearance{ID: recordID, UserID: userID, OrganizationID: orgID, Status: status, Remarks: remarks, TransactionCode: code}
	}

	orgName, err := s.dir.OrganizationName(ctx, orgID)
	if err != nil {
		s.log.Warn("organization name lookup failed, skipping decision notification",
			zap.String("organization_id", orgID.String()), zap.Error(err))
		return decided, nil
	}

	verdict := "approved"
	title := "Clearance Approved"
	if status == models.ClearanceRejected {
		verdict = "rejected"
		title = "Clearance Rejected"
	}
	related := orgID
	s.sink.Emit(ctx, notify.Note{
		UserID:    userID,
		Title:     title,
		Message:   "Your clearance for " + orgName + " has been " + verdict + ".",
		Type:      models.NotifClearance,
		RelatedID: &related,
	})
	return decided, nil
}

func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ClearanceWithOrg, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *Service) ListPending(ctx context.Context, orgID uuid.UUID) ([]models.ClearanceWithUser, error) {
	return s.store.ListPending(ctx, orgID)
}

// newTransactionCode is the proof-of-approval reference: the first eight
// characters of a fresh UUID, uppercased.
func newTransactionCode() string {
	return strings.ToUpper(uuid.NewString()[:8])
}
