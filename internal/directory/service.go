package directory

import (
	"context"
	"net/url"

	"github.com/google/uuid"

	"github.com/sgovph/sgov-backend/internal/apperr"
	"github.com/sgovph/sgov-backend/internal/auth"
	"github.com/sgovph/sgov-backend/internal/models"
)

// Service wraps the repo with registration, login and QR derivation.
type Service struct {
	repo         *Repo
	qrServiceURL string
}

func NewService(repo *Repo, qrServiceURL string) *Service {
	return &Service{repo: repo, qrServiceURL: qrServiceURL}
}

// Register creates a student account. Role escalation happens later through
// UpdateRole by an SSG admin.
func (s *Service) Register(ctx context.Context, name, email, password string, studentID, department *string) (models.User, error) {
	if name == "" || email == "" || password == "" {
		return models.User{}, apperr.Validation("name, email and password are required")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	return s.repo.InsertUser(ctx, models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.Student,
		StudentID:    studentID,
		Department:   department,
	})
}

// Authenticate resolves credentials to a user. Wrong email and wrong
// password report the same validation error.
func (s *Service) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	u, err := s.repo.UserByEmail(ctx, email)
	if err != nil {
		return models.User{}, apperr.Validation("invalid credentials")
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return models.User{}, apperr.Validation("invalid credentials")
	}
	return u, nil
}

// GenerateQR derives the opaque QR reference for a user from their student
// number and stores it. The QR image itself is served by an external
// service; we only keep the URL.
func (s *Service) GenerateQR(ctx context.Context, userID uuid.UUID) (string, error) {
	u, err := s.repo.UserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if u.StudentID == nil || *u.StudentID == "" {
		return "", apperr.Validation("user has no student id")
	}
	qr := s.qrServiceURL + url.QueryEscape(*u.StudentID)
	if err := s.repo.SetQRCode(ctx, userID, qr); err != nil {
		return "", err
	}
	return qr, nil
}
