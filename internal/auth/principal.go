package auth

import (
	"github.com/google/uuid"

	"github.com/sgovph/sgov-backend/internal/models"
)

// Principal is the authenticated caller, passed explicitly to every core
// operation. There is no ambient session state.
type Principal struct {
	UserID uuid.UUID
	Role   models.Role
}
