package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sgovph/sgov-backend/internal/auth"
	"github.com/sgovph/sgov-backend/internal/metrics"
	"github.com/sgovph/sgov-backend/internal/models"
)

// handleRequestClearance opens a clearance request for the caller.
func (s *Server) handleRequestClearance(c *gin.Context) {
	metrics.Requests.WithLabelValues("clearance.request").Inc()
	var req struct {
		OrganizationID uuid.UUID `json:"organization_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	p, _ := auth.FromContext(c)
	clr, err := s.clr.Request(c.Request.Context(), p.UserID, req.OrganizationID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, clr)
}

func (s *Server) handleDecideClearance(c *gin.Context) {
	metrics.Requests.WithLabelValues("clearance.decide").Inc()
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid clearance id")
		return
	}
	var req struct {
		Status  string  `json:"status" binding:"required,oneof=approved rejected"`
		Remarks *string `json:"remarks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	clr, err := s.clr.Decide(c.Request.Context(), recordID, models.ClearanceStatus(req.Status), req.Remarks)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, clr)
}

func (s *Server) handleListPendingClearances(c *gin.Context) {
	metrics.Requests.WithLabelValues("clearance.list_pending").Inc()
	orgID := uuid.Nil
	if v := c.Query("organization_id"); v != "" {
		parsed, err := uuid.Parse(v)
		if err != nil {
			badRequest(c, "invalid organization id")
			return
		}
		orgID = parsed
	}
	pending, err := s.clr.ListPending(c.Request.Context(), orgID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clearances": pending})
}

func (s *Server) handleListUserClearances(c *gin.Context) {
	metrics.Requests.WithLabelValues("clearance.list_by_user").Inc()
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid user id")
		return
	}
	p, _ := auth.FromContext(c)
	if p.UserID != userID && !auth.Allowed(p.Role, auth.OpDecideClearance) {
		c.JSON(http.StatusForbidden, gin.H{"code": "forbidden", "error": "cannot read another user's clearances"})
		return
	}
	clrs, err := s.clr.ListByUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clearances": clrs})
}
