package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sgovph/sgov-backend/internal/auth"
	"github.com/sgovph/sgov-backend/internal/metrics"
)

func (s *Server) handleAwardPoints(c *gin.Context) {
	metrics.Requests.WithLabelValues("points.award").Inc()
	// Points is a pointer so a correction of 0 passes validation.
	var req struct {
		UserID uuid.UUID `json:"user_id" binding:"required"`
		Points *int      `json:"points" binding:"required"`
		Reason string    `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	p, _ := auth.FromContext(c)
	entry, err := s.pts.Award(c.Request.Context(), req.UserID, *req.Points, req.Reason, p.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// handleListPoints serves a student's own ledger; admins may read anyone's.
func (s *Server) handleListPoints(c *gin.Context) {
	metrics.Requests.WithLabelValues("points.history").Inc()
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid user id")
		return
	}
	p, _ := auth.FromContext(c)
	if p.UserID != userID && !p.Role.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"code": "forbidden", "error": "cannot read another user's points"})
		return
	}
	entries, err := s.pts.History(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (s *Server) handleTotalPoints(c *gin.Context) {
	metrics.Requests.WithLabelValues("points.total").Inc()
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid user id")
		return
	}
	p, _ := auth.FromContext(c)
	if p.UserID != userID && !p.Role.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"code": "forbidden", "error": "cannot read another user's points"})
		return
	}
	total, err := s.pts.Total(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total})
}
