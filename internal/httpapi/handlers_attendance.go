package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sgovph/sgov-backend/internal/auth"
	"github.com/sgovph/sgov-backend/internal/export"
	"github.com/sgovph/sgov-backend/internal/metrics"
	"github.com/sgovph/sgov-backend/internal/models"
)

func (s *Server) handleRecordAttendance(c *gin.Context) {
	metrics.Requests.WithLabelValues("attendance.record").Inc()
	var req struct {
		EventID uuid.UUID `json:"event_id" binding:"required"`
		UserID  uuid.UUID `json:"user_id" binding:"required"`
		Action  string    `json:"action" binding:"required,oneof=check_in check_out"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	rec, err := s.att.Record(c.Request.Context(), req.EventID, req.UserID, models.AttendanceAction(req.Action))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleUpdateAttendanceStatus(c *gin.Context) {
	metrics.Requests.WithLabelValues("attendance.update_status").Inc()
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid record id")
		return
	}
	var req struct {
		Status string `json:"status" binding:"required,oneof=present late absent excused"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := s.att.UpdateStatus(c.Request.Context(), recordID, models.AttendanceStatus(req.Status)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListEventAttendance(c *gin.Context) {
	metrics.Requests.WithLabelValues("attendance.list_by_event").Inc()
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid event id")
		return
	}
	records, err := s.att.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

// handleListUserAttendance serves a student's own history; admins and
// officers may read anyone's.
func (s *Server) handleListUserAttendance(c *gin.Context) {
	metrics.Requests.WithLabelValues("attendance.list_by_user").Inc()
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid user id")
		return
	}
	p, _ := auth.FromContext(c)
	if p.UserID != userID && !auth.Allowed(p.Role, auth.OpListEventAttendance) {
		c.JSON(http.StatusForbidden, gin.H{"code": "forbidden", "error": "cannot read another user's attendance"})
		return
	}
	records, err := s.att.ListByUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (s *Server) handleExportAttendance(c *gin.Context) {
	metrics.Requests.WithLabelValues("attendance.export").Inc()
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid event id")
		return
	}
	event, err := s.evt.ByID(c.Request.Context(), eventID)
	if err != nil {
		writeError(c, err)
		return
	}
	records, err := s.att.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		writeError(c, err)
		return
	}
	wb, err := export.AttendanceSheet(event, records, s.cfg.Location)
	if err != nil {
		writeError(c, err)
		return
	}
	filename := export.BuildAttendanceFilename(event.Title, event.Date)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := wb.Write(c.Writer); err != nil {
		s.log.Sugar.Warnw("attendance export write failed", "event_id", eventID, "err", err)
	}
}
