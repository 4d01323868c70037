package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sgovph/sgov-backend/internal/metrics"
	"github.com/sgovph/sgov-backend/internal/models"
)

type eventRequest struct {
	Title          string    `json:"title" binding:"required"`
	Description    string    `json:"description"`
	Date           time.Time `json:"date" binding:"required"`
	StartTime      string    `json:"start_time" binding:"required"`
	EndTime        string    `json:"end_time" binding:"required"`
	Location       string    `json:"location"`
	OrganizationID uuid.UUID `json:"organization_id" binding:"required"`
	Mandatory      bool      `json:"mandatory"`
	Sanction       *string   `json:"sanction"`
}

func (req eventRequest) model() models.Event {
	return models.Event{
		Title:          req.Title,
		Description:    req.Description,
		Date:           req.Date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Location:       req.Location,
		OrganizationID: req.OrganizationID,
		Mandatory:      req.Mandatory,
		Sanction:       req.Sanction,
	}
}

func (s *Server) handleListEvents(c *gin.Context) {
	metrics.Requests.WithLabelValues("events.list").Inc()
	evs, err := s.evt.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": evs})
}

func (s *Server) handleGetEvent(c *gin.Context) {
	metrics.Requests.WithLabelValues("events.get").Inc()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid event id")
		return
	}
	ev, err := s.evt.ByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

func (s *Server) handleCreateEvent(c *gin.Context) {
	metrics.Requests.WithLabelValues("events.create").Inc()
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	ev, err := s.evt.Insert(c.Request.Context(), req.model())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ev)
}

func (s *Server) handleUpdateEvent(c *gin.Context) {
	metrics.Requests.WithLabelValues("events.update").Inc()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid event id")
		return
	}
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	ev := req.model()
	ev.ID = id
	if err := s.evt.Update(c.Request.Context(), ev); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleDeleteEvent(c *gin.Context) {
	metrics.Requests.WithLabelValues("events.delete").Inc()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid event id")
		return
	}
	if err := s.evt.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSetOfficers(c *gin.Context) {
	metrics.Requests.WithLabelValues("events.set_officers").Inc()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid event id")
		return
	}
	var req struct {
		OfficerIDs []uuid.UUID `json:"officer_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := s.evt.SetOfficers(c.Request.Context(), id, req.OfficerIDs); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
