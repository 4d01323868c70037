package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sgovph/sgov-backend/internal/auth"
	"github.com/sgovph/sgov-backend/internal/metrics"
)

func (s *Server) handleListNotifications(c *gin.Context) {
	metrics.Requests.WithLabelValues("notifications.list").Inc()
	p, _ := auth.FromContext(c)
	notes, err := s.ntf.ListByUser(c.Request.Context(), p.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notes})
}

func (s *Server) handleUnreadCount(c *gin.Context) {
	metrics.Requests.WithLabelValues("notifications.unread_count").Inc()
	p, _ := auth.FromContext(c)
	n, err := s.ntf.UnreadCount(c.Request.Context(), p.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": n})
}

func (s *Server) handleMarkNotificationRead(c *gin.Context) {
	metrics.Requests.WithLabelValues("notifications.mark_read").Inc()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid notification id")
		return
	}
	if err := s.ntf.MarkRead(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleMarkAllNotificationsRead(c *gin.Context) {
	metrics.Requests.WithLabelValues("notifications.read_all").Inc()
	p, _ := auth.FromContext(c)
	if err := s.ntf.MarkAllRead(c.Request.Context(), p.UserID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
