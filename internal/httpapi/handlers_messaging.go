package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sgovph/sgov-backend/internal/auth"
	"github.com/sgovph/sgov-backend/internal/metrics"
)

func (s *Server) handleSendMessage(c *gin.Context) {
	metrics.Requests.WithLabelValues("messages.send").Inc()
	var req struct {
		ReceiverID uuid.UUID `json:"receiver_id" binding:"required"`
		Content    string    `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	p, _ := auth.FromContext(c)
	m, err := s.msg.Send(c.Request.Context(), p.UserID, req.ReceiverID, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (s *Server) handleConversations(c *gin.Context) {
	metrics.Requests.WithLabelValues("messages.conversations").Inc()
	p, _ := auth.FromContext(c)
	convs, err := s.msg.Conversations(c.Request.Context(), p.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": convs})
}

func (s *Server) handleThread(c *gin.Context) {
	metrics.Requests.WithLabelValues("messages.thread").Inc()
	partnerID, err := uuid.Parse(c.Param("partner_id"))
	if err != nil {
		badRequest(c, "invalid partner id")
		return
	}
	p, _ := auth.FromContext(c)
	msgs, err := s.msg.Thread(c.Request.Context(), p.UserID, partnerID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}
