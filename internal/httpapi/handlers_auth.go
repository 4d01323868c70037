package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sgovph/sgov-backend/internal/auth"
	"github.com/sgovph/sgov-backend/internal/metrics"
)

func (s *Server) handleRegister(c *gin.Context) {
	metrics.Requests.WithLabelValues("auth.register").Inc()
	var req struct {
		Name       string  `json:"name" binding:"required"`
		Email      string  `json:"email" binding:"required,email"`
		Password   string  `json:"password" binding:"required,min=8"`
		StudentID  *string `json:"student_id"`
		Department *string `json:"department"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	u, err := s.dir.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.StudentID, req.Department)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": u.ID, "name": u.Name, "email": u.Email, "role": u.Role})
}

func (s *Server) handleLogin(c *gin.Context) {
	metrics.Requests.WithLabelValues("auth.login").Inc()
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	u, err := s.dir.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"code": "unauthorized", "error": "invalid credentials"})
		return
	}
	token, exp, err := auth.Issue(u.ID.String(), string(u.Role), s.cfg.JWTIssuer, s.cfg.JWTSigningKey, s.cfg.AccessTTL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"expires_at":   exp.Unix(),
		"user":         gin.H{"id": u.ID, "name": u.Name, "email": u.Email, "role": u.Role},
	})
}
