package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sgovph/sgov-backend/internal/auth"
	"github.com/sgovph/sgov-backend/internal/metrics"
	"github.com/sgovph/sgov-backend/internal/models"
)

// userView strips the credential column from user responses.
func userView(u models.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"role":       u.Role,
		"department": u.Department,
		"student_id": u.StudentID,
		"qr_code":    u.QRCode,
		"created_at": u.CreatedAt,
	}
}

func (s *Server) handleListOrganizations(c *gin.Context) {
	metrics.Requests.WithLabelValues("organizations.list").Inc()
	orgs, err := s.dirs.ListOrganizations(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"organizations": orgs})
}

func (s *Server) handleCreateOrganization(c *gin.Context) {
	metrics.Requests.WithLabelValues("organizations.create").Inc()
	var req struct {
		Name       string  `json:"name" binding:"required"`
		Type       string  `json:"type" binding:"required,oneof=ssg department club"`
		Department *string `json:"department"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	org, err := s.dirs.InsertOrganization(c.Request.Context(), models.Organization{
		Name:       req.Name,
		Type:       models.OrgType(req.Type),
		Department: req.Department,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, org)
}

func (s *Server) handleUpdateOrganization(c *gin.Context) {
	metrics.Requests.WithLabelValues("organizations.update").Inc()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid organization id")
		return
	}
	var req struct {
		Name       string  `json:"name" binding:"required"`
		Type       string  `json:"type" binding:"required,oneof=ssg department club"`
		Department *string `json:"department"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	upd := models.Organization{
		ID:         id,
		Name:       req.Name,
		Type:       models.OrgType(req.Type),
		Department: req.Department,
	}
	if err := s.dirs.UpdateOrganization(c.Request.Context(), upd); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleDeleteOrganization(c *gin.Context) {
	metrics.Requests.WithLabelValues("organizations.delete").Inc()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid organization id")
		return
	}
	if err := s.dirs.DeleteOrganization(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListMembers(c *gin.Context) {
	metrics.Requests.WithLabelValues("organizations.members").Inc()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid organization id")
		return
	}
	members, err := s.dirs.ListMembers(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

func (s *Server) handleUpsertMember(c *gin.Context) {
	metrics.Requests.WithLabelValues("organizations.upsert_member").Inc()
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid organization id")
		return
	}
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		badRequest(c, "invalid user id")
		return
	}
	var req struct {
		IsAdmin bool `json:"is_admin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := s.dirs.UpsertMember(c.Request.Context(), orgID, userID, req.IsAdmin); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleRemoveMember(c *gin.Context) {
	metrics.Requests.WithLabelValues("organizations.remove_member").Inc()
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid organization id")
		return
	}
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		badRequest(c, "invalid user id")
		return
	}
	if err := s.dirs.RemoveMember(c.Request.Context(), orgID, userID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListUsers(c *gin.Context) {
	metrics.Requests.WithLabelValues("users.list").Inc()
	users, err := s.dirs.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]gin.H, 0, len(users))
	for _, u := range users {
		views = append(views, userView(u))
	}
	c.JSON(http.StatusOK, gin.H{"users": views})
}

func (s *Server) handleGetUser(c *gin.Context) {
	metrics.Requests.WithLabelValues("users.get").Inc()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid user id")
		return
	}
	u, err := s.dirs.UserByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userView(u))
}

func (s *Server) handleUpdateRole(c *gin.Context) {
	metrics.Requests.WithLabelValues("users.update_role").Inc()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid user id")
		return
	}
	var req struct {
		Role string `json:"role" binding:"required,oneof=ssg_admin club_admin department_admin officer student"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := s.dirs.UpdateUserRole(c.Request.Context(), id, models.Role(req.Role)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	metrics.Requests.WithLabelValues("users.update_profile").Inc()
	var req struct {
		Name       string  `json:"name" binding:"required"`
		Department *string `json:"department"`
		StudentID  *string `json:"student_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	p, _ := auth.FromContext(c)
	if err := s.dirs.UpdateUserProfile(c.Request.Context(), p.UserID, req.Name, req.Department, req.StudentID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleGenerateQR(c *gin.Context) {
	metrics.Requests.WithLabelValues("users.generate_qr").Inc()
	p, _ := auth.FromContext(c)
	qr, err := s.dir.GenerateQR(c.Request.Context(), p.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"qr_code": qr})
}
