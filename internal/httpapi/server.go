package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sgovph/sgov-backend/internal/attendance"
	"github.com/sgovph/sgov-backend/internal/auth"
	"github.com/sgovph/sgov-backend/internal/clearance"
	"github.com/sgovph/sgov-backend/internal/config"
	"github.com/sgovph/sgov-backend/internal/directory"
	"github.com/sgovph/sgov-backend/internal/events"
	"github.com/sgovph/sgov-backend/internal/logging"
	"github.com/sgovph/sgov-backend/internal/messaging"
	"github.com/sgovph/sgov-backend/internal/metrics"
	"github.com/sgovph/sgov-backend/internal/notify"
	"github.com/sgovph/sgov-backend/internal/points"
)

// Server wires the domain services behind one REST endpoint per operation.
type Server struct {
	cfg  *config.Config
	log  *logging.Log
	db   *sql.DB
	dir  *directory.Service
	dirs *directory.Repo
	att  *attendance.Service
	clr  *clearance.Service
	pts  *points.Service
	msg  *messaging.Service
	evt  *events.Repo
	ntf  *notify.Repo
}

type Deps struct {
	Cfg        *config.Config
	Log        *logging.Log
	DB         *sql.DB
	Directory  *directory.Service
	DirRepo    *directory.Repo
	Attendance *attendance.Service
	Clearance  *clearance.Service
	Points     *points.Service
	Messaging  *messaging.Service
	Events     *events.Repo
	Notify     *notify.Repo
}

func NewServer(d Deps) *Server {
	return &Server{
		cfg:  d.Cfg,
		log:  d.Log,
		db:   d.DB,
		dir:  d.Directory,
		dirs: d.DirRepo,
		att:  d.Attendance,
		clr:  d.Clearance,
		pts:  d.Points,
		msg:  d.Messaging,
		evt:  d.Events,
		ntf:  d.Notify,
	}
}

// Router assembles the gin engine.
func (s *Server) Router() *gin.Engine {
	if s.cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())
	r.Use(securityHeaders())
	r.Use(newTokenBucket(s.cfg.RateLimitPerMin, s.cfg.RateLimitPerMin).middleware())

	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/healthz", s.handleHealthz)

	r.POST("/v1/auth/register", s.handleRegister)
	r.POST("/v1/auth/login", s.handleLogin)

	v1 := r.Group("/v1", auth.Bearer(s.cfg.JWTSigningKey, s.cfg.JWTIssuer))

	// Attendance ledger
	v1.POST("/attendance", auth.Require(auth.OpRecordAttendance), s.handleRecordAttendance)
	v1.PATCH("/attendance/:id/status", auth.Require(auth.OpUpdateAttendanceStatus), s.handleUpdateAttendanceStatus)
	v1.GET("/events/:id/attendance", auth.Require(auth.OpListEventAttendance), s.handleListEventAttendance)
	v1.GET("/events/:id/attendance.xlsx", auth.Require(auth.OpExportAttendance), s.handleExportAttendance)
	v1.GET("/users/:id/attendance", s.handleListUserAttendance)

	// Clearance workflow
	v1.POST("/clearances", auth.Require(auth.OpRequestClearance), s.handleRequestClearance)
	v1.PATCH("/clearances/:id", auth.Require(auth.OpDecideClearance), s.handleDecideClearance)
	v1.GET("/clearances/pending", auth.Require(auth.OpListPendingClearances), s.handleListPendingClearances)
	v1.GET("/users/:id/clearances", s.handleListUserClearances)

	// Points ledger
	v1.POST("/points", auth.Require(auth.OpAwardPoints), s.handleAwardPoints)
	v1.GET("/users/:id/points", s.handleListPoints)
	v1.GET("/users/:id/points/total", s.handleTotalPoints)

	// Messaging
	v1.POST("/messages", s.handleSendMessage)
	v1.GET("/conversations", s.handleConversations)
	v1.GET("/conversations/:partner_id", s.handleThread)

	// Notifications (recipient read side)
	v1.GET("/notifications", s.handleListNotifications)
	v1.GET("/notifications/unread_count", s.handleUnreadCount)
	v1.PATCH("/notifications/:id/read", s.handleMarkNotificationRead)
	v1.POST("/notifications/read_all", s.handleMarkAllNotificationsRead)

	// Events
	v1.GET("/events", s.handleListEvents)
	v1.GET("/events/:id", s.handleGetEvent)
	v1.POST("/events", auth.Require(auth.OpManageEvents), s.handleCreateEvent)
	v1.PUT("/events/:id", auth.Require(auth.OpManageEvents), s.handleUpdateEvent)
	v1.DELETE("/events/:id", auth.Require(auth.OpManageEvents), s.handleDeleteEvent)
	v1.PUT("/events/:id/officers", auth.Require(auth.OpManageEvents), s.handleSetOfficers)

	// Organizations
	v1.GET("/organizations", s.handleListOrganizations)
	v1.POST("/organizations", auth.Require(auth.OpManageOrganizations), s.handleCreateOrganization)
	v1.PUT("/organizations/:id", auth.Require(auth.OpManageOrganizations), s.handleUpdateOrganization)
	v1.DELETE("/organizations/:id", auth.Require(auth.OpManageOrganizations), s.handleDeleteOrganization)
	v1.GET("/organizations/:id/members", s.handleListMembers)
	v1.PUT("/organizations/:id/members/:user_id", auth.Require(auth.OpManageOrganizations), s.handleUpsertMember)
	v1.DELETE("/organizations/:id/members/:user_id", auth.Require(auth.OpManageOrganizations), s.handleRemoveMember)

	// Users
	v1.GET("/users", auth.Require(auth.OpManageUsers), s.handleListUsers)
	v1.GET("/users/:id", s.handleGetUser)
	v1.PATCH("/users/:id/role", auth.Require(auth.OpManageUsers), s.handleUpdateRole)
	v1.PATCH("/me/profile", s.handleUpdateProfile)
	v1.POST("/me/qr", s.handleGenerateQR)

	return r
}

// Serve runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.HTTPAddr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shCtx)
}

func (s *Server) handleHealthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 800*time.Millisecond)
	defer cancel()
	t0 := time.Now()
	if err := s.db.PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db not ok"})
		return
	}
	metrics.ObserveDBPing(time.Since(t0))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
