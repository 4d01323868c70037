package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sgovph/sgov-backend/internal/auth"
	"github.com/sgovph/sgov-backend/internal/models"
	"github.com/sgovph/sgov-backend/internal/notify"
	"github.com/sgovph/sgov-backend/internal/points"
)

type fakePointsStore struct {
	entries []models.PointsEntry
}

func (f *fakePointsStore) Insert(_ context.Context, e models.PointsEntry) (models.PointsEntry, error) {
	e.ID = uuid.New()
	f.entries = append(f.entries, e)
	return e, nil
}

func (f *fakePointsStore) ListByUser(_ context.Context, userID uuid.UUID) ([]models.PointsEntryWithAssigner, error) {
	var out []models.PointsEntryWithAssigner
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, models.PointsEntryWithAssigner{PointsEntry: e})
		}
	}
	return out, nil
}

func (f *fakePointsStore) Total(_ context.Context, userID uuid.UUID) (int, error) {
	total := 0
	for _, e := range f.entries {
		if e.UserID == userID {
			total += e.Points
		}
	}
	return total, nil
}

type nopSink struct{}

func (nopSink) Emit(context.Context, notify.Note) {}

// pointsRouter wires the points handlers behind a middleware that installs
// the given principal, standing in for the bearer-token layer.
func pointsRouter(s *Server, p auth.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("principal", p)
		c.Next()
	})
	r.POST("/v1/points", s.handleAwardPoints)
	r.GET("/v1/users/:id/points", s.handleListPoints)
	r.GET("/v1/users/:id/points/total", s.handleTotalPoints)
	return r
}

func TestAwardPointsZeroValue(t *testing.T) {
	store := &fakePointsStore{}
	s := &Server{pts: points.NewService(store, nopSink{})}
	admin := auth.Principal{UserID: uuid.New(), Role: models.SSGAdmin}
	r := pointsRouter(s, admin)

	student := uuid.New()
	body := `{"user_id":"` + student.String() + `","points":0,"reason":"ledger correction"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/points", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}
	var entry models.PointsEntry
	if err := json.Unmarshal(w.Body.Bytes(), &entry); err != nil {
		t.Fatal(err)
	}
	if entry.Points != 0 || entry.UserID != student {
		t.Fatalf("entry = %+v, want zero-point entry for %s", entry, student)
	}
}

func TestAwardPointsMissingPoints(t *testing.T) {
	s := &Server{pts: points.NewService(&fakePointsStore{}, nopSink{})}
	r := pointsRouter(s, auth.Principal{UserID: uuid.New(), Role: models.SSGAdmin})

	body := `{"user_id":"` + uuid.New().String() + `","reason":"no amount"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/points", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestPointsReadGuard(t *testing.T) {
	store := &fakePointsStore{}
	self := uuid.New()
	other := uuid.New()
	store.entries = append(store.entries, models.PointsEntry{ID: uuid.New(), UserID: other, Points: 10, Reason: "event staffing"})
	s := &Server{pts: points.NewService(store, nopSink{})}

	get := func(p auth.Principal, path string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		pointsRouter(s, p).ServeHTTP(w, req)
		return w.Code
	}

	student := auth.Principal{UserID: self, Role: models.Student}
	if code := get(student, "/v1/users/"+other.String()+"/points"); code != http.StatusForbidden {
		t.Fatalf("student reading another user's history: status = %d, want 403", code)
	}
	if code := get(student, "/v1/users/"+other.String()+"/points/total"); code != http.StatusForbidden {
		t.Fatalf("student reading another user's total: status = %d, want 403", code)
	}
	if code := get(student, "/v1/users/"+self.String()+"/points"); code != http.StatusOK {
		t.Fatalf("student reading own history: status = %d, want 200", code)
	}

	admin := auth.Principal{UserID: uuid.New(), Role: models.ClubAdmin}
	if code := get(admin, "/v1/users/"+other.String()+"/points"); code != http.StatusOK {
		t.Fatalf("admin reading a student's history: status = %d, want 200", code)
	}
	if code := get(admin, "/v1/users/"+other.String()+"/points/total"); code != http.StatusOK {
		t.Fatalf("admin reading a student's total: status = %d, want 200", code)
	}
}
