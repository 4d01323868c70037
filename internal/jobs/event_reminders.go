package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sgovph/sgov-backend/internal/events"
	"github.com/sgovph/sgov-backend/internal/models"
	"github.com/sgovph/sgov-backend/internal/notify"
	"github.com/sgovph/sgov-backend/internal/observability"
)

// EventReminders notifies assigned officers of mandatory events starting
// within the next day. Each event is reminded at most once; the sent marker
// is written before success is guaranteed so a crash skips rather than
// double-sends.
type EventReminders struct {
	repo *events.Repo
	sink notify.Sink
	log  *zap.Logger
}

func NewEventReminders(repo *events.Repo, sink notify.Sink, log *zap.Logger) *EventReminders {
	return &EventReminders{repo: repo, sink: sink, log: log}
}

func (j *EventReminders) Run(ctx context.Context) error {
	due, err := j.repo.UpcomingMandatory(ctx, 24*time.Hour)
	if err != nil {
		observability.CaptureErr(err)
		return err
	}
	for _, e := range due {
		officers, err := j.repo.ListOfficers(ctx, e.ID)
		if err != nil {
			observability.CaptureErr(err)
			continue
		}
		if err := j.repo.MarkReminderSent(ctx, e.ID); err != nil {
			observability.CaptureErr(err)
			continue
		}
		related := e.ID
		for _, officerID := range officers {
			j.sink.Emit(ctx, notify.Note{
				UserID:    officerID,
				Title:     "Upcoming Mandatory Event",
				Message:   "You are assigned to track attendance for: " + e.Title,
				Type:      models.NotifEvent,
				RelatedID: &related,
			})
		}
		j.log.Info("event reminder sent",
			zap.String("event_id", e.ID.String()),
			zap.Int("officers", len(officers)))
	}
	return nil
}
