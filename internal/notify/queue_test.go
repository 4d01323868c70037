package notify

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sgovph/sgov-backend/internal/models"
)

func TestInMemory_PublishConsume(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewInMemory(4)
	want := Note{UserID: uuid.New(), Title: "Points Awarded", Type: models.NotifSystem}
	if err := q.Publish(ctx, want); err != nil {
		t.Fatal(err)
	}

	depth, err := q.Depth(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if depth != 1 {
		t.Fatalf("depth = %d, want 1", depth)
	}

	notes, err := q.Consume(ctx)
	if err != nil {
		t.Fatal(err)
	}
	select {
	case got := <-notes:
		if got.UserID != want.UserID || got.Title != want.Title {
			t.Fatalf("got %+v, want %+v", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no note consumed")
	}
}

func TestInMemory_PublishRespectsContext(t *testing.T) {
	q := NewInMemory(1)
	if err := q.Publish(context.Background(), Note{}); err != nil {
		t.Fatal(err)
	}

	// Queue is full; a cancelled context must unblock the publish.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := q.Publish(ctx, Note{}); err == nil {
		t.Fatal("publish to a full queue with expired context succeeded")
	}
}

func TestQueueSink_EmitDetachesFromCallerCancel(t *testing.T) {
	q := NewInMemory(4)
	sink := NewQueueSink(q, zap.NewNop())

	// The primary operation's context is already done; the hand-off must
	// still go through.
	done, cancel := context.WithCancel(context.Background())
	cancel()
	sink.Emit(done, Note{UserID: uuid.New(), Title: "New Message", Type: models.NotifMessage})

	depth, err := q.Depth(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if depth != 1 {
		t.Fatalf("depth = %d, want 1", depth)
	}
}
