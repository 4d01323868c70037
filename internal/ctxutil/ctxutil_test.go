package ctxutil

import (
	"context"
	"testing"
	"time"
)

func TestWithDBTimeout_DefaultsWhenNoParentDeadline(t *testing.T) {
	ctx, cancel := WithDBTimeout(context.Background())
	defer cancel()
	dl, ok := ctx.Deadline()
	if !ok {
		t.Fatal("no deadline set")
	}
	remain := time.Until(dl)
	if remain > DefaultDBTimeout || remain < DefaultDBTimeout-time.Second {
		t.Fatalf("remaining = %v, want about %v", remain, DefaultDBTimeout)
	}
}

func TestWithDBTimeout_ParentDeadlineWins(t *testing.T) {
	parent, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ctx, cancel2 := WithDBTimeout(parent)
	defer cancel2()
	dl, ok := ctx.Deadline()
	if !ok {
		t.Fatal("no deadline set")
	}
	if time.Until(dl) > time.Second {
		t.Fatalf("child deadline %v exceeds the parent's", time.Until(dl))
	}
}
