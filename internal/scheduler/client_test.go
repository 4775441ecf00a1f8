package scheduler

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(""); err == nil {
		t.Fatal("expected an error for empty redis url")
	}
}

func TestNewClientRejectsMalformedURL(t *testing.T) {
	if _, err := NewClient("not-a-url"); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestEnqueueQuotaCycleReset(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewClient("redis://" + srv.Addr())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = client.Close() }()

	if err := client.EnqueueQuotaCycleReset(context.Background()); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
}

func TestQuotaCycleResetTaskType(t *testing.T) {
	task := NewQuotaCycleResetTask()
	if task.Type() != TaskQuotaCycleReset {
		t.Fatalf("unexpected task type %q", task.Type())
	}
	if len(task.Payload()) != 0 {
		t.Fatalf("expected empty payload, got %q", task.Payload())
	}
}
