package notify

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
)

type countingSender struct {
	calls atomic.Int32
}

func (s *countingSender) Send(context.Context, Message) Result {
	s.calls.Add(1)
	return Result{Success: true}
}

func TestNewThrottledSenderDisabled(t *testing.T) {
	t.Parallel()

	next := &countingSender{}
	if got := NewThrottledSender(next, 0, 5); got != Sender(next) {
		t.Fatalf("expected the wrapped sender back when throttling is off, got %T", got)
	}
}

func TestThrottledSender(t *testing.T) {
	t.Parallel()

	next := &countingSender{}
	sender := NewThrottledSender(next, 1, 2)

	for i := 0; i < 2; i++ {
		if result := sender.Send(context.Background(), Message{To: "+15551234567", Body: "hi"}); !result.Success {
			t.Fatalf("send %d within burst failed: %+v", i, result)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := sender.Send(ctx, Message{To: "+15551234567", Body: "hi"})
	if result.Success || !strings.Contains(result.Error, "rate limit") {
		t.Fatalf("expected throttled failure once the burst is spent, got %+v", result)
	}
	if got := next.calls.Load(); got != 2 {
		t.Fatalf("expected 2 delegated sends, got %d", got)
	}
}
