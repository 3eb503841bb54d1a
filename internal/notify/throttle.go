package notify

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// ThrottledSender spaces outbound messages through a token bucket before handing them to the
// wrapped sender.
type ThrottledSender struct {
	next    Sender
	limiter *rate.Limiter
}

// NewThrottledSender allows perMinute messages with the given burst. A non-positive perMinute
// returns next unchanged.
func NewThrottledSender(next Sender, perMinute, burst int) Sender {
	if perMinute <= 0 || next == nil {
		return next
	}
	if burst <= 0 {
		burst = 1
	}
	return &ThrottledSender{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst),
	}
}

// Send waits for a token, then delegates. A cancelled wait is reported as a failed send.
func (s *ThrottledSender) Send(ctx context.Context, msg Message) Result {
	if err := s.limiter.Wait(ctx); err != nil {
		return failure("SMS rate limit wait aborted: %v", err)
	}
	return s.next.Send(ctx, msg)
}
