package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// RelayRequest is the JSON body accepted by an SMS relay endpoint.
type RelayRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Message     string `json:"message"`
	SID         string `json:"sid,omitempty"`
}

// RelayResponse is the JSON body returned by an SMS relay endpoint.
type RelayResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// RelaySender posts messages to an HTTP relay that forwards them to the provider.
type RelaySender struct {
	url           string
	sid           string
	countryPrefix string
	client        *http.Client
	logger        *slog.Logger
}

// RelayOption customises a RelaySender.
type RelayOption func(*RelaySender)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) RelayOption {
	return func(s *RelaySender) {
		if client != nil {
			s.client = client
		}
	}
}

// WithAccountSID forwards an account SID to the relay.
func WithAccountSID(sid string) RelayOption {
	return func(s *RelaySender) {
		s.sid = sid
	}
}

// NewRelaySender builds a sender that posts to url.
func NewRelaySender(url, countryPrefix string, logger *slog.Logger, opts ...RelayOption) *RelaySender {
	if logger == nil {
		logger = slog.Default()
	}
	s := &RelaySender{
		url:           url,
		countryPrefix: countryPrefix,
		client:        &http.Client{Timeout: 10 * time.Second},
		logger:        logger.With("component", "relay_sender"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send posts msg to the relay.
func (s *RelaySender) Send(ctx context.Context, msg Message) Result {
	if s == nil || s.url == "" {
		return Result{Success: false, Error: "SMS relay URL not configured"}
	}

	body, err := json.Marshal(RelayRequest{
		PhoneNumber: FormatDestination(msg.To, s.countryPrefix),
		Message:     msg.Body,
		SID:         s.sid,
	})
	if err != nil {
		return failure("failed to encode relay request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return failure("failed to build relay request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.WarnContext(ctx, "relay request failed", "error", err)
		return failure("relay request failed: %v", err)
	}
	defer resp.Body.Close()

	var decoded RelayResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(raw, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := decoded.Error
		if detail == "" {
			detail = fmt.Sprintf("relay returned status %d", resp.StatusCode)
		}
		s.logger.WarnContext(ctx, "relay rejected message", "status", resp.StatusCode, "error", detail)
		return Result{Success: false, Error: detail}
	}

	return Result{Success: true}
}
