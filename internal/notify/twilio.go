package notify

import (
	"context"
	"log/slog"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioConfig holds the Twilio account settings.
type TwilioConfig struct {
	AccountSID    string
	AuthToken     string
	FromNumber    string
	CountryPrefix string
}

// Configured reports whether every credential is present.
func (c TwilioConfig) Configured() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.FromNumber != ""
}

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioSender sends messages through the Twilio REST API.
type TwilioSender struct {
	cfg     TwilioConfig
	creator messageCreator
	logger  *slog.Logger
}

// NewTwilioSender builds a sender. Without complete credentials every send fails.
func NewTwilioSender(cfg TwilioConfig, logger *slog.Logger) *TwilioSender {
	if logger == nil {
		logger = slog.Default()
	}
	sender := &TwilioSender{cfg: cfg, logger: logger.With("component", "twilio_sender")}
	if cfg.Configured() {
		client := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		})
		sender.creator = client.Api
	}
	return sender
}

// Send delivers msg. The Twilio SDK takes no context, so cancellation is only checked before the call.
func (s *TwilioSender) Send(ctx context.Context, msg Message) Result {
	if s == nil || s.creator == nil {
		return Result{Success: false, Error: NotConfiguredReason}
	}
	if msg.To == "" || msg.Body == "" {
		return failure("Phone number and message are required")
	}
	if err := ctx.Err(); err != nil {
		return failure("send cancelled: %v", err)
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(FormatDestination(msg.To, s.cfg.CountryPrefix))
	params.SetFrom(s.cfg.FromNumber)
	params.SetBody(msg.Body)

	resp, err := s.creator.CreateMessage(params)
	if err != nil {
		s.logger.WarnContext(ctx, "twilio send failed", "error", err)
		return failure("%v", err)
	}

	result := Result{Success: true}
	if resp != nil && resp.Sid != nil {
		result.ID = *resp.Sid
	}
	s.logger.InfoContext(ctx, "twilio message sent", "sid", result.ID)
	return result
}
