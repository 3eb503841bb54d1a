package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type fakeCreator struct {
	params *twilioApi.CreateMessageParams
	sid    string
	err    error
}

func (f *fakeCreator) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	sid := f.sid
	return &twilioApi.ApiV2010Message{Sid: &sid}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTwilioSender(t *testing.T) {
	t.Parallel()

	cfg := TwilioConfig{AccountSID: "AC1", AuthToken: "token", FromNumber: "+15550000000", CountryPrefix: "+1"}

	t.Run("missing credentials", func(t *testing.T) {
		t.Parallel()

		sender := NewTwilioSender(TwilioConfig{AccountSID: "AC1"}, discardLogger())
		result := sender.Send(context.Background(), Message{To: "5551234567", Body: "hello"})
		if result.Success || result.Error != NotConfiguredReason {
			t.Fatalf("unexpected result %#v", result)
		}
	})

	t.Run("sends formatted message", func(t *testing.T) {
		t.Parallel()

		fake := &fakeCreator{sid: "SM123"}
		sender := NewTwilioSender(cfg, discardLogger())
		sender.creator = fake

		result := sender.Send(context.Background(), Message{To: "555-123-4567", Body: InvitationMessage("123456")})
		if !result.Success || result.ID != "SM123" {
			t.Fatalf("unexpected result %#v", result)
		}
		if fake.params == nil || *fake.params.To != "+15551234567" || *fake.params.From != cfg.FromNumber {
			t.Fatalf("unexpected params %#v", fake.params)
		}
		if *fake.params.Body != InvitationMessage("123456") {
			t.Fatalf("unexpected body %q", *fake.params.Body)
		}
	})

	t.Run("provider error", func(t *testing.T) {
		t.Parallel()

		sender := NewTwilioSender(cfg, discardLogger())
		sender.creator = &fakeCreator{err: errors.New("invalid 'To' phone number")}

		result := sender.Send(context.Background(), Message{To: "1", Body: "hello"})
		if result.Success || result.Error != "invalid 'To' phone number" {
			t.Fatalf("unexpected result %#v", result)
		}
	})

	t.Run("empty fields", func(t *testing.T) {
		t.Parallel()

		fake := &fakeCreator{}
		sender := NewTwilioSender(cfg, discardLogger())
		sender.creator = fake

		result := sender.Send(context.Background(), Message{To: "5551234567"})
		if result.Success || fake.params != nil {
			t.Fatalf("expected validation failure without provider call, got %#v", result)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		fake := &fakeCreator{}
		sender := NewTwilioSender(cfg, discardLogger())
		sender.creator = fake

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		result := sender.Send(ctx, Message{To: "5551234567", Body: "hello"})
		if result.Success || fake.params != nil {
			t.Fatalf("expected cancelled send, got %#v", result)
		}
	})
}
