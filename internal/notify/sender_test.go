package notify

import (
	"context"
	"testing"
)

func TestFormatDestination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		phone  string
		prefix string
		want   string
	}{
		{phone: "5551234567", prefix: "+1", want: "+15551234567"},
		{phone: "(555) 123-4567", prefix: "+1", want: "+15551234567"},
		{phone: "+447700900123", prefix: "+1", want: "+447700900123"},
		{phone: "7700900123", prefix: "+44", want: "+447700900123"},
		{phone: "5551234567", prefix: "", want: "+15551234567"},
	}

	for _, tc := range tests {
		if got := FormatDestination(tc.phone, tc.prefix); got != tc.want {
			t.Fatalf("FormatDestination(%q, %q) = %q, want %q", tc.phone, tc.prefix, got, tc.want)
		}
	}
}

func TestPhoneSuffix(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"5551234567":     "4567",
		"(555) 123-4567": "4567",
		"+15551234567":   "4567",
		"123":            "123",
		"":               "",
	}
	for phone, want := range tests {
		if got := PhoneSuffix(phone); got != want {
			t.Fatalf("PhoneSuffix(%q) = %q, want %q", phone, got, want)
		}
	}
}

func TestInvitationMessage(t *testing.T) {
	t.Parallel()

	got := InvitationMessage("483920")
	want := "Welcome to HOTBC Management! Your temporary password is: 483920. Please log in and change your password as soon as possible."
	if got != want {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestUnconfiguredSender(t *testing.T) {
	t.Parallel()

	result := UnconfiguredSender{}.Send(context.Background(), Message{To: "5551234567", Body: "hi"})
	if result.Success || result.Error != NotConfiguredReason {
		t.Fatalf("unexpected result %#v", result)
	}

	result = UnconfiguredSender{Reason: "sms disabled"}.Send(context.Background(), Message{})
	if result.Error != "sms disabled" {
		t.Fatalf("expected custom reason, got %#v", result)
	}
}
