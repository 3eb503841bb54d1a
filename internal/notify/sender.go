package notify

import (
	"context"
	"fmt"
	"strings"
)

// NotConfiguredReason is reported when Twilio credentials are missing.
const NotConfiguredReason = "Twilio credentials not properly configured"

// Message is a single outbound SMS.
type Message struct {
	To   string
	Body string
}

// Result reports the provider outcome of a send. Send never returns a Go error;
// failures are described in Error.
type Result struct {
	Success bool
	Error   string
	// ID is the provider message identifier when one is returned.
	ID string
}

// Sender delivers SMS messages.
type Sender interface {
	Send(ctx context.Context, msg Message) Result
}

// InvitationMessage renders the invitation text carrying a temporary password.
func InvitationMessage(tempPassword string) string {
	return fmt.Sprintf("Welcome to HOTBC Management! Your temporary password is: %s. Please log in and change your password as soon as possible.", tempPassword)
}

// FormatDestination returns phone in E.164 form. Numbers already starting with "+" are kept;
// otherwise non-digits are stripped and countryPrefix is prepended.
func FormatDestination(phone, countryPrefix string) string {
	phone = strings.TrimSpace(phone)
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	if countryPrefix == "" {
		countryPrefix = "+1"
	}
	return countryPrefix + DigitsOnly(phone)
}

// PhoneSuffix keeps the last four digits of a number for log correlation.
func PhoneSuffix(phone string) string {
	digits := DigitsOnly(phone)
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}

// DigitsOnly strips everything except ASCII digits.
func DigitsOnly(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func failure(format string, args ...any) Result {
	return Result{Success: false, Error: fmt.Sprintf(format, args...)}
}

// UnconfiguredSender fails every send. It is used when no provider is configured.
type UnconfiguredSender struct {
	Reason string
}

// Send always reports a configuration failure.
func (s UnconfiguredSender) Send(context.Context, Message) Result {
	reason := s.Reason
	if reason == "" {
		reason = NotConfiguredReason
	}
	return Result{Success: false, Error: reason}
}
