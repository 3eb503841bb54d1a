package application

import (
	"context"
	"crypto/subtle"
)

// InvitationVerifier checks the code a user enters to accept an invitation.
type InvitationVerifier interface {
	Verify(ctx context.Context, phoneNumber, code string) (bool, error)
}

// DefaultVerificationCode is accepted by the default verifier.
const DefaultVerificationCode = "123456"

// FixedCodeVerifier accepts a single configured code for every phone number.
type FixedCodeVerifier struct {
	Code string
}

// Verify reports whether code equals the configured code.
func (v FixedCodeVerifier) Verify(_ context.Context, _ string, code string) (bool, error) {
	expected := v.Code
	if expected == "" {
		expected = DefaultVerificationCode
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(code)) == 1, nil
}

// VerifierFunc adapts a function to InvitationVerifier.
type VerifierFunc func(ctx context.Context, phoneNumber, code string) (bool, error)

// Verify calls f.
func (f VerifierFunc) Verify(ctx context.Context, phoneNumber, code string) (bool, error) {
	return f(ctx, phoneNumber, code)
}
