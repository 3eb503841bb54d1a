package application

import (
	"errors"
	"strconv"
	"strings"
	"testing"
)

var fastArgon2idParams = Argon2idParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}

func TestPlaintextCredentials(t *testing.T) {
	t.Parallel()

	creds := PlaintextCredentials{}
	sealed, err := creds.Seal("hunter2")
	if err != nil || sealed != "hunter2" {
		t.Fatalf("Seal = %q, %v", sealed, err)
	}
	if !creds.Matches("hunter2", "hunter2") {
		t.Fatalf("expected match")
	}
	if creds.Matches("hunter2", "hunter3") || creds.Matches("", "") {
		t.Fatalf("expected mismatch")
	}
}

func TestArgon2idCredentials(t *testing.T) {
	t.Parallel()

	creds := Argon2idCredentials{Params: fastArgon2idParams}
	sealed, err := creds.Seal("445566")
	if err != nil {
		t.Fatalf("Seal returned error: %v", err)
	}
	if !strings.HasPrefix(sealed, "$argon2id$v=19$m=1024,t=1,p=1$") {
		t.Fatalf("unexpected hash format %q", sealed)
	}
	if !creds.Matches(sealed, "445566") {
		t.Fatalf("expected hash to verify")
	}
	if creds.Matches(sealed, "445567") || creds.Matches("", "445566") || creds.Matches("445566", "445566") {
		t.Fatalf("expected mismatch")
	}
}

func TestVerifyPasswordRejectsMalformedHashes(t *testing.T) {
	t.Parallel()

	if err := VerifyPassword("plain", "plain"); !errors.Is(err, ErrInvalidPasswordHash) {
		t.Fatalf("expected ErrInvalidPasswordHash, got %v", err)
	}
	if err := VerifyPassword("$argon2id$v=18$m=1,t=1,p=1$c2FsdA$aGFzaA", "x"); !errors.Is(err, ErrIncompatiblePasswordVersion) {
		t.Fatalf("expected ErrIncompatiblePasswordVersion, got %v", err)
	}
}

func TestGenerateTempPassword(t *testing.T) {
	t.Parallel()

	for i := 0; i < 200; i++ {
		code, err := GenerateTempPassword()
		if err != nil {
			t.Fatalf("GenerateTempPassword returned error: %v", err)
		}
		n, err := strconv.Atoi(code)
		if err != nil || len(code) != 6 || n < 100000 || n > 999999 {
			t.Fatalf("unexpected code %q", code)
		}
	}
}

func TestValidateNewPassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		password string
		message  string
	}{
		{password: "NewPass1"},
		{password: "Ab1", message: "Password must be at least 8 characters"},
		{password: "newpass12", message: "Password must contain at least one uppercase letter"},
		{password: "NEWPASS12", message: "Password must contain at least one lowercase letter"},
		{password: "NewPassword", message: "Password must contain at least one number"},
	}

	for _, tc := range tests {
		err := ValidateNewPassword(tc.password)
		if tc.message == "" {
			if err != nil {
				t.Fatalf("ValidateNewPassword(%q) returned %v", tc.password, err)
			}
			continue
		}
		var vErr *ValidationError
		if !errors.As(err, &vErr) || vErr.FieldErrors["newPassword"] != tc.message {
			t.Fatalf("ValidateNewPassword(%q) = %v, want %q", tc.password, err, tc.message)
		}
	}
}
