package testfixtures

import "testing"

func TestIDGenerator(t *testing.T) {
	t.Parallel()

	gen := NewIDGenerator("task")
	if first, second := gen.Next(), gen.Next(); first != "task-1" || second != "task-2" {
		t.Fatalf("unexpected identifiers: %q, %q", first, second)
	}

	gen.Reset("event")
	if next := gen.NextFunc()(); next != "event-1" {
		t.Fatalf("expected event-1 after reset, got %q", next)
	}
}

func TestTempPasswords(t *testing.T) {
	t.Parallel()

	next := TempPasswords("111111", "222222")
	for _, want := range []string{"111111", "222222", "222222"} {
		got, err := next()
		if err != nil || got != want {
			t.Fatalf("expected %q, got %q (%v)", want, got, err)
		}
	}

	if _, err := TempPasswords()(); err == nil {
		t.Fatalf("expected error without codes")
	}
}
