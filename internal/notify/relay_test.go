package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRelaySender(t *testing.T) {
	t.Parallel()

	t.Run("posts relay request", func(t *testing.T) {
		t.Parallel()

		var got RelayRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
				t.Errorf("unexpected request %s %s", r.Method, r.Header.Get("Content-Type"))
			}
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Errorf("decode failed: %v", err)
			}
			_ = json.NewEncoder(w).Encode(RelayResponse{Success: true})
		}))
		defer server.Close()

		sender := NewRelaySender(server.URL, "+1", discardLogger(), WithAccountSID("AC9"), WithHTTPClient(server.Client()))
		result := sender.Send(context.Background(), Message{To: "5551234567", Body: "hello"})
		if !result.Success {
			t.Fatalf("expected success, got %#v", result)
		}
		if got.PhoneNumber != "+15551234567" || got.Message != "hello" || got.SID != "AC9" {
			t.Fatalf("unexpected relay payload %#v", got)
		}
	})

	t.Run("reports relay error field", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(RelayResponse{Success: false, Error: NotConfiguredReason})
		}))
		defer server.Close()

		sender := NewRelaySender(server.URL, "+1", discardLogger())
		result := sender.Send(context.Background(), Message{To: "5551234567", Body: "hello"})
		if result.Success || result.Error != NotConfiguredReason {
			t.Fatalf("unexpected result %#v", result)
		}
	})

	t.Run("falls back to status text", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		sender := NewRelaySender(server.URL, "+1", discardLogger())
		result := sender.Send(context.Background(), Message{To: "5551234567", Body: "hello"})
		if result.Success || result.Error != "relay returned status 502" {
			t.Fatalf("unexpected result %#v", result)
		}
	})

	t.Run("unreachable relay", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := server.URL
		server.Close()

		result := NewRelaySender(url, "+1", discardLogger()).Send(context.Background(), Message{To: "1", Body: "x"})
		if result.Success || result.Error == "" {
			t.Fatalf("expected transport failure, got %#v", result)
		}
	})

	t.Run("missing url", func(t *testing.T) {
		t.Parallel()

		result := NewRelaySender("", "+1", nil).Send(context.Background(), Message{To: "1", Body: "x"})
		if result.Success {
			t.Fatalf("expected failure without url")
		}
	})
}
