package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMailHTTPClientSend(t *testing.T) {
	var got map[string]string
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewMailHTTPClient("test-key", srv.URL, "noreply@eduplatform.example")
	err := c.Send(context.Background(), "ada@example.com", "Verify", "Your code is 1234.")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if auth != "Bearer test-key" {
		t.Errorf("Authorization = %q", auth)
	}
	if got["from"] != "noreply@eduplatform.example" || got["to"] != "ada@example.com" {
		t.Errorf("payload = %v", got)
	}
	if got["subject"] != "Verify" || got["text"] != "Your code is 1234." {
		t.Errorf("payload = %v", got)
	}
}

func TestMailHTTPClientSendNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewMailHTTPClient("test-key", srv.URL, "noreply@eduplatform.example")
	err := c.Send(context.Background(), "ada@example.com", "Verify", "body")
	if err == nil {
		t.Fatal("Send should fail on non-2xx")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error should carry the status code: %v", err)
	}
}

func TestMailHTTPClientUnconfigured(t *testing.T) {
	c := NewMailHTTPClient("", "http://localhost:1", "noreply@eduplatform.example")
	if err := c.Send(context.Background(), "ada@example.com", "s", "b"); err == nil {
		t.Fatal("Send without API key should fail")
	}
	c = NewMailHTTPClient("key", "", "noreply@eduplatform.example")
	if err := c.Send(context.Background(), "ada@example.com", "s", "b"); err == nil {
		t.Fatal("Send without base URL should fail")
	}
}
