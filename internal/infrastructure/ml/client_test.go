package ml

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientSummarize(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/summarize" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var req struct {
			Text      string `json:"text"`
			MaxLength int    `json:"max_length"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.MaxLength != 80 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"summary": "condensed"})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "")
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}

	got, err := client.Summarize(context.Background(), "long review text", 80)
	if err != nil {
		t.Fatalf("Summarize error: %v", err)
	}
	if got != "condensed" {
		t.Fatalf("unexpected summary: %q", got)
	}
}

func TestClientSummarizeStatusError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "key")
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	if _, err := client.Summarize(context.Background(), "text", 10); err == nil {
		t.Fatal("expected error for 503")
	}
}

func TestNewClientRequiresEndpoint(t *testing.T) {
	t.Parallel()

	if _, err := NewClient("", ""); err == nil {
		t.Fatal("expected error for empty endpoint")
	}
}
