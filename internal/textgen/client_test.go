package textgen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCompleteSyntheticWithoutAPIKey(t *testing.T) {
	c := NewClient(Options{})
	ctx := context.Background()

	prompt := "Write a short caption for SolarCharger aimed at commuters."

	first, err := c.Complete(ctx, prompt)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if first == "" {
		t.Fatal("expected non-empty synthetic copy")
	}
	if !strings.Contains(first, prompt) {
		t.Errorf("synthetic copy should embed the prompt, got %q", first)
	}

	second, err := c.Complete(ctx, prompt)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if first != second {
		t.Errorf("synthetic copy should be deterministic: %q != %q", first, second)
	}
}

func TestCompleteRemote(t *testing.T) {
	var gotAuth, gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		gotModel = req.Model

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "Fresh power, anywhere."}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(Options{APIKey: "test-key", BaseURL: srv.URL, Model: "test-model"})

	text, err := c.Complete(context.Background(), "caption please")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if text != "Fresh power, anywhere." {
		t.Errorf("unexpected completion: %q", text)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("unexpected auth header: %q", gotAuth)
	}
	if gotModel != "test-model" {
		t.Errorf("unexpected model: %q", gotModel)
	}
}

// With an API key configured, a remote failure must reach the caller
// instead of being papered over with synthetic copy.
func TestCompleteRemoteFailureSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(Options{APIKey: "test-key", BaseURL: srv.URL})

	_, err := c.Complete(context.Background(), "caption please")
	if err == nil {
		t.Fatal("expected remote failure to surface as an error")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("error should carry the service message, got %v", err)
	}
}

func TestCompleteCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewClient(Options{}).Complete(ctx, "anything"); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
