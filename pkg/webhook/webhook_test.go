package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ccollicutt/errlink/pkg/config"
	"github.com/ccollicutt/errlink/pkg/notify"
)

func newTestPayload() Payload {
	return Payload{
		Notification: notify.Notification{
			Title:    "errlink",
			Message:  "execution is failed with exit code: 2",
			Severity: notify.SeverityError,
			ExitCode: 2,
			Command:  "make -j8 droid",
		},
		SentAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestClient_Send_Success(t *testing.T) {
	var receivedBody []byte
	var receivedContentType string
	var receivedAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedContentType = r.Header.Get("Content-Type")
		receivedAuth = r.Header.Get("Authorization")
		receivedBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := NewClient()
	resp := client.Send(context.Background(), newTestPayload(), SendOptions{
		URL: server.URL,
	})

	if !resp.Success() {
		t.Errorf("expected success, got error: %v", resp.Error)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
	if resp.Body != `{"status":"ok"}` {
		t.Errorf("unexpected body: %s", resp.Body)
	}
	if receivedContentType != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", receivedContentType)
	}
	if receivedAuth != "" {
		t.Errorf("expected no auth header, got %s", receivedAuth)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(receivedBody, &payload); err != nil {
		t.Fatalf("failed to parse received payload: %v", err)
	}
	for _, field := range []string{"message", "severity", "exit_code", "command", "sent_at"} {
		if _, ok := payload[field]; !ok {
			t.Errorf("payload missing %s field", field)
		}
	}
	if payload["exit_code"] != float64(2) {
		t.Errorf("exit_code = %v, want 2", payload["exit_code"])
	}
}

func TestClient_Send_WithBearerToken(t *testing.T) {
	var receivedAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resp := NewClient().Send(context.Background(), newTestPayload(), SendOptions{
		URL:   server.URL,
		Token: "secret-token-123",
	})

	if !resp.Success() {
		t.Errorf("expected success, got error: %v", resp.Error)
	}
	if receivedAuth != "Bearer secret-token-123" {
		t.Errorf("expected Bearer token, got %s", receivedAuth)
	}
}

func TestClient_Send_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	resp := NewClient().Send(context.Background(), newTestPayload(), SendOptions{URL: server.URL})

	if resp.Success() {
		t.Error("expected failure, got success")
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", resp.StatusCode)
	}
	if resp.Error == nil {
		t.Error("expected error to be set")
	}
}

func TestClient_Send_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resp := NewClient().Send(context.Background(), newTestPayload(), SendOptions{
		URL:     server.URL,
		Timeout: 50 * time.Millisecond,
	})

	if resp.Success() {
		t.Error("expected failure due to timeout")
	}
	if resp.Error == nil {
		t.Error("expected error to be set")
	}
}

func TestClient_Send_InvalidURL(t *testing.T) {
	resp := NewClient().Send(context.Background(), newTestPayload(), SendOptions{URL: "://invalid-url"})

	if resp.Success() {
		t.Error("expected failure for invalid URL")
	}
	if resp.Error == nil {
		t.Error("expected error to be set")
	}
}

func TestResponse_Success(t *testing.T) {
	tests := []struct {
		name        string
		resp        Response
		wantSuccess bool
	}{
		{"200 OK", Response{StatusCode: 200}, true},
		{"204 No Content", Response{StatusCode: 204}, true},
		{"400 Bad Request", Response{StatusCode: 400}, false},
		{"500 Server Error", Response{StatusCode: 500}, false},
		{"With Error", Response{StatusCode: 200, Error: io.EOF}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.resp.Success(); got != tt.wantSuccess {
				t.Errorf("Success() = %v, want %v", got, tt.wantSuccess)
			}
		})
	}
}

func TestShouldFire(t *testing.T) {
	tests := []struct {
		name    string
		trigger config.WebhookTrigger
		failure bool
		want    bool
	}{
		{"on_failure with failure", config.WebhookTriggerOnFailure, true, true},
		{"on_failure without failure", config.WebhookTriggerOnFailure, false, false},
		{"always with failure", config.WebhookTriggerAlways, true, true},
		{"always without failure", config.WebhookTriggerAlways, false, true},
		{"never with failure", config.WebhookTriggerNever, true, false},
		{"never without failure", config.WebhookTriggerNever, false, false},
		{"empty trigger with failure", "", true, true},
		{"empty trigger without failure", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldFire(tt.trigger, tt.failure); got != tt.want {
				t.Errorf("ShouldFire(%q, %v) = %v, want %v", tt.trigger, tt.failure, got, tt.want)
			}
		})
	}
}

func TestNotifier_Triggers(t *testing.T) {
	var mu sync.Mutex
	calls := map[string]int{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls[r.URL.Path]++
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewNotifier([]config.WebhookConfig{
		{Name: "failures", URL: server.URL + "/failures", Trigger: config.WebhookTriggerOnFailure},
		{Name: "everything", URL: server.URL + "/everything", Trigger: config.WebhookTriggerAlways},
		{Name: "muted", URL: server.URL + "/muted", Trigger: config.WebhookTriggerNever},
	}, nil)

	ctx := context.Background()
	if err := n.Notify(ctx, notify.Notification{Message: "ok", Severity: notify.SeverityInfo}); err != nil {
		t.Fatalf("Notify(info) error = %v", err)
	}
	if err := n.Notify(ctx, notify.Notification{Message: "bad", Severity: notify.SeverityError}); err != nil {
		t.Fatalf("Notify(error) error = %v", err)
	}

	want := map[string]int{"/failures": 1, "/everything": 2}
	for path, count := range want {
		if calls[path] != count {
			t.Errorf("%s called %d times, want %d", path, calls[path], count)
		}
	}
	if calls["/muted"] != 0 {
		t.Errorf("muted webhook called %d times", calls["/muted"])
	}
}

func TestNotifier_ReportsFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	n := NewNotifier([]config.WebhookConfig{{Name: "broken", URL: server.URL, Timeout: time.Second}}, nil)

	err := n.Notify(context.Background(), notify.Notification{Message: "bad", Severity: notify.SeverityError})
	if err == nil {
		t.Error("Notify() expected error for failing webhook")
	}
}

func TestNotifier_SendsExpandedToken(t *testing.T) {
	t.Setenv("ERRLINK_HOOK_TOKEN", "$ecretvalue")

	var receivedAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "webhooks:\n  - url: " + server.URL + "\n    token: ${ERRLINK_HOOK_TOKEN}\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	n := NewNotifier(cfg.Webhooks, nil)
	if err := n.Notify(context.Background(), notify.Notification{Message: "bad", Severity: notify.SeverityError}); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if receivedAuth != "Bearer $ecretvalue" {
		t.Errorf("Authorization = %q, want %q", receivedAuth, "Bearer $ecretvalue")
	}
}

func TestNotifier_NoWebhooks(t *testing.T) {
	n := NewNotifier(nil, nil)
	if err := n.Notify(context.Background(), notify.Notification{Severity: notify.SeverityError}); err != nil {
		t.Errorf("Notify() error = %v", err)
	}
}
