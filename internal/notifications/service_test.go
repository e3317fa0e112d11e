package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"cardpress/internal/config"
	"cardpress/internal/notifications"
)

type recordedRequest struct {
	title    string
	tags     string
	priority string
	body     string
}

func newRecordingServer(t *testing.T) (*httptest.Server, func() []recordedRequest) {
	t.Helper()

	var mu sync.Mutex
	var requests []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		requests = append(requests, recordedRequest{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		})
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	return server, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), requests...)
	}
}

func serviceFor(t *testing.T, endpoint string) notifications.Service {
	t.Helper()
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = endpoint
	return notifications.NewService(&cfg)
}

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyExportDelivered(context.Background(), "cards_2026-08-25_duplex.pdf", 12, time.Minute); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNotifyExportDeliveredFormatsPayload(t *testing.T) {
	server, recorded := newRecordingServer(t)
	svc := serviceFor(t, server.URL)

	if err := svc.NotifyExportDelivered(context.Background(), "cards_2026-08-25_duplex.pdf", 12, 90*time.Second); err != nil {
		t.Fatalf("NotifyExportDelivered: %v", err)
	}

	requests := recorded()
	if len(requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(requests))
	}
	got := requests[0]
	if got.title != "Cardpress - Export Complete" {
		t.Fatalf("title = %q", got.title)
	}
	if got.body != "Delivered cards_2026-08-25_duplex.pdf: 12 pages in 1m30s" {
		t.Fatalf("body = %q", got.body)
	}
	if got.tags != "cardpress,export,completed" {
		t.Fatalf("tags = %q", got.tags)
	}
	if got.priority != "high" {
		t.Fatalf("priority = %q", got.priority)
	}
}

func TestNotifyErrorIncludesContextLabel(t *testing.T) {
	server, recorded := newRecordingServer(t)
	svc := serviceFor(t, server.URL)

	if err := svc.NotifyError(context.Background(), errors.New("compositor exploded"), "duplex export"); err != nil {
		t.Fatalf("NotifyError: %v", err)
	}

	requests := recorded()
	if len(requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(requests))
	}
	if requests[0].body != "Error with duplex export: compositor exploded" {
		t.Fatalf("body = %q", requests[0].body)
	}
	if requests[0].priority != "high" {
		t.Fatalf("priority = %q", requests[0].priority)
	}
}

func TestExportNotificationsRespectToggle(t *testing.T) {
	server, recorded := newRecordingServer(t)

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Exports = false
	svc := notifications.NewService(&cfg)

	if err := svc.NotifyExportStarted(context.Background(), "fronts", 10); err != nil {
		t.Fatalf("NotifyExportStarted: %v", err)
	}
	if err := svc.NotifyExportCancelled(context.Background(), "fronts"); err != nil {
		t.Fatalf("NotifyExportCancelled: %v", err)
	}
	if len(recorded()) != 0 {
		t.Fatal("export notifications must be suppressed when disabled")
	}

	if err := svc.NotifyError(context.Background(), errors.New("boom"), ""); err != nil {
		t.Fatalf("NotifyError: %v", err)
	}
	if len(recorded()) != 1 {
		t.Fatal("error notifications should still be delivered")
	}
}

func TestSendSurfacesServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic over quota", http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	svc := serviceFor(t, server.URL)
	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
