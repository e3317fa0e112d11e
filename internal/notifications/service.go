package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cardpress/internal/config"
)

const userAgent = "Cardpress-Go/0.1.0"

// Service defines the notification surface exposed to the export pipeline.
type Service interface {
	NotifyExportStarted(ctx context.Context, mode string, fronts int) error
	NotifyExportDelivered(ctx context.Context, filename string, pages int, elapsed time.Duration) error
	NotifyExportCancelled(ctx context.Context, mode string) error
	NotifyError(ctx context.Context, err error, contextLabel string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:    topic,
		client:      &http.Client{Timeout: timeout},
		sendExports: cfg.Notifications.Exports,
		sendErrors:  cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint    string
	client      *http.Client
	sendExports bool
	sendErrors  bool
}

func (n *ntfyService) NotifyExportStarted(ctx context.Context, mode string, fronts int) error {
	if !n.sendExports {
		return nil
	}
	data := payload{
		title:   "Cardpress - Export Started",
		message: fmt.Sprintf("Started %s export with %d cards", strings.TrimSpace(mode), fronts),
		tags:    []string{"cardpress", "export", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyExportDelivered(ctx context.Context, filename string, pages int, elapsed time.Duration) error {
	if !n.sendExports {
		return nil
	}
	elapsed = elapsed.Round(time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	data := payload{
		title:    "Cardpress - Export Complete",
		message:  fmt.Sprintf("Delivered %s: %d pages in %s", strings.TrimSpace(filename), pages, elapsed),
		tags:     []string{"cardpress", "export", "completed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyExportCancelled(ctx context.Context, mode string) error {
	if !n.sendExports {
		return nil
	}
	data := payload{
		title:   "Cardpress - Export Cancelled",
		message: fmt.Sprintf("Cancelled %s export before delivery", strings.TrimSpace(mode)),
		tags:    []string{"cardpress", "export", "cancelled"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.sendErrors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Cardpress - Error",
		message:  builder.String(),
		tags:     []string{"cardpress", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Cardpress - Test",
		message:  "Notification system test",
		tags:     []string{"cardpress", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyExportStarted(context.Context, string, int) error { return nil }
func (noopService) NotifyExportDelivered(context.Context, string, int, time.Duration) error {
	return nil
}
func (noopService) NotifyExportCancelled(context.Context, string) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error    { return nil }
func (noopService) TestNotification(context.Context) error              { return nil }
