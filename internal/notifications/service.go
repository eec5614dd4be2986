package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/WodahsReklaw/TruthSaver/internal/config"
)

const userAgent = "truthsaver/0.1"

// Event names a notification kind.
type Event string

const (
	EventRunCompleted Event = "run_completed"
	EventError        Event = "error"
	EventTest         Event = "test"
)

// Payload carries event fields. Counts are ints, everything else strings.
type Payload map[string]any

// Service publishes events.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService returns an ntfy-backed service, or a no-op when no topic is configured.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	msg, ok := format(event, payload)
	if !ok {
		return nil
	}
	return n.send(ctx, msg)
}

func format(event Event, payload Payload) (message, bool) {
	switch event {
	case EventRunCompleted:
		added := payload.count("added")
		downloaded := payload.count("downloaded")
		if added == 0 && downloaded == 0 {
			return message{}, false
		}
		body := fmt.Sprintf("%d new times, %d videos downloaded", added, downloaded)
		if bad := payload.count("badLink") + payload.count("badVideo"); bad > 0 {
			body += fmt.Sprintf(", %d failed", bad)
		}
		if failed := payload.text("failedStages"); failed != "" {
			body += "\nSkipped stages: " + failed
		}
		return message{
			title: "TruthSaver - Run Complete",
			body:  body,
			tags:  []string{"truthsaver", "run", "completed"},
		}, true
	case EventError:
		var b strings.Builder
		b.WriteString("Error")
		if label := payload.text("context"); label != "" {
			b.WriteString(" during ")
			b.WriteString(label)
		}
		b.WriteString(": ")
		if text := payload.text("error"); text != "" {
			b.WriteString(text)
		} else {
			b.WriteString("unknown")
		}
		return message{
			title:    "TruthSaver - Error",
			body:     b.String(),
			tags:     []string{"truthsaver", "error", "alert"},
			priority: "high",
		}, true
	case EventTest:
		return message{
			title:    "TruthSaver - Test",
			body:     "Notification system test",
			tags:     []string{"truthsaver", "test"},
			priority: "low",
		}, true
	default:
		return message{}, false
	}
}

func (n *ntfyService) send(ctx context.Context, msg message) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if msg.title != "" {
		req.Header.Set("Title", msg.title)
	}
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" {
		req.Header.Set("Priority", msg.priority)
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

func (p Payload) count(key string) int {
	if value, ok := p[key].(int); ok {
		return value
	}
	return 0
}

func (p Payload) text(key string) string {
	switch value := p[key].(type) {
	case string:
		return strings.TrimSpace(value)
	case error:
		return strings.TrimSpace(value.Error())
	default:
		return ""
	}
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
