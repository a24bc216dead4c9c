package pubsub

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"esanspool/internal/domain/service"

	"github.com/pkg/errors"
)

const localPublishTimeout = 30 * time.Second

// localHTTPPublisher POSTs events to a development endpoint in the same
// envelope Google Pub/Sub uses for push subscriptions, so a consumer written
// against the push format works unmodified in both environments.
type localHTTPPublisher struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// PubSubPushMessage is the push-subscription envelope: base64 payload plus
// attributes, wrapped with the subscription name.
type PubSubPushMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// NewLocalHTTPPublisher builds a publisher for local development.
func NewLocalHTTPPublisher(endpoint string, logger *slog.Logger) service.EventPublisher {
	return &localHTTPPublisher{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: localPublishTimeout},
		logger:     logger,
	}
}

func (p *localHTTPPublisher) PublishEssenceConfirmed(ctx context.Context, event *service.EssenceConfirmedEvent) error {
	body, err := encodePushMessage(event)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if event.RequestID != "" {
		req.Header.Set("X-Request-Id", event.RequestID)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("consumer returned non-success status: %d", resp.StatusCode)
	}

	p.logger.Info("Confirmation event delivered",
		slog.String("endpoint", p.endpoint),
		slog.String("essence_id", event.EssenceID),
	)

	return nil
}

func (p *localHTTPPublisher) Close() error { return nil }

func encodePushMessage(event *service.EssenceConfirmedEvent) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	attrs := map[string]string{
		"essence_id":   event.EssenceID,
		"essence_code": event.EssenceCode,
	}
	if event.RequestID != "" {
		attrs["request_id"] = event.RequestID
	}

	msg := PubSubPushMessage{Subscription: "projects/local/subscriptions/essence-confirmed-sub"}
	msg.Message.Data = base64.StdEncoding.EncodeToString(payload)
	msg.Message.Attributes = attrs
	msg.Message.MessageID = event.EssenceID
	msg.Message.PublishTime = time.Now().UTC().Format(time.RFC3339)

	body, err := json.Marshal(msg)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return body, nil
}
