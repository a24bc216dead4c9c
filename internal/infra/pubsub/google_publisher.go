package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"esanspool/internal/domain/service"

	"cloud.google.com/go/pubsub/v2"
	pubsubpb "cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"github.com/pkg/errors"
)

// googlePublisher sends confirmation events to a Google Cloud Pub/Sub topic.
type googlePublisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	topicID   string
	logger    *slog.Logger
}

// NewGooglePublisher connects to the project and verifies the topic exists
// before accepting any events. A missing topic fails startup rather than
// the first confirmed essence.
func NewGooglePublisher(ctx context.Context, projectID, topicID string, logger *slog.Logger) (service.EventPublisher, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	topicPath := fmt.Sprintf("projects/%s/topics/%s", projectID, topicID)
	if _, err := client.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{Topic: topicPath}); err != nil {
		client.Close()

		return nil, errors.Wrapf(err, "topic %s not reachable", topicPath)
	}

	return &googlePublisher{
		client:    client,
		publisher: client.Publisher(topicID),
		topicID:   topicID,
		logger:    logger,
	}, nil
}

func (p *googlePublisher) PublishEssenceConfirmed(ctx context.Context, event *service.EssenceConfirmedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.WithStack(err)
	}

	// Attributes let subscribers filter without decoding the payload.
	attrs := map[string]string{
		"essence_id":   event.EssenceID,
		"essence_code": event.EssenceCode,
		"total_demand": strconv.FormatInt(event.TotalDemand, 10),
	}
	if event.RequestID != "" {
		attrs["request_id"] = event.RequestID
	}

	result := p.publisher.Publish(ctx, &pubsub.Message{Data: data, Attributes: attrs})

	serverID, err := result.Get(ctx)
	if err != nil {
		return errors.Wrapf(err, "failed to publish to %s", p.topicID)
	}

	p.logger.Info("Confirmation event published",
		slog.String("essence_id", event.EssenceID),
		slog.Int64("total_demand", event.TotalDemand),
		slog.String("server_id", serverID),
	)

	return nil
}

func (p *googlePublisher) Close() error {
	if p.publisher != nil {
		p.publisher.Stop()
	}
	if p.client != nil {
		return errors.WithStack(p.client.Close())
	}

	return nil
}
