package pubsub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"mediastore/domain/dto"
	"mediastore/domain/model"
	"mediastore/infrastructure/logger"

	"cloud.google.com/go/pubsub"
)

func NewPubSub(ctx context.Context, projectID string) (*pubsub.Client, error) {
	return pubsub.NewClient(ctx, projectID)
}

// AssetEvents publishes asset-uploaded notifications to a Pub/Sub topic.
type AssetEvents struct {
	client    *pubsub.Client
	topicName string

	mu    sync.Mutex
	topic *pubsub.Topic
}

func NewAssetEvents(client *pubsub.Client, topicName string) *AssetEvents {
	return &AssetEvents{client: client, topicName: topicName}
}

func (a *AssetEvents) PublishAssetUploaded(ctx context.Context, asset *model.Asset) error {
	topic, err := a.ensureTopic(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(dto.AssetUploadedEvent{
		Type:          dto.EventAssetUploaded,
		AssetID:       asset.ID,
		TenantID:      asset.TenantID,
		EntryID:       asset.EntryID,
		StorageKey:    asset.StorageKey,
		ContentType:   asset.ContentType,
		Kind:          string(asset.Kind),
		FileSizeBytes: asset.FileSizeBytes,
		OccurredAt:    time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	serverID, err := topic.Publish(ctx, &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"type":     dto.EventAssetUploaded,
			"tenantId": asset.TenantID,
		},
	}).Get(ctx)
	if err != nil {
		return err
	}
	logger.GetLogger().WithField("server_id", serverID).WithField("asset_id", asset.ID).Debug("Asset event published")
	return nil
}

// ensureTopic creates the topic on first use when it does not exist yet.
func (a *AssetEvents) ensureTopic(ctx context.Context) (*pubsub.Topic, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.topic != nil {
		return a.topic, nil
	}

	topic := a.client.Topic(a.topicName)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		logger.GetLogger().WithField("topic", a.topicName).Info("Topic doesn't exist - creating it")
		if topic, err = a.client.CreateTopic(ctx, a.topicName); err != nil {
			return nil, err
		}
	}
	a.topic = topic
	return topic, nil
}
