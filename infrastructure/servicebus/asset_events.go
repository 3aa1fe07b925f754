package servicebus

import (
	"context"
	"encoding/json"
	"time"

	"mediastore/domain/dto"
	"mediastore/domain/model"
	"mediastore/infrastructure/logger"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
)

// NewServiceBus authenticates with the default Azure credential chain.
func NewServiceBus(namespace string) (*azservicebus.Client, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, err
	}
	return azservicebus.NewClient(namespace, cred, nil)
}

type sender interface {
	SendMessage(ctx context.Context, message *azservicebus.Message, options *azservicebus.SendMessageOptions) error
	Close(ctx context.Context) error
}

// AssetEvents sends asset-uploaded notifications to a Service Bus queue.
type AssetEvents struct {
	newSender func() (sender, error)
}

func NewAssetEvents(client *azservicebus.Client, queue string) *AssetEvents {
	return &AssetEvents{newSender: func() (sender, error) {
		return client.NewSender(queue, nil)
	}}
}

func (a *AssetEvents) PublishAssetUploaded(ctx context.Context, asset *model.Asset) error {
	body, err := json.Marshal(dto.AssetUploadedEvent{
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

	s, err := a.newSender()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while making new sender service bus.")
		return err
	}
	defer func() {
		if err := s.Close(context.Background()); err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while closing sender.")
		}
	}()

	contentType := "application/json"
	subject := dto.EventAssetUploaded
	return s.SendMessage(ctx, &azservicebus.Message{
		Body:        body,
		ContentType: &contentType,
		Subject:     &subject,
		MessageID:   &asset.ID,
		ApplicationProperties: map[string]any{
			"tenantId": asset.TenantID,
		},
	}, nil)
}
