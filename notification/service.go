package notification

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/infigaming-com/notification-service/errors"
	"github.com/infigaming-com/notification-service/observability/metrics"
	"github.com/infigaming-com/notification-service/store"
	"github.com/infigaming-com/notification-service/stream"
)

// PushChannelName is the channel every stream-delivered notification is
// recorded under.
const PushChannelName = "push_notification"

// Service is the write side of the delivery pipeline: it enqueues
// notifications onto recipient logs and acknowledges delivered entries.
// Both operations work without an open connection, so clients can
// acknowledge out of band after a reconnect.
type Service struct {
	lg      *zap.Logger
	log     stream.Log
	store   *store.Store
	metrics *metrics.Metrics
}

func NewService(lg *zap.Logger, log stream.Log, st *store.Store, m *metrics.Metrics) *Service {
	return &Service{
		lg:      lg,
		log:     log,
		store:   st,
		metrics: m,
	}
}

// SendResult correlates the stream entry with the persisted request record.
type SendResult struct {
	UserID    string `json:"user_id"`
	MessageID string `json:"message_id"`
	RequestID string `json:"request_id"`
}

// Publish appends one message to the recipient's log and returns the
// assigned entry id.
func (s *Service) Publish(ctx context.Context, userID, message string) (string, error) {
	entryID, err := s.log.Append(ctx, userID, message)
	if err != nil {
		s.lg.Error("failed to publish notification",
			zap.String("user_id", userID), zap.Error(err))
		return "", errors.NewError(errors.CodeNotificationPublishFailed, "failed to publish notification", err).
			WithStatusCode(http.StatusInternalServerError)
	}
	s.metrics.NotificationPublished(ctx)
	return entryID, nil
}

// Send runs the full notification flow for an authenticated client:
// publish the payload to the recipient's stream, then record the request
// against the push channel, creating the receiver on first use. The entry
// id is returned to the caller as the message id.
func (s *Service) Send(ctx context.Context, client *store.Client, userID string, payload []byte) (*SendResult, error) {
	entryID, err := s.Publish(ctx, userID, string(payload))
	if err != nil {
		return nil, err
	}

	channel, err := s.store.Channels.GetByName(ctx, PushChannelName)
	if err != nil {
		return nil, err
	}

	receiver, err := s.store.Receivers.GetOrCreate(ctx, client.ID, userID)
	if err != nil {
		return nil, err
	}

	request, err := s.store.Requests.Create(ctx, store.CreateRequestParams{
		ClientID:      client.ID,
		ChannelID:     channel.ID,
		ReceiverID:    receiver.ID,
		Payload:       payload,
		RequestSource: "notification",
	})
	if err != nil {
		return nil, err
	}

	s.lg.Info("notification accepted",
		zap.String("client", client.ClientName),
		zap.String("user_id", userID),
		zap.String("message_id", entryID),
		zap.String("request_id", request.ID))

	return &SendResult{
		UserID:    userID,
		MessageID: entryID,
		RequestID: request.ID,
	}, nil
}

// Acknowledge removes the given entry ids from the recipient's pending set.
// Ids that were never delivered are ignored by the log store; a failure is
// surfaced as an explicit application error because silently keeping
// entries pending would cause redelivery the caller does not expect.
func (s *Service) Acknowledge(ctx context.Context, userID string, entryIDs []string) error {
	if err := s.log.Ack(ctx, userID, entryIDs...); err != nil {
		s.lg.Error("failed to acknowledge notifications",
			zap.String("user_id", userID),
			zap.Strings("entry_ids", entryIDs),
			zap.Error(err))
		return errors.NewError(errors.CodeNotificationAcknowledgeFailed, "failed to acknowledge notifications", err).
			WithStatusCode(http.StatusInternalServerError)
	}
	s.metrics.NotificationsAcknowledged(ctx, int64(len(entryIDs)))
	return nil
}
