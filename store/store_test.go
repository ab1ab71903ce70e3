package store

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/infigaming-com/notification-service/errors"
	"github.com/infigaming-com/notification-service/util"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return New(db)
}

func TestClientLifecycle(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	hash := util.HashAPIKey("secret-key")
	client, err := s.Clients.Create(ctx, "Acme", hash)
	require.NoError(t, err)
	assert.NotEmpty(t, client.ID)
	assert.Equal(t, "acme", client.ClientName, "client names are stored lowercased")
	assert.True(t, client.IsActive)

	byName, err := s.Clients.GetByName(ctx, "ACME")
	require.NoError(t, err)
	assert.Equal(t, client.ID, byName.ID)

	byKey, err := s.Clients.GetActiveByAPIKeyHash(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, client.ID, byKey.ID)

	require.NoError(t, s.Clients.MarkInactive(ctx, client.ID))

	_, err = s.Clients.GetActiveByAPIKeyHash(ctx, hash)
	require.Error(t, err)
	assert.Equal(t, errors.CodeClientNotFound, errors.CodeOf(err))
}

func TestClientNotFound(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	_, err := s.Clients.GetByName(ctx, "ghost")
	require.Error(t, err)
	assert.Equal(t, errors.CodeClientNotFound, errors.CodeOf(err))

	err = s.Clients.MarkInactive(ctx, "no-such-id")
	require.Error(t, err)
	assert.Equal(t, errors.CodeClientNotFound, errors.CodeOf(err))
}

func TestUpdateAPIKeyHash(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	oldHash := util.HashAPIKey("old")
	client, err := s.Clients.Create(ctx, "acme", oldHash)
	require.NoError(t, err)

	newHash := util.HashAPIKey("new")
	require.NoError(t, s.Clients.UpdateAPIKeyHash(ctx, client.ID, newHash))

	_, err = s.Clients.GetActiveByAPIKeyHash(ctx, oldHash)
	assert.Error(t, err)

	byKey, err := s.Clients.GetActiveByAPIKeyHash(ctx, newHash)
	require.NoError(t, err)
	assert.Equal(t, client.ID, byKey.ID)
}

func TestReceiverGetOrCreate(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	client, err := s.Clients.Create(ctx, "acme", util.HashAPIKey("k"))
	require.NoError(t, err)

	first, err := s.Receivers.GetOrCreate(ctx, client.ID, "u1")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	second, err := s.Receivers.GetOrCreate(ctx, client.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "second call must reuse the existing receiver")

	other, err := s.Receivers.GetOrCreate(ctx, client.ID, "u2")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)

	receivers, err := s.Receivers.ListByClient(ctx, client.ID)
	require.NoError(t, err)
	assert.Len(t, receivers, 2)
}

func TestRequestLifecycle(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	client, err := s.Clients.Create(ctx, "acme", util.HashAPIKey("k"))
	require.NoError(t, err)
	channel, err := s.Channels.Create(ctx, "push_notification", "in-app push")
	require.NoError(t, err)
	receiver, err := s.Receivers.GetOrCreate(ctx, client.ID, "u1")
	require.NoError(t, err)

	request, err := s.Requests.Create(ctx, CreateRequestParams{
		ClientID:      client.ID,
		ChannelID:     channel.ID,
		ReceiverID:    receiver.ID,
		Payload:       []byte(`{"message":"hello"}`),
		RequestSource: "notification",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, request.Status)

	got, err := s.Requests.GetByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, request.ID, got.ID)

	require.NoError(t, s.Requests.UpdateStatus(ctx, request.ID, StatusAccepted, ""))
	got, err = s.Requests.GetByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, got.Status)

	byReceiver, err := s.Requests.ListByReceiver(ctx, receiver.ID)
	require.NoError(t, err)
	assert.Len(t, byReceiver, 1)
}

func TestRequestCreateChecksReferences(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	client, err := s.Clients.Create(ctx, "acme", util.HashAPIKey("k"))
	require.NoError(t, err)
	channel, err := s.Channels.Create(ctx, "push_notification", "")
	require.NoError(t, err)

	_, err = s.Requests.Create(ctx, CreateRequestParams{
		ClientID:   client.ID,
		ChannelID:  channel.ID,
		ReceiverID: "no-such-receiver",
		Payload:    []byte(`{}`),
	})
	require.Error(t, err)
	assert.Equal(t, errors.CodeRequestCreateFailed, errors.CodeOf(err))
}

func TestChannelMarkInactive(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	channel, err := s.Channels.Create(ctx, "email", "smtp delivery")
	require.NoError(t, err)

	require.NoError(t, s.Channels.MarkInactive(ctx, channel.ID))

	got, err := s.Channels.GetByName(ctx, "email")
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestProviderAndTemplate(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	channel, err := s.Channels.Create(ctx, "push_notification", "")
	require.NoError(t, err)

	provider, err := s.Providers.Create(ctx, "fcm", channel.ID, "firebase")
	require.NoError(t, err)

	providers, err := s.Providers.ListByChannel(ctx, channel.ID)
	require.NoError(t, err)
	require.Len(t, providers, 1)
	assert.Equal(t, provider.ID, providers[0].ID)

	template, err := s.Templates.Create(ctx, &Template{
		Name:      "welcome",
		ChannelID: channel.ID,
		Content:   "hello {{name}}",
	})
	require.NoError(t, err)

	got, err := s.Templates.GetByID(ctx, template.ID)
	require.NoError(t, err)
	assert.Equal(t, "welcome", got.Name)

	require.NoError(t, s.Templates.Delete(ctx, template.ID))
	_, err = s.Templates.GetByID(ctx, template.ID)
	assert.Equal(t, errors.CodeTemplateNotFound, errors.CodeOf(err))
}
