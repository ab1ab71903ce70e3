package store

import (
	"context"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/infigaming-com/notification-service/errors"
)

// ClientRepo handles Client persistence. Lookups by api key only match
// active clients; inactive clients keep their rows but lose access.
type ClientRepo struct {
	db *gorm.DB
}

func (r *ClientRepo) Create(ctx context.Context, clientName, apiKeyHash string) (*Client, error) {
	client := &Client{
		ClientName: strings.ToLower(clientName),
		APIKeyHash: apiKeyHash,
		IsActive:   true,
	}
	if err := r.db.WithContext(ctx).Create(client).Error; err != nil {
		return nil, errors.NewError(errors.CodeClientCreateFailed, "failed to create client", err)
	}
	return client, nil
}

func (r *ClientRepo) GetByID(ctx context.Context, id string) (*Client, error) {
	var client Client
	err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewError(errors.CodeClientNotFound, "client not found", err).
				WithStatusCode(http.StatusNotFound)
		}
		return nil, errors.NewError(errors.CodeClientGetByIDFailed, "failed to get client by id", err)
	}
	return &client, nil
}

func (r *ClientRepo) GetByName(ctx context.Context, clientName string) (*Client, error) {
	var client Client
	err := r.db.WithContext(ctx).First(&client, "client_name = ?", strings.ToLower(clientName)).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewError(errors.CodeClientNotFound, "client not found", err).
				WithStatusCode(http.StatusNotFound)
		}
		return nil, errors.NewError(errors.CodeClientGetByNameFailed, "failed to get client by name", err)
	}
	return &client, nil
}

// GetActiveByAPIKeyHash resolves an active client from a hashed api key.
func (r *ClientRepo) GetActiveByAPIKeyHash(ctx context.Context, apiKeyHash string) (*Client, error) {
	var client Client
	err := r.db.WithContext(ctx).
		First(&client, "api_key_hash = ? AND is_active = ?", apiKeyHash, true).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewError(errors.CodeClientNotFound, "invalid or inactive api key", err).
				WithStatusCode(http.StatusUnauthorized)
		}
		return nil, errors.NewError(errors.CodeClientGetByAPIKeyFailed, "failed to get client by api key", err)
	}
	return &client, nil
}

func (r *ClientRepo) List(ctx context.Context) ([]Client, error) {
	var clients []Client
	if err := r.db.WithContext(ctx).Find(&clients).Error; err != nil {
		return nil, errors.NewError(errors.CodeClientGetAllFailed, "failed to list clients", err)
	}
	return clients, nil
}

func (r *ClientRepo) MarkInactive(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&Client{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return errors.NewError(errors.CodeClientUpdateStatusFailed, "failed to update client status", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.NewError(errors.CodeClientNotFound, "client not found", nil).
			WithStatusCode(http.StatusNotFound)
	}
	return nil
}

// UpdateAPIKeyHash replaces the stored api key hash, invalidating the old key.
func (r *ClientRepo) UpdateAPIKeyHash(ctx context.Context, id, apiKeyHash string) error {
	res := r.db.WithContext(ctx).Model(&Client{}).Where("id = ?", id).Update("api_key_hash", apiKeyHash)
	if res.Error != nil {
		return errors.NewError(errors.CodeClientUpdateStatusFailed, "failed to update client api key", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.NewError(errors.CodeClientNotFound, "client not found", nil).
			WithStatusCode(http.StatusNotFound)
	}
	return nil
}
