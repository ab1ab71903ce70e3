package store

import (
	"context"
	"net/http"

	"gorm.io/gorm"

	"github.com/infigaming-com/notification-service/errors"
)

type ProviderRepo struct {
	db *gorm.DB
}

func (r *ProviderRepo) Create(ctx context.Context, name, channelID, description string) (*Provider, error) {
	provider := &Provider{
		Name:        name,
		ChannelID:   channelID,
		Description: description,
		IsActive:    true,
	}
	if err := r.db.WithContext(ctx).Create(provider).Error; err != nil {
		return nil, errors.NewError(errors.CodeProviderCreateFailed, "failed to create provider", err)
	}
	return provider, nil
}

func (r *ProviderRepo) GetByName(ctx context.Context, name string) (*Provider, error) {
	var provider Provider
	err := r.db.WithContext(ctx).First(&provider, "name = ?", name).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewError(errors.CodeProviderNotFound, "provider not found", err).
				WithStatusCode(http.StatusNotFound)
		}
		return nil, errors.NewError(errors.CodeProviderGetByIDFailed, "failed to get provider by name", err)
	}
	return &provider, nil
}

func (r *ProviderRepo) ListByChannel(ctx context.Context, channelID string) ([]Provider, error) {
	var providers []Provider
	if err := r.db.WithContext(ctx).Find(&providers, "channel_id = ?", channelID).Error; err != nil {
		return nil, errors.NewError(errors.CodeProviderGetByChannelIDFailed, "failed to list providers", err)
	}
	return providers, nil
}

func (r *ProviderRepo) MarkInactive(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&Provider{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return errors.NewError(errors.CodeProviderUpdateStatusFailed, "failed to update provider status", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.NewError(errors.CodeProviderNotFound, "provider not found", nil).
			WithStatusCode(http.StatusNotFound)
	}
	return nil
}
