package store

import (
	"context"
	"net/http"

	"gorm.io/gorm"

	"github.com/infigaming-com/notification-service/errors"
)

type ChannelRepo struct {
	db *gorm.DB
}

func (r *ChannelRepo) Create(ctx context.Context, name, description string) (*Channel, error) {
	channel := &Channel{
		Name:        name,
		Description: description,
		IsActive:    true,
	}
	if err := r.db.WithContext(ctx).Create(channel).Error; err != nil {
		return nil, errors.NewError(errors.CodeChannelCreateFailed, "failed to create channel", err)
	}
	return channel, nil
}

func (r *ChannelRepo) GetByName(ctx context.Context, name string) (*Channel, error) {
	var channel Channel
	err := r.db.WithContext(ctx).First(&channel, "name = ?", name).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewError(errors.CodeChannelNotFound, "channel not found", err).
				WithStatusCode(http.StatusNotFound)
		}
		return nil, errors.NewError(errors.CodeChannelGetByNameFailed, "failed to get channel by name", err)
	}
	return &channel, nil
}

func (r *ChannelRepo) List(ctx context.Context) ([]Channel, error) {
	var channels []Channel
	if err := r.db.WithContext(ctx).Find(&channels).Error; err != nil {
		return nil, errors.NewError(errors.CodeChannelGetAllFailed, "failed to list channels", err)
	}
	return channels, nil
}

func (r *ChannelRepo) MarkInactive(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&Channel{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return errors.NewError(errors.CodeChannelUpdateStatusFailed, "failed to update channel status", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.NewError(errors.CodeChannelNotFound, "channel not found", nil).
			WithStatusCode(http.StatusNotFound)
	}
	return nil
}
