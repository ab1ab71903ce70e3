package store

import (
	"context"
	"net/http"

	"gorm.io/gorm"

	"github.com/infigaming-com/notification-service/errors"
)

type TemplateRepo struct {
	db *gorm.DB
}

func (r *TemplateRepo) Create(ctx context.Context, template *Template) (*Template, error) {
	if err := r.db.WithContext(ctx).Create(template).Error; err != nil {
		return nil, errors.NewError(errors.CodeTemplateCreateFailed, "failed to create template", err)
	}
	return template, nil
}

func (r *TemplateRepo) GetByID(ctx context.Context, id string) (*Template, error) {
	var template Template
	err := r.db.WithContext(ctx).First(&template, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewError(errors.CodeTemplateNotFound, "template not found", err).
				WithStatusCode(http.StatusNotFound)
		}
		return nil, errors.NewError(errors.CodeTemplateGetByIDFailed, "failed to get template by id", err)
	}
	return &template, nil
}

func (r *TemplateRepo) ListByChannel(ctx context.Context, channelID string) ([]Template, error) {
	var templates []Template
	if err := r.db.WithContext(ctx).Find(&templates, "channel_id = ?", channelID).Error; err != nil {
		return nil, errors.NewError(errors.CodeTemplateGetByChannelIDFailed, "failed to list templates", err)
	}
	return templates, nil
}

func (r *TemplateRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&Template{}, "id = ?", id)
	if res.Error != nil {
		return errors.NewError(errors.CodeTemplateDeleteFailed, "failed to delete template", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.NewError(errors.CodeTemplateNotFound, "template not found", nil).
			WithStatusCode(http.StatusNotFound)
	}
	return nil
}
