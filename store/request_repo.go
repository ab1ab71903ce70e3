package store

import (
	"context"
	"net/http"

	"gorm.io/gorm"

	"github.com/infigaming-com/notification-service/errors"
)

// CreateRequestParams carries everything needed to record a notification
// request. ProviderID and TemplateID are optional.
type CreateRequestParams struct {
	ClientID      string
	ChannelID     string
	ReceiverID    string
	ProviderID    *string
	TemplateID    *string
	Payload       []byte
	RequestSource string
}

type RequestRepo struct {
	db *gorm.DB
}

// Create verifies the referenced entities exist, then inserts the request
// with status PENDING.
func (r *RequestRepo) Create(ctx context.Context, params CreateRequestParams) (*Request, error) {
	if err := r.checkExists(ctx, &Client{}, params.ClientID, "client not found"); err != nil {
		return nil, err
	}
	if err := r.checkExists(ctx, &Channel{}, params.ChannelID, "channel not found"); err != nil {
		return nil, err
	}
	if err := r.checkExists(ctx, &Receiver{}, params.ReceiverID, "receiver not found"); err != nil {
		return nil, err
	}
	if params.ProviderID != nil {
		if err := r.checkExists(ctx, &Provider{}, *params.ProviderID, "provider not found"); err != nil {
			return nil, err
		}
	}
	if params.TemplateID != nil {
		if err := r.checkExists(ctx, &Template{}, *params.TemplateID, "template not found"); err != nil {
			return nil, err
		}
	}

	request := &Request{
		ClientID:      params.ClientID,
		ChannelID:     params.ChannelID,
		ProviderID:    params.ProviderID,
		ReceiverID:    params.ReceiverID,
		TemplateID:    params.TemplateID,
		Payload:       params.Payload,
		Status:        StatusPending,
		RequestSource: params.RequestSource,
	}
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, errors.NewError(errors.CodeRequestCreateFailed, "failed to create request", err)
	}
	return request, nil
}

func (r *RequestRepo) checkExists(ctx context.Context, model any, id, message string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return errors.NewError(errors.CodeRequestCreateFailed, "failed to create request", err)
	}
	if count == 0 {
		return errors.NewError(errors.CodeRequestCreateFailed, message, nil).
			WithStatusCode(http.StatusNotFound)
	}
	return nil
}

func (r *RequestRepo) GetByID(ctx context.Context, id string) (*Request, error) {
	var request Request
	err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewError(errors.CodeRequestGetByIDFailed, "request not found", err).
				WithStatusCode(http.StatusNotFound)
		}
		return nil, errors.NewError(errors.CodeRequestGetByIDFailed, "failed to get request by id", err)
	}
	return &request, nil
}

func (r *RequestRepo) ListByReceiver(ctx context.Context, receiverID string) ([]Request, error) {
	var requests []Request
	if err := r.db.WithContext(ctx).Find(&requests, "receiver_id = ?", receiverID).Error; err != nil {
		return nil, errors.NewError(errors.CodeRequestGetByReceiverFailed, "failed to list requests", err)
	}
	return requests, nil
}

func (r *RequestRepo) UpdateStatus(ctx context.Context, id string, status NotificationStatus, errorMessage string) error {
	res := r.db.WithContext(ctx).Model(&Request{}).Where("id = ?", id).
		Updates(map[string]any{"status": status, "error_message": errorMessage})
	if res.Error != nil {
		return errors.NewError(errors.CodeRequestStatusUpdateFailed, "failed to update request status", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.NewError(errors.CodeRequestGetByIDFailed, "request not found", nil).
			WithStatusCode(http.StatusNotFound)
	}
	return nil
}
