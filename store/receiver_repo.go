package store

import (
	"context"
	"net/http"

	"gorm.io/gorm"

	"github.com/infigaming-com/notification-service/errors"
)

type ReceiverRepo struct {
	db *gorm.DB
}

func (r *ReceiverRepo) Create(ctx context.Context, receiver *Receiver) (*Receiver, error) {
	if err := r.db.WithContext(ctx).Create(receiver).Error; err != nil {
		return nil, errors.NewError(errors.CodeReceiverCreateFailed, "failed to create receiver", err)
	}
	return receiver, nil
}

func (r *ReceiverRepo) GetByClientAndUser(ctx context.Context, clientID, userID string) (*Receiver, error) {
	var receiver Receiver
	err := r.db.WithContext(ctx).
		First(&receiver, "client_id = ? AND user_id = ?", clientID, userID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewError(errors.CodeReceiverNotFound, "receiver not found", err).
				WithStatusCode(http.StatusNotFound)
		}
		return nil, errors.NewError(errors.CodeReceiverGetByClientIDFailed, "failed to get receiver", err)
	}
	return &receiver, nil
}

// GetOrCreate returns the receiver for (clientID, userID), creating it on
// first use. The send flow calls this for every notification, so unknown
// recipients become receivers implicitly.
func (r *ReceiverRepo) GetOrCreate(ctx context.Context, clientID, userID string) (*Receiver, error) {
	receiver, err := r.GetByClientAndUser(ctx, clientID, userID)
	if err == nil {
		return receiver, nil
	}
	var appErr *errors.Error
	if !errors.AsError(err, &appErr) || appErr.GetCode() != errors.CodeReceiverNotFound {
		return nil, err
	}
	return r.Create(ctx, &Receiver{ClientID: clientID, UserID: userID})
}

func (r *ReceiverRepo) ListByClient(ctx context.Context, clientID string) ([]Receiver, error) {
	var receivers []Receiver
	if err := r.db.WithContext(ctx).Find(&receivers, "client_id = ?", clientID).Error; err != nil {
		return nil, errors.NewError(errors.CodeReceiverGetByClientIDFailed, "failed to list receivers", err)
	}
	return receivers, nil
}
