package api

import (
	"context"
	"net/http"

	"github.com/infigaming-com/notification-service/errors"
	"github.com/infigaming-com/notification-service/store"
)

// ClientValidator authorizes websocket connection attempts against the
// client table.
type ClientValidator struct {
	clients *store.ClientRepo
}

func NewClientValidator(clients *store.ClientRepo) *ClientValidator {
	return &ClientValidator{clients: clients}
}

func (v *ClientValidator) ValidateClient(ctx context.Context, clientName string) error {
	client, err := v.clients.GetByName(ctx, clientName)
	if err != nil {
		return err
	}
	if !client.IsActive {
		return errors.NewError(errors.CodeClientNotFound, "client is inactive", nil).
			WithStatusCode(http.StatusNotFound)
	}
	return nil
}
