package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/infigaming-com/notification-service/cache"
	"github.com/infigaming-com/notification-service/delivery"
	"github.com/infigaming-com/notification-service/errors"
	"github.com/infigaming-com/notification-service/notification"
	"github.com/infigaming-com/notification-service/store"
	"github.com/infigaming-com/notification-service/web/middleware"
)

// API wires the HTTP and websocket surface to the delivery pipeline.
type API struct {
	lg           *zap.Logger
	notification *notification.Service
	orchestrator *delivery.Orchestrator
	store        *store.Store
	authCache    cache.Cache
}

func New(
	lg *zap.Logger,
	svc *notification.Service,
	orchestrator *delivery.Orchestrator,
	st *store.Store,
	authCache cache.Cache,
) *API {
	return &API{
		lg:           lg,
		notification: svc,
		orchestrator: orchestrator,
		store:        st,
		authCache:    authCache,
	}
}

// RegisterRoutes mounts all endpoints. The websocket endpoint authenticates
// by client name inside the orchestrator; every other endpoint requires an
// api key.
func (a *API) RegisterRoutes(e *gin.Engine) {
	e.GET("/api/ws/:client_name/:user_id", a.handleWebsocket)

	authed := e.Group("/api", middleware.APIKeyAuthMiddleware(a.lg, a.store.Clients, a.authCache))

	authed.POST("/notification/send", a.handleSend)
	authed.POST("/notification/acknowledge", a.handleAcknowledge)

	authed.POST("/clients", a.handleCreateClient)
	authed.GET("/clients", a.handleListClients)
	authed.GET("/clients/:id", a.handleGetClient)
	authed.POST("/clients/:id/deactivate", a.handleDeactivateClient)
	authed.POST("/clients/:id/api-key", a.handleRotateAPIKey)

	authed.POST("/channels", a.handleCreateChannel)
	authed.GET("/channels", a.handleListChannels)
	authed.POST("/channels/:id/deactivate", a.handleDeactivateChannel)

	authed.POST("/providers", a.handleCreateProvider)
	authed.GET("/providers", a.handleListProviders)
	authed.POST("/providers/:id/deactivate", a.handleDeactivateProvider)

	authed.POST("/templates", a.handleCreateTemplate)
	authed.GET("/templates/:id", a.handleGetTemplate)
	authed.DELETE("/templates/:id", a.handleDeleteTemplate)

	authed.GET("/receivers", a.handleListReceivers)

	authed.GET("/requests/:id", a.handleGetRequest)
	authed.POST("/requests/:id/status", a.handleUpdateRequestStatus)
}

// respondError maps an application error onto its HTTP status, defaulting
// to 500 for anything without one.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := int64(0)
	message := "internal error"

	var appErr *errors.Error
	if errors.AsError(err, &appErr) {
		code = appErr.GetCode()
		message = appErr.GetMessage()
		if appErr.GetStatusCode() != 0 {
			status = appErr.GetStatusCode()
		}
	}

	c.AbortWithStatusJSON(status, gin.H{"code": code, "message": message})
}

// clientOrAbort fetches the authenticated client; requests reaching a
// handler without one indicate a route mounted outside the auth group.
func clientOrAbort(c *gin.Context) (*store.Client, bool) {
	client, ok := middleware.ClientFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"code":    errors.CodeUnauthorized,
			"message": "unauthorized",
		})
		return nil, false
	}
	return client, true
}

func respondInvalidBody(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"code":    errors.CodeInvalidRequestBody,
		"message": "invalid request body",
	})
}
