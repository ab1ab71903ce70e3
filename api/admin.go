package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/infigaming-com/notification-service/store"
	"github.com/infigaming-com/notification-service/util"
)

type createClientRequest struct {
	ClientName string `json:"client_name" binding:"required"`
}

// handleCreateClient registers a new API consumer. The raw api key is
// returned exactly once; only its hash is stored.
func (a *API) handleCreateClient(c *gin.Context) {
	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidBody(c)
		return
	}

	apiKey, err := util.NewAPIKey()
	if err != nil {
		respondError(c, err)
		return
	}

	client, err := a.store.Clients.Create(c.Request.Context(), req.ClientName, util.HashAPIKey(apiKey))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":          client.ID,
		"client_name": client.ClientName,
		"api_key":     apiKey,
	})
}

func (a *API) handleGetClient(c *gin.Context) {
	client, err := a.store.Clients.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (a *API) handleListClients(c *gin.Context) {
	clients, err := a.store.Clients.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": clients})
}

func (a *API) handleDeactivateClient(c *gin.Context) {
	if err := a.store.Clients.MarkInactive(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleRotateAPIKey replaces a client's api key. The old key stops working
// once its auth-cache entry expires.
func (a *API) handleRotateAPIKey(c *gin.Context) {
	apiKey, err := util.NewAPIKey()
	if err != nil {
		respondError(c, err)
		return
	}

	if err := a.store.Clients.UpdateAPIKeyHash(c.Request.Context(), c.Param("id"), util.HashAPIKey(apiKey)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"api_key": apiKey})
}

type createChannelRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (a *API) handleCreateChannel(c *gin.Context) {
	var req createChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidBody(c)
		return
	}

	channel, err := a.store.Channels.Create(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, channel)
}

func (a *API) handleListChannels(c *gin.Context) {
	channels, err := a.store.Channels.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"channels": channels})
}

func (a *API) handleDeactivateChannel(c *gin.Context) {
	if err := a.store.Channels.MarkInactive(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type createProviderRequest struct {
	Name        string `json:"name" binding:"required"`
	ChannelID   string `json:"channel_id" binding:"required"`
	Description string `json:"description"`
}

func (a *API) handleCreateProvider(c *gin.Context) {
	var req createProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidBody(c)
		return
	}

	provider, err := a.store.Providers.Create(c.Request.Context(), req.Name, req.ChannelID, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, provider)
}

// handleListProviders lists providers, filtered by channel when a
// channel_id query parameter is given.
func (a *API) handleListProviders(c *gin.Context) {
	ctx := c.Request.Context()

	if name := c.Query("name"); name != "" {
		provider, err := a.store.Providers.GetByName(ctx, name)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"providers": []store.Provider{*provider}})
		return
	}

	providers, err := a.store.Providers.ListByChannel(ctx, c.Query("channel_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"providers": providers})
}

func (a *API) handleDeactivateProvider(c *gin.Context) {
	if err := a.store.Providers.MarkInactive(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type createTemplateRequest struct {
	Name       string  `json:"name" binding:"required"`
	ChannelID  string  `json:"channel_id" binding:"required"`
	ProviderID *string `json:"provider_id"`
	Content    string  `json:"content"`
}

func (a *API) handleCreateTemplate(c *gin.Context) {
	var req createTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidBody(c)
		return
	}

	template, err := a.store.Templates.Create(c.Request.Context(), &store.Template{
		Name:       req.Name,
		ChannelID:  req.ChannelID,
		ProviderID: req.ProviderID,
		Content:    req.Content,
		IsActive:   true,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, template)
}

func (a *API) handleGetTemplate(c *gin.Context) {
	template, err := a.store.Templates.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

func (a *API) handleDeleteTemplate(c *gin.Context) {
	if err := a.store.Templates.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleListReceivers lists the receivers of the authenticated client.
func (a *API) handleListReceivers(c *gin.Context) {
	client, ok := clientOrAbort(c)
	if !ok {
		return
	}

	receivers, err := a.store.Receivers.ListByClient(c.Request.Context(), client.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"receivers": receivers})
}

func (a *API) handleGetRequest(c *gin.Context) {
	request, err := a.store.Requests.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

type updateRequestStatusRequest struct {
	Status       store.NotificationStatus `json:"status" binding:"required,oneof=PENDING ACCEPTED REJECTED"`
	ErrorMessage string                   `json:"error_message"`
}

func (a *API) handleUpdateRequestStatus(c *gin.Context) {
	var req updateRequestStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidBody(c)
		return
	}

	if err := a.store.Requests.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, req.ErrorMessage); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
