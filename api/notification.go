package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

type sendRequest struct {
	UserID  string          `json:"user_id" binding:"required"`
	Message json.RawMessage `json:"message" binding:"required"`
}

func (a *API) handleSend(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidBody(c)
		return
	}

	client, ok := clientOrAbort(c)
	if !ok {
		return
	}

	result, err := a.notification.Send(c.Request.Context(), client, req.UserID, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":    result.UserID,
		"message_id": result.MessageID,
	})
}

type acknowledgeRequest struct {
	UserID   string   `json:"user_id" binding:"required"`
	EntryIDs []string `json:"entry_ids" binding:"required,min=1"`
}

func (a *API) handleAcknowledge(c *gin.Context) {
	var req acknowledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidBody(c)
		return
	}

	if err := a.notification.Acknowledge(c.Request.Context(), req.UserID, req.EntryIDs); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":      req.UserID,
		"acknowledged": len(req.EntryIDs),
	})
}
