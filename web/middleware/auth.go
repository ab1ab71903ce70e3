package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/infigaming-com/notification-service/cache"
	"github.com/infigaming-com/notification-service/errors"
	"github.com/infigaming-com/notification-service/store"
	"github.com/infigaming-com/notification-service/util"
)

const (
	APIKeyHeader = "x-api-key"

	authClientKey = "authClient"
	authCacheTTL  = 5 * time.Minute
)

// APIKeyAuthMiddleware authenticates callers by the x-api-key header. Only
// the key's hash is ever compared or stored; resolved clients are cached so
// the database is not hit on every request. Deactivating a client takes
// effect once its cache entry expires.
func APIKeyAuthMiddleware(lg *zap.Logger, clients *store.ClientRepo, authCache cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader(APIKeyHeader)
		if apiKey == "" {
			abortUnauthorized(c, "missing api key")
			return
		}

		ctx := c.Request.Context()
		hash := util.HashAPIKey(apiKey)
		cacheKey := "auth:client:" + hash

		if cached, err := cache.GetTyped[store.Client](ctx, authCache, cacheKey); err == nil {
			c.Set(authClientKey, &cached)
			c.Next()
			return
		}

		client, err := clients.GetActiveByAPIKeyHash(ctx, hash)
		if err != nil {
			abortUnauthorized(c, "invalid api key")
			return
		}

		if err := cache.SetTyped(ctx, authCache, cacheKey, *client, authCacheTTL); err != nil {
			lg.Warn("failed to cache authenticated client", zap.Error(err))
		}

		c.Set(authClientKey, client)
		c.Next()
	}
}

// ClientFromContext returns the client the auth middleware resolved for
// this request.
func ClientFromContext(c *gin.Context) (*store.Client, bool) {
	value, exists := c.Get(authClientKey)
	if !exists {
		return nil, false
	}
	client, ok := value.(*store.Client)
	return client, ok
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":    errors.CodeUnauthorized,
		"message": message,
	})
}
