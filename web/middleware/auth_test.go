package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coocood/freecache"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/infigaming-com/notification-service/cache"
	"github.com/infigaming-com/notification-service/store"
	"github.com/infigaming-com/notification-service/util"
)

func setupAuthRouter(t *testing.T) (*gin.Engine, *store.Store, cache.Cache) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, store.AutoMigrate(db))
	st := store.New(db)

	authCache := cache.NewFreeCache(freecache.NewCache(1024 * 1024))

	router := gin.New()
	router.Use(APIKeyAuthMiddleware(zap.NewNop(), st.Clients, authCache))
	router.GET("/whoami", func(c *gin.Context) {
		client, ok := ClientFromContext(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"client_name": client.ClientName})
	})

	return router, st, authCache
}

func doRequest(router *gin.Engine, apiKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if apiKey != "" {
		req.Header.Set(APIKeyHeader, apiKey)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthMissingKey(t *testing.T) {
	router, _, _ := setupAuthRouter(t)

	rec := doRequest(router, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthInvalidKey(t *testing.T) {
	router, _, _ := setupAuthRouter(t)

	rec := doRequest(router, "no-such-key")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthValidKey(t *testing.T) {
	router, st, _ := setupAuthRouter(t)

	apiKey, err := util.NewAPIKey()
	require.NoError(t, err)
	_, err = st.Clients.Create(context.Background(), "acme", util.HashAPIKey(apiKey))
	require.NoError(t, err)

	rec := doRequest(router, apiKey)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "acme")
}

func TestAuthCachesResolvedClient(t *testing.T) {
	router, st, _ := setupAuthRouter(t)
	ctx := context.Background()

	apiKey, err := util.NewAPIKey()
	require.NoError(t, err)
	client, err := st.Clients.Create(ctx, "acme", util.HashAPIKey(apiKey))
	require.NoError(t, err)

	rec := doRequest(router, apiKey)
	require.Equal(t, http.StatusOK, rec.Code)

	// Until the cache entry expires the client stays authenticated even
	// after deactivation.
	require.NoError(t, st.Clients.MarkInactive(ctx, client.ID))

	rec = doRequest(router, apiKey)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthDeactivatedClientAfterCacheClear(t *testing.T) {
	router, st, authCache := setupAuthRouter(t)
	ctx := context.Background()

	apiKey, err := util.NewAPIKey()
	require.NoError(t, err)
	client, err := st.Clients.Create(ctx, "acme", util.HashAPIKey(apiKey))
	require.NoError(t, err)

	rec := doRequest(router, apiKey)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, st.Clients.MarkInactive(ctx, client.ID))
	require.NoError(t, authCache.Clear(ctx))

	rec = doRequest(router, apiKey)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
