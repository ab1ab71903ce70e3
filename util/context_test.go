package util

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/infigaming-com/notification-service/errors"
)

func TestValueFromCtx(t *testing.T) {
	type TestStruct struct {
		Field string
	}

	tests := []struct {
		name        string
		setupCtx    func() context.Context
		key         ContextKey
		wantValue   any
		wantErrCode int64
	}{
		{
			name: "string value - success",
			setupCtx: func() context.Context {
				return ValueToCtx(context.Background(), "string-key", "test-value")
			},
			key:       "string-key",
			wantValue: "test-value",
		},
		{
			name: "struct value - success",
			setupCtx: func() context.Context {
				return ValueToCtx(context.Background(), "struct-key", TestStruct{Field: "test"})
			},
			key:       "struct-key",
			wantValue: TestStruct{Field: "test"},
		},
		{
			name: "missing key - error",
			setupCtx: func() context.Context {
				return context.Background()
			},
			key:         "missing-key",
			wantErrCode: ErrCodeValueNotFoundInContext,
		},
		{
			name: "wrong type - error",
			setupCtx: func() context.Context {
				return ValueToCtx(context.Background(), "wrong-type", 42)
			},
			key:         "wrong-type",
			wantErrCode: ErrCodeInvalidValueInContext,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := tt.setupCtx()

			if tt.wantErrCode != 0 {
				_, err := ValueFromCtx[string](ctx, tt.key)
				assert.Error(t, err)
				var appErr *errors.Error
				assert.ErrorAs(t, err, &appErr)
				assert.Equal(t, tt.wantErrCode, appErr.GetCode())
				return
			}

			switch want := tt.wantValue.(type) {
			case string:
				got, err := ValueFromCtx[string](ctx, tt.key)
				assert.NoError(t, err)
				assert.Equal(t, want, got)
			case TestStruct:
				got, err := ValueFromCtx[TestStruct](ctx, tt.key)
				assert.NoError(t, err)
				assert.Equal(t, want, got)
			}
		})
	}
}

func TestCorrelationIdRoundTrip(t *testing.T) {
	ctx := CorrelationIdToCtx(context.Background(), "abc-123")

	got, err := CorrelationIdFromCtx(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "abc-123", got)

	_, err = CorrelationIdFromCtx(context.Background())
	assert.Error(t, err)
}

func TestHashAPIKey(t *testing.T) {
	h1 := HashAPIKey("secret")
	h2 := HashAPIKey("secret")
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
	assert.NotEqual(t, h1, HashAPIKey("other"))
}

func TestNewAPIKey(t *testing.T) {
	k1, err := NewAPIKey()
	assert.NoError(t, err)
	k2, err := NewAPIKey()
	assert.NoError(t, err)
	assert.Len(t, k1, 64)
	assert.NotEqual(t, k1, k2)
}
