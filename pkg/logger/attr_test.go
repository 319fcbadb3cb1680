package logger_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/videovault/pkg/logger"
)

func TestError(t *testing.T) {
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

func TestUserID(t *testing.T) {
	attr := logger.UserID("123")
	require.Equal(t, "user_id", attr.Key)
	assert.Equal(t, "123", attr.Value.Any())

	assert.True(t, logger.UserID(nil).Equal(slog.Attr{}))
}

func TestBillingAttrs(t *testing.T) {
	assert.Equal(t, "sub_1", logger.SubscriptionID("sub_1").Value.String())
	assert.Equal(t, "subscription_status", logger.SubscriptionStatus("active").Key)
	assert.Equal(t, "cus_1", logger.CustomerID("cus_1").Value.String())
	assert.Equal(t, "evt_1", logger.EventID("evt_1").Value.String())
	assert.Equal(t, int64(2), logger.Affected(2).Value.Int64())
}
