package errx

import (
	"errors"
	"net/http"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapRedisMapsMissingKeyToNotFound(t *testing.T) {
	err := WrapRedis(redis.Nil)
	require.Error(t, err)

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, http.StatusNotFound, e.Status)
	assert.True(t, IsNotFound(err))
}

func TestWrapRedisMapsOtherErrorsToBadGateway(t *testing.T) {
	err := WrapRedis(errors.New("connection refused"))
	require.Error(t, err)

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, http.StatusBadGateway, e.Status)
	assert.False(t, IsNotFound(err))
}

func TestWrapRedisNil(t *testing.T) {
	assert.NoError(t, WrapRedis(nil))
	assert.False(t, IsNotFound(nil))
}
