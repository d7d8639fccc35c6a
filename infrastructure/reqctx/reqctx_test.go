package reqctx

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/prasetyowira/starter/infrastructure/logger"
	"github.com/stretchr/testify/assert"
)

func TestNoActiveRequest(t *testing.T) {
	ctx := context.Background()

	_, ok := From(ctx)
	assert.False(t, ok)
	assert.Equal(t, "", Path(ctx))
	assert.Equal(t, "", Header(ctx, "X-Tenant"))
	assert.Equal(t, "", Path(nil))
}

func TestFromRequest(t *testing.T) {
	// Arrange
	req := httptest.NewRequest("GET", "/api/bookmarks?page=1", nil)
	req.Header.Set("X-Tenant", "acme")

	// Act
	ctx := With(context.Background(), FromRequest(req))
	req.Header.Set("X-Tenant", "changed")

	// Assert
	assert.Equal(t, "/api/bookmarks", Path(ctx))
	assert.Equal(t, "acme", Header(ctx, "X-Tenant"))
	assert.Equal(t, "", Header(ctx, "X-Missing"))
}

func TestDetach(t *testing.T) {
	// Arrange
	parent, cancel := context.WithCancel(context.Background())
	parent = With(parent, Info{Method: "GET", Path: "/x"})
	parent = logger.WithRequestID(parent, "req-9")

	// Act
	detached := Detach(parent)
	cancel()

	// Assert
	assert.NoError(t, detached.Err())
	assert.Equal(t, "/x", Path(detached))
	assert.Equal(t, "req-9", logger.RequestID(detached))
}

func TestDetach_NoRequest(t *testing.T) {
	detached := Detach(context.Background())

	_, ok := From(detached)
	assert.False(t, ok)
	assert.Equal(t, "", logger.RequestID(detached))
}
