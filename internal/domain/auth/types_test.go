package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), Identity{UserID: "u-1", DisplayName: "Sam Jones"})
	id, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "Sam Jones", id.DisplayName)

	_, ok = FromContext(WithIdentity(context.Background(), Identity{}))
	assert.False(t, ok, "anonymous identities are not returned")
}
