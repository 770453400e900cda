package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/calcfunding/portal/internal/domain/auth"
)

func TestTableVerifier(t *testing.T) {
	v := NewTableVerifier().Add("good", domainauth.Identity{UserID: "u-1"})

	id, err := v.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "u-1", id.UserID)
	assert.False(t, id.ExpiresAt.IsZero())

	_, err = v.Verify(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrUnknownToken)
	assert.Equal(t, 2, v.Calls())

	boom := errors.New("boom")
	v.VerifyFunc = func(context.Context, string) (domainauth.Identity, error) { return domainauth.Identity{}, boom }
	_, err = v.Verify(context.Background(), "good")
	assert.ErrorIs(t, err, boom)
}
