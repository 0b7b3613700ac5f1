package data

import (
	"context"
	"testing"

	"github.com/lk2023060901/myai/internal/auth/biz"
	"github.com/lk2023060901/myai/internal/pkg/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateStore(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	s := NewStateStore(mem)

	require.NoError(t, s.Save(ctx, "abc"))
	assert.Equal(t, []string{"oauth:state:abc"}, mem.Keys())

	ok, err := s.Consume(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Consume(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, ok, "state is single use")

	ok, err = s.Consume(ctx, "never-saved")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserMapping(t *testing.T) {
	po := toUserPO(&biz.User{ID: 3, Email: "a@b.c", Name: "", Picture: "p", IsActive: true})
	assert.Nil(t, po.Name)
	require.NotNil(t, po.Picture)
	assert.Equal(t, "p", *po.Picture)
	assert.Nil(t, po.PasswordHash)

	back := toBizUser(po)
	assert.Equal(t, &biz.User{ID: 3, Email: "a@b.c", Picture: "p", IsActive: true}, back)
	assert.False(t, back.HasPassword())
}
