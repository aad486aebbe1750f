package memory

import (
	"context"
	"testing"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlobStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewBlobStore()

	_, err := s.Load(ctx, "debts")
	assert.ErrorIs(t, err, domain.ErrBlobNotFound)

	data := []byte(`[1]`)
	require.NoError(t, s.Save(ctx, "debts", data))
	data[1] = '2'

	got, err := s.Load(ctx, "debts")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(got))
	assert.Equal(t, []string{"debts"}, s.Names())

	require.NoError(t, s.Delete(ctx, "debts"))
	_, err = s.Load(ctx, "debts")
	assert.ErrorIs(t, err, domain.ErrBlobNotFound)
}
