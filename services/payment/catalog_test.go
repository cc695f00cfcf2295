package payment

import (
	"context"
	"sync"
	"testing"
	"time"

	"haven/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	mu       sync.Mutex
	calls    int
	channels []models.PaymentChannel
	err      error
}

func (f *fakeLister) PaymentChannels(ctx context.Context) ([]models.PaymentChannel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.channels, f.err
}

func (f *fakeLister) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestCatalog(t *testing.T, lister *fakeLister) *DefaultChannelCatalog {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return &DefaultChannelCatalog{
		Lister: lister,
		Cache:  client,
		TTL:    5 * time.Minute,
	}
}

func TestListChannelsFiltersInactive(t *testing.T) {
	lister := &fakeLister{channels: []models.PaymentChannel{
		{Code: "BCA_VA", Name: "BCA Virtual Account", IsActive: true},
		{Code: "LEGACY", Name: "Disabled Channel", IsActive: false},
		{Code: "QRIS", Name: "QRIS", IsActive: true},
	}}
	catalog := newTestCatalog(t, lister)

	channels, err := catalog.ListChannels(context.Background())
	require.NoError(t, err)
	require.Len(t, channels, 2)
	assert.Equal(t, "BCA_VA", channels[0].Code)
	assert.Equal(t, "QRIS", channels[1].Code)
}

func TestListChannelsServesFromCache(t *testing.T) {
	lister := &fakeLister{channels: []models.PaymentChannel{
		{Code: "QRIS", IsActive: true},
	}}
	catalog := newTestCatalog(t, lister)
	ctx := context.Background()

	_, err := catalog.ListChannels(ctx)
	require.NoError(t, err)
	_, err = catalog.ListChannels(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, lister.callCount())
}

func TestFindChannel(t *testing.T) {
	lister := &fakeLister{channels: []models.PaymentChannel{
		{Code: "QRIS", IsActive: true},
		{Code: "GONE", IsActive: false},
	}}
	catalog := newTestCatalog(t, lister)
	ctx := context.Background()

	found, err := catalog.FindChannel(ctx, "QRIS")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "QRIS", found.Code)

	missing, err := catalog.FindChannel(ctx, "GONE")
	require.NoError(t, err)
	assert.Nil(t, missing, "inactive channels are not findable")
}

func TestCalculateFee(t *testing.T) {
	tests := []struct {
		name    string
		amount  int64
		flat    int64
		percent float64
		want    int64
	}{
		{"flat plus percent", 100000, 1000, 2, 3000},
		{"flat only", 50000, 4000, 0, 4000},
		{"percent rounds to nearest unit", 99999, 0, 0.5, 500},
		{"zero fee channel", 250000, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			channel := models.PaymentChannel{Fee: models.ChannelFee{Flat: tt.flat, Percent: tt.percent}}
			assert.Equal(t, tt.want, CalculateFee(tt.amount, channel))
			assert.Equal(t, tt.amount+tt.want, CalculateTotal(tt.amount, channel))
		})
	}
}
