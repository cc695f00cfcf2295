package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"haven/models"
	"haven/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const channelsCacheKey = "payment:channels"

// ChannelLister is the slice of the gateway client the catalog needs.
type ChannelLister interface {
	PaymentChannels(ctx context.Context) ([]models.PaymentChannel, error)
}

// ChannelCatalog serves the list of usable payment channels and prices drafts
// against them.
type ChannelCatalog interface {
	ListChannels(ctx context.Context) ([]models.PaymentChannel, error)
	FindChannel(ctx context.Context, code string) (*models.PaymentChannel, error)
}

// DefaultChannelCatalog implements ChannelCatalog with a short-lived Redis
// snapshot in front of the gateway's channel-listing call.
type DefaultChannelCatalog struct {
	Lister ChannelLister
	Cache  *redis.Client
	TTL    time.Duration
}

// ListChannels returns the active payment channels, refreshing the cached
// snapshot from the gateway when it has expired. Inactive channels never reach
// callers.
func (c *DefaultChannelCatalog) ListChannels(ctx context.Context) ([]models.PaymentChannel, error) {
	logger := utils.GetLogger()

	if cached, err := c.Cache.Get(ctx, channelsCacheKey).Result(); err == nil {
		var channels []models.PaymentChannel
		if err := json.Unmarshal([]byte(cached), &channels); err == nil {
			return channels, nil
		}
		logger.Warn("discarding unreadable channel snapshot", zap.Error(err))
	}

	fetched, err := c.Lister.PaymentChannels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment channels: %w", err)
	}

	active := make([]models.PaymentChannel, 0, len(fetched))
	for _, ch := range fetched {
		if ch.IsActive {
			active = append(active, ch)
		}
	}

	if encoded, err := json.Marshal(active); err == nil {
		if err := c.Cache.Set(ctx, channelsCacheKey, encoded, c.TTL).Err(); err != nil {
			logger.Warn("failed to cache channel snapshot", zap.Error(err))
		}
	}
	return active, nil
}

// FindChannel returns the active channel with the given code, or nil when no
// such channel is advertised.
func (c *DefaultChannelCatalog) FindChannel(ctx context.Context, code string) (*models.PaymentChannel, error) {
	channels, err := c.ListChannels(ctx)
	if err != nil {
		return nil, err
	}
	for i := range channels {
		if channels[i].Code == code {
			return &channels[i], nil
		}
	}
	return nil, nil
}

// CalculateFee computes a channel's fee on the given amount: the percentage
// part rounded to whole currency units, plus the flat part.
func CalculateFee(amount int64, channel models.PaymentChannel) int64 {
	percent := int64(math.Round(float64(amount) * channel.Fee.Percent / 100))
	return percent + channel.Fee.Flat
}

// CalculateTotal is the amount plus the channel fee. Amounts are whole currency
// units throughout; fractional units are not supported.
func CalculateTotal(amount int64, channel models.PaymentChannel) int64 {
	return amount + CalculateFee(amount, channel)
}
