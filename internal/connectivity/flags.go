package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/edumirror/mirror-api/internal/models"
)

const flagCacheKey = "offline_mode_enabled"

type settingsFetcher interface {
	GetAccountSettings(ctx context.Context) (*models.AccountSettings, error)
}

// FlagProvider resolves the account-level offline-mode feature flag. The
// remote value is cached in Redis with a TTL; when both the cache and the
// fetch fail, the last value seen in this process is used.
type FlagProvider struct {
	api    settingsFetcher
	cache  *redis.Client
	ttl    time.Duration
	logger *zap.Logger

	mu        sync.Mutex
	lastKnown bool
}

// NewFlagProvider constructs the provider. cache may be nil, in which case
// every lookup goes upstream.
func NewFlagProvider(api settingsFetcher, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *FlagProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &FlagProvider{api: api, cache: cache, ttl: ttl, logger: logger}
}

// OfflineModeEnabled reports whether the account has offline mode switched on.
func (p *FlagProvider) OfflineModeEnabled(ctx context.Context) bool {
	if p.cache != nil {
		val, err := p.cache.Get(ctx, flagCacheKey).Result()
		if err == nil {
			return p.remember(val == "1")
		}
		if err != redis.Nil {
			p.logger.Sugar().Warnw("offline flag cache read failed", "error", err)
		}
	}

	settings, err := p.api.GetAccountSettings(ctx)
	if err != nil {
		last := p.lastKnownValue()
		p.logger.Sugar().Warnw("offline flag fetch failed, using last known value", "last_known", last, "error", err)
		return last
	}

	p.remember(settings.OfflineModeEnabled)
	if p.cache != nil {
		val := "0"
		if settings.OfflineModeEnabled {
			val = "1"
		}
		if err := p.cache.Set(ctx, flagCacheKey, val, p.ttl).Err(); err != nil {
			p.logger.Sugar().Warnw("offline flag cache write failed", "error", err)
		}
	}
	return settings.OfflineModeEnabled
}

// remember records the freshest flag value under the lock. Lookups run on
// concurrent request goroutines, so lastKnown is never touched unguarded.
func (p *FlagProvider) remember(enabled bool) bool {
	p.mu.Lock()
	p.lastKnown = enabled
	p.mu.Unlock()
	return enabled
}

func (p *FlagProvider) lastKnownValue() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastKnown
}
