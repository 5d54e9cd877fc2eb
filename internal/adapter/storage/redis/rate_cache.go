package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"multicurrency-wallet/internal/core/ports"
	"multicurrency-wallet/pkg/money"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// CachedRateProvider caches successful lookups of the wrapped provider for a
// fixed TTL. Redis faults degrade to a direct lookup. Failed lookups are
// never cached.
type CachedRateProvider struct {
	next   ports.RateProvider
	client goredis.UniversalClient
	ttl    time.Duration
	prefix string
	log    zerolog.Logger
}

func NewCachedRateProvider(next ports.RateProvider, client goredis.UniversalClient, ttl time.Duration, log zerolog.Logger) *CachedRateProvider {
	return &CachedRateProvider{
		next:   next,
		client: client,
		ttl:    ttl,
		prefix: "wallet:fx:",
		log:    log,
	}
}

func (p *CachedRateProvider) key(base, quote money.Currency) string {
	return fmt.Sprintf("%s%s:%s", p.prefix, base, quote)
}

func (p *CachedRateProvider) GetRate(ctx context.Context, base, quote money.Currency) (money.Rate, error) {
	key := p.key(base, quote)

	cached, err := p.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		rate, perr := money.ParseRate(cached)
		if perr == nil {
			return rate, nil
		}
		p.log.Warn().Err(perr).Str("key", key).Msg("fx cache: discarding corrupt entry")
	case errors.Is(err, goredis.Nil):
	default:
		p.log.Warn().Err(err).Str("key", key).Msg("fx cache: read failed")
	}

	rate, err := p.next.GetRate(ctx, base, quote)
	if err != nil {
		return money.Rate{}, err
	}

	if err := p.client.Set(ctx, key, rate.String(), p.ttl).Err(); err != nil {
		p.log.Warn().Err(err).Str("key", key).Msg("fx cache: write failed")
	}
	return rate, nil
}
