package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/tu-usuario/farmacia-pro/internal/application/dto"
	"github.com/tu-usuario/farmacia-pro/internal/application/stats"
)

var _ stats.Cache = (*StatsCache)(nil)

// StatsCache caché de snapshots de estadísticas sobre Redis (JSON + TTL).
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewStatsCache construye la caché con el TTL dado.
func NewStatsCache(client *redis.Client, ttl time.Duration, log zerolog.Logger) *StatsCache {
	return &StatsCache{client: client, ttl: ttl, log: log}
}

// Get devuelve el snapshot cacheado, si existe y deserializa bien.
func (c *StatsCache) Get(ctx context.Context, key string) (*dto.StatsResponse, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("key", key).Msg("caché de estadísticas: fallo de lectura")
		}
		return nil, false
	}
	var resp dto.StatsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("caché de estadísticas: snapshot corrupto")
		return nil, false
	}
	return &resp, true
}

// Set guarda el snapshot. Los fallos solo se loguean.
func (c *StatsCache) Set(ctx context.Context, key string, statsResp *dto.StatsResponse) {
	data, err := json.Marshal(statsResp)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("caché de estadísticas: fallo de serialización")
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("caché de estadísticas: fallo de escritura")
	}
}
