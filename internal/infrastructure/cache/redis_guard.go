package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Victor-armando18/pricing-scheme/internal/infrastructure"
	"github.com/Victor-armando18/pricing-scheme/internal/interfaces"
)

// RedisSaveGuard partilha o guarda de gravação entre instâncias: a chave de
// cada (transação, revisão) é criada com SETNX e expira após o TTL.
type RedisSaveGuard struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ interfaces.SaveGuard = (*RedisSaveGuard)(nil)

func NewRedisSaveGuard(rdb *redis.Client, ttl time.Duration) *RedisSaveGuard {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisSaveGuard{rdb: rdb, ttl: ttl}
}

func (g *RedisSaveGuard) Acquire(ctx context.Context, transaction string, revision int) (bool, error) {
	return g.rdb.SetNX(ctx, infrastructure.GuardKey(transaction, revision), "locked", g.ttl).Result()
}

func (g *RedisSaveGuard) Release(ctx context.Context, transaction string, revision int) error {
	return g.rdb.Del(ctx, infrastructure.GuardKey(transaction, revision)).Err()
}
