package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/Miraines/MoonyAndStarry/task-service/internal/domain/auth/model"
	"github.com/Miraines/MoonyAndStarry/task-service/internal/domain/auth/repo"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyPrefix = "rt:revoked:"
	active    = "0"
	revoked   = "1"
)

// CachedRefreshTokenRepo keeps the revocation state of refresh tokens in
// redis in front of a persistent store. The store stays authoritative: a
// cache miss or a redis failure always falls through to it.
type CachedRefreshTokenRepo struct {
	inner  repo.RefreshTokenRepo
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewCachedRefreshTokenRepo(inner repo.RefreshTokenRepo, client *redis.Client, ttl time.Duration, log *zap.Logger) *CachedRefreshTokenRepo {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedRefreshTokenRepo{inner: inner, client: client, ttl: ttl, log: log}
}

func (c *CachedRefreshTokenRepo) Create(ctx context.Context, t model.RefreshToken) error {
	if err := c.inner.Create(ctx, t); err != nil {
		return err
	}
	if err := c.client.Set(ctx, cacheKey(t.Token), active, safeTTL(t.ExpiresAt)).Err(); err != nil {
		c.log.Warn("cache refresh token", zap.Error(err))
	}
	return nil
}

func (c *CachedRefreshTokenRepo) FindByToken(ctx context.Context, token string) (model.RefreshToken, error) {
	val, err := c.client.Get(ctx, cacheKey(token)).Result()
	switch {
	case err == redis.Nil:
	case err != nil:
		c.log.Warn("read revocation cache", zap.Error(err))
	case val == revoked:
		return model.RefreshToken{Token: token, Revoked: true}, nil
	}
	return c.inner.FindByToken(ctx, token)
}

func (c *CachedRefreshTokenRepo) RevokeByToken(ctx context.Context, token string) error {
	if err := c.inner.RevokeByToken(ctx, token); err != nil {
		return err
	}
	if err := c.client.Set(ctx, cacheKey(token), revoked, c.ttl).Err(); err != nil {
		c.log.Warn("cache revocation", zap.Error(err))
	}
	return nil
}

// cacheKey hashes the token so raw refresh tokens never land in redis.
func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return keyPrefix + hex.EncodeToString(sum[:])
}

func safeTTL(exp time.Time) time.Duration {
	ttl := time.Until(exp)
	if ttl <= 0 {
		// keys must expire even for tokens that are already stale
		return time.Hour
	}
	return ttl
}
