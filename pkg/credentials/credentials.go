package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dmehra2102/cart-checkout/internal/cart/domain"
)

// Static hands out a fixed bearer token.
type Static string

func (s Static) Token(context.Context) (string, error) {
	if s == "" {
		return "", domain.ErrAuthRequired
	}
	return string(s), nil
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// Redis reads the bearer token from a key written by the storefront's login
// flow. The key is read on every call so a re-login is picked up.
type Redis struct {
	rdb getter
	key string
}

func NewRedis(rdb *redis.Client, key string) *Redis {
	return &Redis{rdb: rdb, key: key}
}

func (r *Redis) Token(ctx context.Context) (string, error) {
	token, err := r.rdb.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) || (err == nil && token == "") {
		return "", domain.ErrAuthRequired
	}
	if err != nil {
		return "", fmt.Errorf("read token %s: %w", r.key, err)
	}
	return token, nil
}
