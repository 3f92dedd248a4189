package idempotency

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const Header = "Idempotency-Key"

type setNX interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

type Store struct {
	rdb   setNX
	ttl   time.Duration
	scope string
}

func NewStore(rdb *redis.Client, ttl time.Duration, scope string) *Store {
	return &Store{rdb: rdb, ttl: ttl, scope: scope}
}

func (s *Store) Key(method, path, key string) string {
	return fmt.Sprintf("idem:%s:%s:%s:%s", s.scope, method, path, key)
}

// Seen marks key as used and reports whether it had been used before.
func (s *Store) Seen(ctx context.Context, key string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, key, "1", s.ttl).Result()
	if err != nil {
		return false, err
	}

	return !ok, nil
}

// Middleware rejects replays of mutating requests that carry an
// Idempotency-Key header with 409. If Redis is unavailable the request goes
// through.
func (s *Store) Middleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(Header)
			if key == "" || r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			seen, err := s.Seen(r.Context(), s.Key(r.Method, r.URL.Path, key))
			if err != nil {
				log.Error("idempotency check failed", "err", err)
				next.ServeHTTP(w, r)
				return
			}
			if seen {
				log.Info("duplicate request skipped", "key", key, "path", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusConflict)
				_, _ = w.Write([]byte(`{"error":"DUPLICATE_REQUEST","message":"request already processed"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
