package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRepository keeps values as plain redis strings under a key prefix.
type RedisRepository struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisRepository connects to the redis server at url
// (redis://[user:pass@]host:port/db) and checks it answers.
func NewRedisRepository(ctx context.Context, url, prefix string) (*RedisRepository, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opts.DialTimeout = 2 * time.Second

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("storage unavailable: %w", err)
	}

	return &RedisRepository{rdb: rdb, prefix: prefix}, nil
}

func (r *RedisRepository) key(k string) string { return r.prefix + k }

func (r *RedisRepository) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.rdb.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %q: %w", key, err)
	}
	return v, nil
}

func (r *RedisRepository) Set(ctx context.Context, key string, value []byte) error {
	if err := r.rdb.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}

// Batch collects the writes made by fn and sends them as one MULTI/EXEC.
func (r *RedisRepository) Batch(ctx context.Context, fn func(ctx context.Context, r Repository) error) error {
	staged := newStagedWrites(r)
	if err := fn(ctx, staged); err != nil {
		return err
	}
	if len(staged.order) == 0 {
		return nil
	}

	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, k := range staged.order {
			if v := staged.writes[k]; v != nil {
				p.Set(ctx, r.key(k), *v, 0)
			} else {
				p.Del(ctx, r.key(k))
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis batch: %w", err)
	}
	return nil
}

func (r *RedisRepository) Close() error {
	return r.rdb.Close()
}

// stagedWrites buffers Set/Delete calls in front of a base repository.
// Reads see the buffered writes first. A nil entry marks a delete.
type stagedWrites struct {
	base   Repository
	writes map[string]*[]byte
	order  []string
}

func newStagedWrites(base Repository) *stagedWrites {
	return &stagedWrites{base: base, writes: make(map[string]*[]byte)}
}

func (s *stagedWrites) record(key string, v *[]byte) {
	if _, ok := s.writes[key]; !ok {
		s.order = append(s.order, key)
	}
	s.writes[key] = v
}

func (s *stagedWrites) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := s.writes[key]; ok {
		if v == nil {
			return nil, nil
		}
		return append([]byte(nil), (*v)...), nil
	}
	return s.base.Get(ctx, key)
}

func (s *stagedWrites) Set(ctx context.Context, key string, value []byte) error {
	v := append([]byte(nil), value...)
	s.record(key, &v)
	return nil
}

func (s *stagedWrites) Delete(ctx context.Context, key string) error {
	s.record(key, nil)
	return nil
}

// Batch nests into the same staged set.
func (s *stagedWrites) Batch(ctx context.Context, fn func(ctx context.Context, r Repository) error) error {
	return fn(ctx, s)
}

func (s *stagedWrites) Close() error { return nil }
