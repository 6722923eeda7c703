package store

import (
	"context"
	"time"

	"github.com/gomodule/redigo/redis"
)

// RedisStore is the production Store backend: every room-scoped key
// lives in redis with its TTL enforced server-side, so a crashed process
// never leaves a room stuck "alive" past its configured TTL. A thin
// connection pool wrapped by small per-operation helper calls.
type RedisStore struct {
	pool *redis.Pool
}

// NewRedisStore dials a redis pool against addr (host:port) with the
// given max pool size.
func NewRedisStore(addr string, poolSize int) *RedisStore {
	pool := &redis.Pool{
		MaxIdle:     poolSize,
		MaxActive:   poolSize,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", addr)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			_, err := c.Do("PING")
			return err
		},
	}
	return &RedisStore{pool: pool}
}

func (s *RedisStore) conn() redis.Conn { return s.pool.Get() }

func ttlSeconds(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	secs := int(ttl / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	c := s.conn()
	defer c.Close()
	b, err := redis.Bytes(c.Do("GET", key))
	if err == redis.ErrNil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c := s.conn()
	defer c.Close()
	if ttl > 0 {
		_, err := c.Do("SET", key, value, "EX", ttlSeconds(ttl))
		return err
	}
	_, err := c.Do("SET", key, value)
	return err
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	c := s.conn()
	defer c.Close()
	_, err := c.Do("DEL", key)
	return err
}

func (s *RedisStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	c := s.conn()
	defer c.Close()
	_, err := c.Do("EXPIRE", key, ttlSeconds(ttl))
	return err
}

func (s *RedisStore) ListAppend(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c := s.conn()
	defer c.Close()
	if _, err := c.Do("RPUSH", key, value); err != nil {
		return err
	}
	if ttl > 0 {
		_, err := c.Do("EXPIRE", key, ttlSeconds(ttl))
		return err
	}
	return nil
}

func (s *RedisStore) ListRange(ctx context.Context, key string) ([][]byte, error) {
	c := s.conn()
	defer c.Close()
	vals, err := redis.ByteSlices(c.Do("LRANGE", key, 0, -1))
	if err == redis.ErrNil {
		return nil, nil
	}
	return vals, err
}

func (s *RedisStore) ListClear(ctx context.Context, key string) error {
	c := s.conn()
	defer c.Close()
	_, err := c.Do("DEL", key)
	return err
}

func (s *RedisStore) SetAdd(ctx context.Context, key string, member string, ttl time.Duration) (bool, error) {
	c := s.conn()
	defer c.Close()
	added, err := redis.Int(c.Do("SADD", key, member))
	if err != nil {
		return false, err
	}
	if ttl > 0 {
		if _, err := c.Do("EXPIRE", key, ttlSeconds(ttl)); err != nil {
			return added == 1, err
		}
	}
	return added == 1, nil
}

func (s *RedisStore) SetRemove(ctx context.Context, key string, member string) error {
	c := s.conn()
	defer c.Close()
	_, err := c.Do("SREM", key, member)
	return err
}

func (s *RedisStore) SetMembers(ctx context.Context, key string) ([]string, error) {
	c := s.conn()
	defer c.Close()
	members, err := redis.Strings(c.Do("SMEMBERS", key))
	if err == redis.ErrNil {
		return nil, nil
	}
	return members, err
}

func (s *RedisStore) SetSize(ctx context.Context, key string) (int, error) {
	c := s.conn()
	defer c.Close()
	return redis.Int(c.Do("SCARD", key))
}

func (s *RedisStore) SetContains(ctx context.Context, key string, member string) (bool, error) {
	c := s.conn()
	defer c.Close()
	ok, err := redis.Bool(c.Do("SISMEMBER", key, member))
	return ok, err
}

func (s *RedisStore) Close() error { return s.pool.Close() }
