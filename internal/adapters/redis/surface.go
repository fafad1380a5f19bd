package redisad

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"hotel_browser/internal/adapters/surface"
	"hotel_browser/internal/domain"
)

// Hash field prefixes inside one session key.
const (
	prefixField   = "f:"
	prefixRegion  = "r:"
	prefixEnabled = "e:"
	prefixClass   = "c:"
	prefixIssued  = "i:"
	prefixApplied = "a:"
)

// A crashed holder's lock expires after lockTTL; waiters poll every lockPoll.
const (
	lockTTL  = 30 * time.Second
	lockPoll = 20 * time.Millisecond
)

// releaseLock deletes the lock only if it still carries our owner id.
var releaseLock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// applyToken records ARGV[2] under field ARGV[1] iff it is larger than the stored value.
var applyToken = redis.NewScript(`
local cur = tonumber(redis.call("HGET", KEYS[1], ARGV[1]) or "0")
local tok = tonumber(ARGV[2])
if tok > cur then
  redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
  return 1
end
return 0
`)

// Surface keeps a browser session's presentation state in one Redis hash,
// so successive CLI invocations see the fields the previous one staged.
type Surface struct {
	c   *redis.Client
	key string
	ttl time.Duration
}

// NewSurface binds a surface to session; ttl <= 0 keeps the session forever.
func NewSurface(c *redis.Client, session string, ttl time.Duration) *Surface {
	return &Surface{c: c, key: "session:" + session, ttl: ttl}
}

var _ domain.SessionSurface = (*Surface)(nil)

// Lock takes "<session key>:lock:<name>" with SET NX, polling until it is free
// or ctx is done.
func (s *Surface) Lock(ctx context.Context, name string) (func(), error) {
	key := s.key + ":lock:" + name
	owner := uuid.NewString()
	for {
		ok, err := s.c.SetNX(ctx, key, owner, lockTTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockPoll):
		}
	}
	unlockCtx := context.WithoutCancel(ctx)
	return func() {
		if err := releaseLock.Run(unlockCtx, s.c, []string{key}, owner).Err(); err != nil && !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("lock", key).Msg("session lock release failed")
		}
	}, nil
}

func (s *Surface) Issue(ctx context.Context, key string) (uint64, error) {
	var incr *redis.IntCmd
	_, err := s.c.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.HIncrBy(ctx, s.key, prefixIssued+key, 1)
		if s.ttl > 0 {
			p.Expire(ctx, s.key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return uint64(incr.Val()), nil
}

func (s *Surface) Apply(ctx context.Context, key string, token uint64) (bool, error) {
	n, err := applyToken.Run(ctx, s.c, []string{s.key}, prefixApplied+key, strconv.FormatUint(token, 10)).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *Surface) Value(ctx context.Context, field string) (string, error) {
	v, err := s.c.HGet(ctx, s.key, prefixField+field).Result()
	if err == redis.Nil {
		return "", nil
	}
	return v, err
}

func (s *Surface) SetValue(ctx context.Context, field, value string) error {
	return s.write(ctx, prefixField+field, value)
}

func (s *Surface) Replace(ctx context.Context, region, html string) error {
	return s.write(ctx, prefixRegion+region, html)
}

func (s *Surface) SetEnabled(ctx context.Context, control string, enabled bool) error {
	v := "0"
	if enabled {
		v = "1"
	}
	return s.write(ctx, prefixEnabled+control, v)
}

func (s *Surface) SetClass(ctx context.Context, element, class string) error {
	return s.write(ctx, prefixClass+element, class)
}

func (s *Surface) write(ctx context.Context, field, value string) error {
	_, err := s.c.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, s.key, field, value)
		if s.ttl > 0 {
			p.Expire(ctx, s.key, s.ttl)
		}
		return nil
	})
	return err
}

// Snapshot reads the whole session.
func (s *Surface) Snapshot(ctx context.Context) (surface.State, error) {
	all, err := s.c.HGetAll(ctx, s.key).Result()
	if err != nil {
		return surface.State{}, err
	}
	st := surface.NewState()
	for k, v := range all {
		switch {
		case strings.HasPrefix(k, prefixField):
			st.Fields[strings.TrimPrefix(k, prefixField)] = v
		case strings.HasPrefix(k, prefixRegion):
			st.Regions[strings.TrimPrefix(k, prefixRegion)] = v
		case strings.HasPrefix(k, prefixEnabled):
			st.Enabled[strings.TrimPrefix(k, prefixEnabled)] = v == "1"
		case strings.HasPrefix(k, prefixClass):
			st.Classes[strings.TrimPrefix(k, prefixClass)] = v
		}
	}
	return st, nil
}

// Reset drops the session.
func (s *Surface) Reset(ctx context.Context) error {
	return s.c.Del(ctx, s.key).Err()
}
