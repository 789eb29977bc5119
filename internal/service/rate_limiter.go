package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Prefijos de las claves de limite en Redis.
const (
	OTPLimitPrefix = "ditto:otp:"
	AskLimitPrefix = "ditto:ask:"
)

// RateLimiter limita cuantas veces se usa una clave dentro de una ventana.
// Se usa para pedir OTP (por email) y para preguntar al gemelo (por usuario).
type RateLimiter interface {
	Allow(key string) bool
}

func normalizeLimitKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

type memoryRateLimiter struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	hits   map[string][]time.Time
}

// NewMemoryRateLimiter crea un limitador de ventana deslizante en memoria,
// valido para una sola instancia.
func NewMemoryRateLimiter(window time.Duration, max int) RateLimiter {
	window, max = limiterBounds(window, max)
	return &memoryRateLimiter{
		window: window,
		max:    max,
		hits:   make(map[string][]time.Time),
	}
}

func (l *memoryRateLimiter) Allow(key string) bool {
	key = normalizeLimitKey(key)
	if key == "" {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now().UTC()
	cutoff := now.Add(-l.window)
	kept := l.hits[key][:0]
	for _, ts := range l.hits[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.max {
		l.hits[key] = kept
		return false
	}
	l.hits[key] = append(kept, now)
	return true
}

// fixedWindowScript incrementa el contador y le pone TTL en el primer hit,
// en un solo paso para que la clave nunca quede sin expiracion.
var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`)

type redisRateLimiter struct {
	client redis.Scripter
	prefix string
	window time.Duration
	max    int
}

// NewRedisRateLimiter comparte el limite entre instancias con ventanas fijas
// en Redis. Si Redis falla, deja pasar.
func NewRedisRateLimiter(client redis.Scripter, prefix string, window time.Duration, max int) RateLimiter {
	if client == nil {
		return nil
	}
	window, max = limiterBounds(window, max)
	return &redisRateLimiter{
		client: client,
		prefix: prefix,
		window: window,
		max:    max,
	}
}

func (l *redisRateLimiter) Allow(key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	key = normalizeLimitKey(key)
	if key == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	seconds := int(l.window / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	count, err := fixedWindowScript.Run(ctx, l.client, []string{l.prefix + key}, seconds).Int64()
	if err != nil {
		return true
	}
	return count <= int64(l.max)
}

func limiterBounds(window time.Duration, max int) (time.Duration, int) {
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return window, max
}
