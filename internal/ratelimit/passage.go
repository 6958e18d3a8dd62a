package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/tollgrid/tollgrid/internal/config"
)

const (
	keyPassagePlate = "passage:plate:%s"
	keyPassageLock  = "passage:lock:%s:%d"
)

// PassageLimiter throttles gantry passage reports per plate and
// serializes concurrent reports for the same plate and segment. A gantry
// that re-reads a plate in quick succession must not race itself into
// double bookings or duplicate charges.
type PassageLimiter struct {
	enabled bool

	bucket *TokenBucket
	locker *Locker

	plateRate  float64
	plateBurst int
	lockTTL    time.Duration
}

func NewPassageLimiter(holder *config.TollingConfigHolder) (*PassageLimiter, error) {
	limitCfg := holder.Get().RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.PlateRate <= 0 || limitCfg.PlateBurst <= 0 {
		return nil, errors.New("passage plate rate limit must be positive")
	}
	if limitCfg.LockTTLSeconds <= 0 {
		return nil, errors.New("passage lock ttl must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &PassageLimiter{
		enabled:    true,
		bucket:     NewTokenBucket(client),
		locker:     NewLocker(client),
		plateRate:  limitCfg.PlateRate,
		plateBurst: limitCfg.PlateBurst,
		lockTTL:    time.Duration(limitCfg.LockTTLSeconds) * time.Second,
	}, nil
}

func (l *PassageLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *PassageLimiter) AllowPlate(ctx context.Context, plate string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyPassagePlate, strings.TrimSpace(plate)), l.plateRate, l.plateBurst)
}

func (l *PassageLimiter) TryLockPassage(ctx context.Context, plate string, segmentID int64) (string, bool, error) {
	if !l.Enabled() {
		return "", true, nil
	}
	key := fmt.Sprintf(keyPassageLock, strings.TrimSpace(plate), segmentID)
	return l.locker.TryLock(ctx, key, l.lockTTL)
}

func (l *PassageLimiter) ReleasePassage(ctx context.Context, plate string, segmentID int64, token string) error {
	if !l.Enabled() {
		return nil
	}
	key := fmt.Sprintf(keyPassageLock, strings.TrimSpace(plate), segmentID)
	return l.locker.Release(ctx, key, token)
}
