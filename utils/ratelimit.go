package utils

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"vrcfetch/internal"
)

// Quota describes a sustained request rate and an immediate burst allowance
type Quota struct {
	PerMinute int
	Burst     int
}

// DefaultQuota is the pacing VRChat asks API consumers to respect
var DefaultQuota = Quota{PerMinute: 12, Burst: 5}

// Interval returns the time between two sustained admissions
func (q Quota) Interval() time.Duration {
	if q.PerMinute <= 0 {
		return 0
	}
	return time.Minute / time.Duration(q.PerMinute)
}

// String renders the quota the way ParseQuota accepts it
func (q Quota) String() string {
	return fmt.Sprintf("%d/min,%d", q.PerMinute, q.Burst)
}

// TokenBucketLimiter admits one request at a time from a single shared bucket
type TokenBucketLimiter struct {
	limiter *rate.Limiter
	quota   Quota
}

// NewTokenBucketLimiter creates a limiter for the given quota.
// A non-positive PerMinute disables limiting.
func NewTokenBucketLimiter(q Quota) internal.RateLimiter {
	if q.Burst < 1 {
		q.Burst = 1
	}

	limit := rate.Inf
	if q.PerMinute > 0 {
		limit = rate.Every(q.Interval())
	}

	return &TokenBucketLimiter{
		limiter: rate.NewLimiter(limit, q.Burst),
		quota:   q,
	}
}

// Wait blocks until one request slot is available.
// If ctx ends first the pending reservation is returned to the bucket.
func (r *TokenBucketLimiter) Wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}

// Quota returns the configuration the limiter was built with
func (r *TokenBucketLimiter) Quota() Quota {
	return r.quota
}

// ParseQuota parses strings such as "12/min", "12/min,5" or "0" (unlimited).
// The burst defaults to DefaultQuota.Burst when omitted.
func ParseQuota(quotaStr string) (Quota, error) {
	quotaStr = strings.TrimSpace(quotaStr)
	if quotaStr == "" {
		return DefaultQuota, nil
	}

	quota := Quota{Burst: DefaultQuota.Burst}

	ratePart, burstPart, hasBurst := strings.Cut(quotaStr, ",")
	if hasBurst {
		burst, err := strconv.Atoi(strings.TrimSpace(burstPart))
		if err != nil || burst < 1 {
			return Quota{}, fmt.Errorf("invalid burst in quota: %q", burstPart)
		}
		quota.Burst = burst
	}

	countStr, unit, hasUnit := strings.Cut(strings.TrimSpace(ratePart), "/")
	count, err := strconv.Atoi(strings.TrimSpace(countStr))
	if err != nil {
		return Quota{}, fmt.Errorf("invalid numeric value in quota: %q", countStr)
	}
	if count < 0 {
		return Quota{}, fmt.Errorf("quota cannot be negative: %d", count)
	}

	multiplier := 1
	if hasUnit {
		switch strings.ToLower(strings.TrimSpace(unit)) {
		case "m", "min", "minute":
			multiplier = 1
		case "h", "hour":
			if count%60 != 0 {
				return Quota{}, fmt.Errorf("hourly quota must be a multiple of 60: %d", count)
			}
			count /= 60
		case "s", "sec", "second":
			multiplier = 60
		default:
			return Quota{}, fmt.Errorf("unsupported quota unit: %s (supported: s, min, hour)", unit)
		}
	}

	quota.PerMinute = count * multiplier
	return quota, nil
}
