package api

import (
	"math"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"
)

type rateLimiter interface {
	Allow() bool
}

// retryAdvisor is implemented by limiters that can tell a rejected client
// when to come back.
type retryAdvisor interface {
	RetryAfterSeconds() int
}

type tokenBucket struct {
	limiter *rate.Limiter
}

func newTokenBucketLimiter(ratePerSecond float64, burst int) *tokenBucket {
	if ratePerSecond <= 0 {
		ratePerSecond = 1
	}
	if burst <= 0 {
		burst = 1
	}

	return &tokenBucket{
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst),
	}
}

func (l *tokenBucket) Allow() bool {
	if l == nil || l.limiter == nil {
		return true
	}
	return l.limiter.Allow()
}

// RetryAfterSeconds returns the whole seconds until the next token, at least 1.
func (l *tokenBucket) RetryAfterSeconds() int {
	if l == nil || l.limiter == nil {
		return 1
	}
	r := l.limiter.Reserve()
	delay := r.Delay()
	r.Cancel()
	return max(1, int(math.Ceil(delay.Seconds())))
}

func rateLimitMiddleware(limiter rateLimiter, next http.Handler) http.Handler {
	if limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if limiter.Allow() {
			next.ServeHTTP(w, r)
			return
		}
		if advisor, ok := limiter.(retryAdvisor); ok {
			w.Header().Set("Retry-After", strconv.Itoa(advisor.RetryAfterSeconds()))
		}
		writeError(w, http.StatusTooManyRequests, "Too many requests", "rate limit exceeded, please retry shortly")
	})
}
