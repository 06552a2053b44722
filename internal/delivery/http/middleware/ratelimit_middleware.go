package middleware

import (
	"net/http"

	"medical-tourism-concierge/pkg/response"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
)

type RateLimitMiddleware struct {
	middleware *stdlib.Middleware
}

// NewRateLimitMiddleware limits requests per client IP. rate uses the
// limiter format, e.g. "20-M" for twenty requests a minute. Counters live
// in Redis so every instance shares them.
func NewRateLimitMiddleware(redisClient *redis.Client, rate string) (*RateLimitMiddleware, error) {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, err
	}

	store, err := redisstore.NewStoreWithOptions(redisClient, limiter.StoreOptions{
		Prefix: "rate_limit",
	})
	if err != nil {
		return nil, err
	}

	return &RateLimitMiddleware{
		middleware: stdlib.NewMiddleware(limiter.New(store, parsed),
			stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
				response.TooManyRequests(w)
			}),
			stdlib.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
				response.InternalServerError(w, "Failed to check rate limit")
			}),
		),
	}, nil
}

func (m *RateLimitMiddleware) Handle(next http.Handler) http.Handler {
	return m.middleware.Handler(next)
}
