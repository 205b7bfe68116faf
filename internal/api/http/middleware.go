package http

import (
	"context"
	"errors"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/spec-kit/offer-service/internal/observability"
	apperrors "github.com/spec-kit/offer-service/pkg/util/errorutil"
)

// MiddlewareConfig carries the knobs for global middleware.
type MiddlewareConfig struct {
	Timeout     time.Duration
	CORSOrigins string
}

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, cfg MiddlewareConfig) {
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins(cfg.CORSOrigins),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Webhook-Secret, X-Webhook-Delivery",
	}))
	if cfg.Timeout > 0 {
		app.Use(requestTimeoutMiddleware(cfg.Timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(observability.RequestLogger(logger, metrics))
}

func corsOrigins(origins string) string {
	if strings.TrimSpace(origins) == "" {
		return "*"
	}
	return origins
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				err = writeError(c, logger, metrics, err)
			}
		}()
		return c.Next()
	}
}

// ErrorHandler is installed as fiber's error handler for errors raised outside the
// middleware chain, such as unmatched routes.
func ErrorHandler(logger *zap.Logger, metrics *observability.Metrics) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return writeError(c, logger, metrics, err)
	}
}

func writeError(c *fiber.Ctx, logger *zap.Logger, metrics *observability.Metrics, err error) error {
	domainErr := toDomainError(err)
	metrics.RecordError(c.Route().Path, c.Method(), domainErr.Code)

	body := fiber.Map{
		"code":    domainErr.Code,
		"message": domainErr.Message,
	}
	if len(domainErr.Details) > 0 {
		body["details"] = domainErr.Details
	}
	if domainErr.HTTPStatus >= 500 {
		logger.Error("request failed", zap.String("path", c.Path()), zap.Error(domainErr))
	}
	if domainErr.Retryable() {
		c.Set(fiber.HeaderRetryAfter, "1")
	}
	return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": body})
}

// toDomainError also understands fiber's own errors (404 route misses, 405, body limits).
func toDomainError(err error) *apperrors.DomainError {
	var fe *fiber.Error
	if !errors.As(err, &fe) {
		return apperrors.ToDomainError(err)
	}
	switch fe.Code {
	case fiber.StatusNotFound:
		return apperrors.NewNotFound("route").(*apperrors.DomainError)
	case fiber.StatusTooManyRequests:
		return apperrors.NewRateLimited().(*apperrors.DomainError)
	}
	if fe.Code >= 400 && fe.Code < 500 {
		return apperrors.NewDomainError(apperrors.CodeValidation, fe.Message, fe.Code, nil)
	}
	return apperrors.ToDomainError(err)
}

// rateLimiter is a token bucket per client IP.
type rateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	lastScan time.Time
	now      func() time.Time
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

func newRateLimiter(perSecond, burst int) *rateLimiter {
	if perSecond <= 0 {
		perSecond = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &rateLimiter{
		buckets: make(map[string]*bucket),
		limit:   rate.Limit(perSecond),
		burst:   burst,
		ttl:     5 * time.Minute,
		now:     time.Now,
	}
}

func (l *rateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastScan) > time.Minute {
		for k, b := range l.buckets {
			if now.Sub(b.seen) > l.ttl {
				delete(l.buckets, k)
			}
		}
		l.lastScan = now
	}

	b, ok := l.buckets[ip]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[ip] = b
	}
	b.seen = now
	return b.lim.AllowN(now, 1)
}

// RateLimit rejects clients that exceed perSecond requests with the given burst.
func RateLimit(perSecond, burst int) fiber.Handler {
	limiter := newRateLimiter(perSecond, burst)
	return func(c *fiber.Ctx) error {
		ip := c.IP()
		if ip == "" {
			ip = "unknown"
		}
		if !limiter.allow(ip) {
			return apperrors.NewRateLimited()
		}
		return c.Next()
	}
}
