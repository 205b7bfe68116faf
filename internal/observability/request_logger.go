package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/offer-service/pkg/util/errorutil"
)

// RequestLogger logs one line per request and feeds the request metrics.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		status := c.Response().StatusCode()
		if err != nil {
			status = apperrors.ToDomainError(err).HTTPStatus
		}
		path := c.Route().Path
		metrics.RecordRequest(path, c.Method(), status, elapsed)

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", elapsed),
		}
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			fields = append(fields, zap.String("request_id", rid))
		}
		logger.Info("request", fields...)
		return err
	}
}
