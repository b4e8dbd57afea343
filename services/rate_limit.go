package services

import (
	stdcontext "context"
	"fmt"
	"net/http"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/nird-lab/nird_api/shared"
	log "github.com/sirupsen/logrus"
)

type RateLimitService struct {
	context.DefaultService

	configs map[string]*RateLimitConfig

	redisSvc *RedisService
}

// RateLimitConfig is a fixed window with a penalty block once exceeded
type RateLimitConfig struct {
	EndpointType string
	MaxRequests  int
	WindowSize   time.Duration
	BlockTime    time.Duration
}

const RATE_LIMIT_SVC = "rate_limit_svc"

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *context.Context) error {
	svc.configs = map[string]*RateLimitConfig{
		"login": {
			EndpointType: "login",
			MaxRequests:  10,
			WindowSize:   15 * time.Minute,
			BlockTime:    30 * time.Minute,
		},
		"register": {
			EndpointType: "register",
			MaxRequests:  5,
			WindowSize:   15 * time.Minute,
			BlockTime:    60 * time.Minute,
		},
		"anonymous": {
			EndpointType: "anonymous",
			MaxRequests:  5,
			WindowSize:   15 * time.Minute,
			BlockTime:    30 * time.Minute,
		},
		"submit": {
			EndpointType: "submit",
			MaxRequests:  120,
			WindowSize:   time.Minute,
			BlockTime:    5 * time.Minute,
		},
	}
	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

// Middleware counts requests per client IP in a redis fixed window. Redis
// outages degrade open so the API stays usable without the limiter.
func (svc *RateLimitService) Middleware(endpointType string) fiber.Handler {
	config, ok := svc.configs[endpointType]
	if !ok {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return func(c *fiber.Ctx) error {
		ctx, cancel := stdcontext.WithTimeout(stdcontext.Background(), time.Second)
		defer cancel()

		identifier := c.IP()
		blockKey := fmt.Sprintf("ratelimit:block:%s:%s", endpointType, identifier)

		blocked, err := svc.redisSvc.Exists(ctx, blockKey)
		if err != nil {
			log.WithError(err).Warn("Rate limiter unavailable, allowing request")
			return c.Next()
		}
		if blocked {
			return shared.NewAppErrorWithStatus(http.StatusTooManyRequests, "Trop de requêtes")
		}

		countKey := fmt.Sprintf("ratelimit:%s:%s", endpointType, identifier)
		count, err := svc.redisSvc.Increment(ctx, countKey)
		if err != nil {
			log.WithError(err).Warn("Rate limiter unavailable, allowing request")
			return c.Next()
		}
		if count == 1 {
			_ = svc.redisSvc.Expire(ctx, countKey, config.WindowSize)
		}

		if count > int64(config.MaxRequests) {
			_ = svc.redisSvc.Set(ctx, blockKey, "1", config.BlockTime)
			log.WithFields(log.Fields{
				"endpoint_type": endpointType,
				"identifier":    identifier,
			}).Warn("Rate limit exceeded")
			return shared.NewAppErrorWithStatus(http.StatusTooManyRequests, "Trop de requêtes")
		}

		return c.Next()
	}
}
