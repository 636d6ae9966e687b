package middleware

import (
	"context"

	"dubbo-switch/registry"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware 创建一个基于令牌桶算法的写操作限流中间件
// Create/Delete 等待令牌，读操作不限流；r <= 0 表示不限流
func RateLimitMiddleware(r float64, burst int) Middleware {
	limit := rate.Limit(r)
	if r <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(limit, burst)
	return func(next registry.Store) registry.Store {
		return &rateLimitedStore{Store: next, limiter: limiter}
	}
}

type rateLimitedStore struct {
	registry.Store
	limiter *rate.Limiter
}

func (s *rateLimitedStore) Create(path string) error {
	if err := s.limiter.Wait(context.Background()); err != nil {
		return err
	}
	return s.Store.Create(path)
}

func (s *rateLimitedStore) Delete(path string) error {
	if err := s.limiter.Wait(context.Background()); err != nil {
		return err
	}
	return s.Store.Delete(path)
}
