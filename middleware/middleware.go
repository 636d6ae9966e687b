// Package middleware decorates registry sessions.
package middleware

import (
	"dubbo-switch/registry"
)

type Middleware func(next registry.Store) registry.Store

// Chain 将多个中间件组合成一个中间件
func Chain(middlewares ...Middleware) Middleware {
	return func(next registry.Store) registry.Store {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}
