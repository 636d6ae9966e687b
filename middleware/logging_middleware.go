package middleware

import (
	"time"

	"dubbo-switch/registry"
	"go.uber.org/zap"
)

// LoggingMiddleware logs every store call with its path and duration.
func LoggingMiddleware(logger *zap.Logger) Middleware {
	return func(next registry.Store) registry.Store {
		return &loggingStore{Store: next, logger: logger}
	}
}

type loggingStore struct {
	registry.Store
	logger *zap.Logger
}

func (s *loggingStore) log(op, path string, start time.Time, err error) {
	fields := []zap.Field{
		zap.String("op", op),
		zap.String("path", path),
		zap.Duration("duration", time.Since(start)),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	s.logger.Debug("registry call", fields...)
}

func (s *loggingStore) Children(path string) ([]string, error) {
	start := time.Now()
	children, err := s.Store.Children(path)
	s.log("children", path, start, err)
	return children, err
}

func (s *loggingStore) Exists(path string) (bool, error) {
	start := time.Now()
	ok, err := s.Store.Exists(path)
	s.log("exists", path, start, err)
	return ok, err
}

func (s *loggingStore) Create(path string) error {
	start := time.Now()
	err := s.Store.Create(path)
	s.log("create", path, start, err)
	return err
}

func (s *loggingStore) Delete(path string) error {
	start := time.Now()
	err := s.Store.Delete(path)
	s.log("delete", path, start, err)
	return err
}
