// Package switcher moves or clears an application's provider registrations
// between registry clusters.
//
// Operation flow:
//
//	SwitchAppProvider: Connect(source) → CollectAppServices(source) → Connect(target) → SwitchServices → release both
//	ClearAppProvider:  Connect(target) → CollectAppServices(target) → ClearServices → release
//
// Everything runs sequentially on the calling goroutine. Store calls are made
// once; the first failure stops the operation and nothing is rolled back.
package switcher

import (
	"fmt"

	"dubbo-switch/message"
	"dubbo-switch/middleware"
	"dubbo-switch/registry"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// Switcher holds no state between operations. Every operation opens its own
// sessions and releases them before returning.
type Switcher struct {
	dial        registry.Dialer
	logger      *zap.Logger
	middlewares []middleware.Middleware
}

type Option func(*Switcher)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Switcher) {
		s.logger = logger
	}
}

// WithMiddleware wraps every session the switcher opens, in the given order.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(s *Switcher) {
		s.middlewares = append(s.middlewares, mws...)
	}
}

func New(dial registry.Dialer, opts ...Option) *Switcher {
	s := &Switcher{dial: dial, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Connect opens a session to endpoint and probes it by listing the registry
// root. A missing root still counts as reachable. On failure the partial
// session is released and an error is returned.
func (s *Switcher) Connect(endpoint string) (registry.Store, error) {
	store, err := s.dial(endpoint)
	if err != nil {
		s.logger.Error("connect failed", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, errors.Trace(err)
	}
	store = middleware.Chain(s.middlewares...)(store)
	if _, err := store.Children(registry.Root); err != nil && !errors.Is(err, errors.NotFound) {
		s.logger.Error("connect failed", zap.String("endpoint", endpoint), zap.Error(err))
		s.release(store, endpoint)
		return nil, errors.Annotatef(err, "probing %s", endpoint)
	}
	return store, nil
}

// release closes store. Close errors are logged and dropped.
func (s *Switcher) release(store registry.Store, endpoint string) {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		s.logger.Warn("close session", zap.String("endpoint", endpoint), zap.Error(err))
	}
}

// SwitchAppProvider replaces, on target, the provider list of every service
// that has a provider of appName on source with the source's list.
func (s *Switcher) SwitchAppProvider(sourceEndpoint, targetEndpoint, appName string) message.Result {
	if appName == "" {
		return message.Failed(msgAppRequired)
	}
	logger := s.logger.With(
		zap.String("source", sourceEndpoint),
		zap.String("target", targetEndpoint),
		zap.String("application", appName),
	)

	source, err := s.Connect(sourceEndpoint)
	if err != nil {
		return message.Failed(cannotConnect(sourceEndpoint))
	}
	defer s.release(source, sourceEndpoint)

	selection, err := CollectAppServices(source, appName)
	if err != nil {
		logger.Error("switch failed", zap.Error(err))
		return message.Failed(msgSwitchFailed + err.Error())
	}
	if len(selection) == 0 {
		return message.Failed(noProviders(appName, sourceEndpoint))
	}

	target, err := s.Connect(targetEndpoint)
	if err != nil {
		return message.Failed(cannotConnect(targetEndpoint))
	}
	defer s.release(target, targetEndpoint)

	done, err := SwitchServices(selection, target)
	if err != nil {
		logger.Error("switch failed", zap.Error(err), zap.Int("done", done), zap.Int("total", len(selection)))
		return message.Failed(msgSwitchFailed + err.Error() + progress(done, len(selection)))
	}
	logger.Info("switch succeeded",
		zap.Strings("services", selection.Services()),
		zap.Int("providers", selection.ProviderCount()),
	)
	return message.Succeeded(msgSwitchSucceeded)
}

// ClearAppProvider deletes, on target, every provider of each service that
// has at least one provider of appName.
func (s *Switcher) ClearAppProvider(targetEndpoint, appName string) message.Result {
	if appName == "" {
		return message.Failed(msgAppRequired)
	}
	logger := s.logger.With(zap.String("target", targetEndpoint), zap.String("application", appName))

	target, err := s.Connect(targetEndpoint)
	if err != nil {
		return message.Failed(cannotConnect(targetEndpoint))
	}
	defer s.release(target, targetEndpoint)

	selection, err := CollectAppServices(target, appName)
	if err != nil {
		logger.Error("clear failed", zap.Error(err))
		return message.Failed(msgClearFailed + err.Error())
	}
	if len(selection) == 0 {
		return message.Failed(noProviders(appName, targetEndpoint))
	}

	done, err := ClearServices(selection, target)
	if err != nil {
		logger.Error("clear failed", zap.Error(err), zap.Int("done", done), zap.Int("total", len(selection)))
		return message.Failed(msgClearFailed + err.Error() + progress(done, len(selection)))
	}
	logger.Info("clear succeeded", zap.Strings("services", selection.Services()))
	return message.Succeeded(msgClearSucceeded)
}

// ListAppProvider returns what a switch from, or a clear of, endpoint would
// act on. It never writes.
func (s *Switcher) ListAppProvider(endpoint, appName string) (message.Selection, message.Result) {
	if appName == "" {
		return nil, message.Failed(msgAppRequired)
	}
	store, err := s.Connect(endpoint)
	if err != nil {
		return nil, message.Failed(cannotConnect(endpoint))
	}
	defer s.release(store, endpoint)

	selection, err := CollectAppServices(store, appName)
	if err != nil {
		s.logger.Error("list failed", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, message.Failed(msgListFailed + err.Error())
	}
	if len(selection) == 0 {
		return nil, message.Failed(noProviders(appName, endpoint))
	}
	return selection, message.Succeeded(fmt.Sprintf("%d services, %d providers", len(selection), selection.ProviderCount()))
}

const (
	msgAppRequired     = "application name is required"
	msgSwitchSucceeded = "switch succeeded"
	msgClearSucceeded  = "clear succeeded"
	msgSwitchFailed    = "switch failed: "
	msgClearFailed     = "clear failed: "
	msgListFailed      = "list failed: "
)

func cannotConnect(endpoint string) string {
	return "cannot connect: " + endpoint
}

func noProviders(appName, endpoint string) string {
	return fmt.Sprintf("no %s providers: %s", appName, endpoint)
}

func progress(done, total int) string {
	return fmt.Sprintf(" (%d/%d services done)", done, total)
}
