package middleware

import (
	"strings"

	"dubbo-switch/registry"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// DryRunMiddleware logs writes instead of performing them. Skipped writes are
// remembered for the rest of the session, so reads see the tree as it would
// be and later steps of an operation behave as in a real run.
func DryRunMiddleware(logger *zap.Logger) Middleware {
	return func(next registry.Store) registry.Store {
		return &dryRunStore{
			Store:   next,
			logger:  logger,
			created: make(map[string]bool),
			deleted: make(map[string]bool),
		}
	}
}

type dryRunStore struct {
	registry.Store
	logger  *zap.Logger
	created map[string]bool
	deleted map[string]bool
	order   []string // created paths in creation order
}

func (s *dryRunStore) Create(path string) error {
	s.logger.Info("dry run: skip create", zap.String("path", path))
	delete(s.deleted, path)
	if !s.created[path] {
		s.created[path] = true
		s.order = append(s.order, path)
	}
	return nil
}

func (s *dryRunStore) Delete(path string) error {
	s.logger.Info("dry run: skip delete", zap.String("path", path))
	delete(s.created, path)
	s.deleted[path] = true
	return nil
}

func (s *dryRunStore) Exists(path string) (bool, error) {
	switch {
	case s.created[path]:
		return true, nil
	case s.deleted[path]:
		return false, nil
	}
	return s.Store.Exists(path)
}

func (s *dryRunStore) Children(path string) ([]string, error) {
	if s.deleted[path] {
		return nil, errors.NotFoundf("node %q", path)
	}
	children, err := s.Store.Children(path)
	if err != nil {
		if !s.created[path] || !errors.Is(err, errors.NotFound) {
			return nil, err
		}
		children = nil
	}

	prefix := path + "/"
	visible := make([]string, 0, len(children))
	seen := make(map[string]bool)
	for _, name := range children {
		if !s.deleted[prefix+name] {
			visible = append(visible, name)
			seen[name] = true
		}
	}
	for _, p := range s.order {
		name := strings.TrimPrefix(p, prefix)
		if !s.created[p] || name == p || strings.Contains(name, "/") || seen[name] {
			continue
		}
		visible = append(visible, name)
		seen[name] = true
	}
	return visible, nil
}
