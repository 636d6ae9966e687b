// Package registry talks to the coordination store that holds Dubbo-style
// service registrations.
//
// The registry is a tree:
//
//	/dubbo/{ServiceName}/providers/{url-encoded provider URL}
//	/dubbo/{ServiceName}/consumers/...
//	/dubbo/{ServiceName}/routers/...
//	/dubbo/{ServiceName}/configurators/...
//
// Only the providers sub-tree is read or written by this module. Every node
// is persistent and carries no payload; the provider metadata lives in the
// node name itself.
package registry

import (
	"strings"
	"time"

	"github.com/juju/errors"
	"go.uber.org/zap"
)

// DefaultSessionTimeout is the session timeout used for every store session.
const DefaultSessionTimeout = 10 * time.Second

// Store is one open session to a coordination-store cluster.
//
// A missing node is reported with an error satisfying
// errors.Is(err, errors.NotFound).
type Store interface {
	// Children lists the immediate child names of path.
	Children(path string) ([]string, error)
	Exists(path string) (bool, error)
	// Create makes a persistent, world-open node with no payload. The parent must exist.
	Create(path string) error
	// Delete removes path regardless of its version.
	Delete(path string) error
	Close() error
}

// Dialer opens a session to the cluster identified by endpoint.
type Dialer func(endpoint string) (Store, error)

// Backend names accepted by NewDialer.
const (
	BackendZooKeeper = "zookeeper"
	BackendEtcd      = "etcd"
	BackendMemory    = "memory"
)

// NewDialer returns the Dialer for the named backend.
func NewDialer(backend string, timeout time.Duration, logger *zap.Logger) (Dialer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultSessionTimeout
	}
	switch backend {
	case BackendZooKeeper, "zk", "":
		return DialZooKeeper(timeout, logger), nil
	case BackendEtcd:
		return DialEtcd(timeout, logger), nil
	case BackendMemory:
		return DialMemory(), nil
	}
	return nil, errors.NotValidf("registry backend %q", backend)
}

func noNode(path string) error {
	return errors.NotFoundf("node %q", path)
}

// splitEndpoint turns "host1:2181, host2:2181" into its address list.
func splitEndpoint(endpoint string) []string {
	var addrs []string
	for _, addr := range strings.Split(endpoint, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			addrs = append(addrs, addr)
		}
	}
	return addrs
}
