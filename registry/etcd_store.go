package registry

import (
	"context"
	"strings"
	"time"

	"github.com/juju/errors"
	clientv3 "go.etcd.io/etcd/client/v3"
	"go.uber.org/zap"
)

// EtcdStore emulates the registry tree on etcd v3.
//
// etcd has a flat key space, so every node is stored as its own key:
//
//	Key:   /dubbo/{ServiceName}/providers/{Provider}
//	Value: "" (nodes carry no payload)
//
// Children of a node are the distinct next path segments of the keys under
// "{path}/". Create and Delete keep ZooKeeper's rules: the parent must exist
// and a node with children cannot be removed.
type EtcdStore struct {
	client  *clientv3.Client // thread-safe, one per session
	timeout time.Duration    // per-request deadline
}

// DialEtcd returns a Dialer for etcd clusters. The endpoint is a comma
// separated host:port list.
func DialEtcd(timeout time.Duration, logger *zap.Logger) Dialer {
	return func(endpoint string) (Store, error) {
		endpoints := splitEndpoint(endpoint)
		if len(endpoints) == 0 {
			return nil, errors.NotValidf("etcd endpoint %q", endpoint)
		}
		c, err := clientv3.New(clientv3.Config{
			Endpoints:   endpoints,
			DialTimeout: timeout,
			Logger:      logger,
		})
		if err != nil {
			return nil, errors.Annotatef(err, "connecting to %s", endpoint)
		}
		return &EtcdStore{client: c, timeout: timeout}, nil
	}
}

func (s *EtcdStore) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

func (s *EtcdStore) exists(ctx context.Context, path string) (bool, error) {
	if path == separator {
		return true, nil
	}
	resp, err := s.client.Get(ctx, path, clientv3.WithCountOnly())
	if err != nil {
		return false, errors.Annotate(err, path)
	}
	return resp.Count > 0, nil
}

func (s *EtcdStore) Children(path string) ([]string, error) {
	ctx, cancel := s.requestContext()
	defer cancel()

	ok, err := s.exists(ctx, path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, noNode(path)
	}

	prefix := childPrefix(path)
	resp, err := s.client.Get(ctx, prefix, clientv3.WithPrefix(), clientv3.WithKeysOnly())
	if err != nil {
		return nil, errors.Annotate(err, path)
	}
	keys := make([]string, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		keys = append(keys, string(kv.Key))
	}
	return immediateChildren(prefix, keys), nil
}

func (s *EtcdStore) Exists(path string) (bool, error) {
	ctx, cancel := s.requestContext()
	defer cancel()
	return s.exists(ctx, path)
}

func (s *EtcdStore) Create(path string) error {
	ctx, cancel := s.requestContext()
	defer cancel()

	parent := parentPath(path)
	ok, err := s.exists(ctx, parent)
	if err != nil {
		return err
	}
	if !ok {
		return noNode(parent)
	}

	// Only put the key if nobody created it in the meantime.
	resp, err := s.client.Txn(ctx).
		If(clientv3.Compare(clientv3.CreateRevision(path), "=", 0)).
		Then(clientv3.OpPut(path, "")).
		Commit()
	if err != nil {
		return errors.Annotate(err, path)
	}
	if !resp.Succeeded {
		return errors.AlreadyExistsf("node %q", path)
	}
	return nil
}

func (s *EtcdStore) Delete(path string) error {
	ctx, cancel := s.requestContext()
	defer cancel()

	resp, err := s.client.Get(ctx, childPrefix(path), clientv3.WithPrefix(), clientv3.WithCountOnly())
	if err != nil {
		return errors.Annotate(err, path)
	}
	if resp.Count > 0 {
		return errors.Errorf("node %q not empty", path)
	}

	del, err := s.client.Delete(ctx, path)
	if err != nil {
		return errors.Annotate(err, path)
	}
	if del.Deleted == 0 {
		return noNode(path)
	}
	return nil
}

func (s *EtcdStore) Close() error {
	return s.client.Close()
}

func childPrefix(path string) string {
	if path == separator {
		return separator
	}
	return path + separator
}

// immediateChildren returns the distinct first segment after prefix of every
// key, keeping the order of keys.
func immediateChildren(prefix string, keys []string) []string {
	seen := make(map[string]bool)
	children := make([]string, 0)
	for _, key := range keys {
		rest := strings.TrimPrefix(key, prefix)
		if rest == key || rest == "" {
			continue
		}
		name, _, _ := strings.Cut(rest, separator)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		children = append(children, name)
	}
	return children
}
