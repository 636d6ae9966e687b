package registry

import (
	"time"

	"github.com/go-zookeeper/zk"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// persistent is the create flag for a plain, non-ephemeral, non-sequential node.
const persistent int32 = 0

// anyVersion makes Delete skip the version check.
const anyVersion int32 = -1

// ZKStore is a Store backed by a ZooKeeper session.
type ZKStore struct {
	conn *zk.Conn
}

// DialZooKeeper returns a Dialer for ZooKeeper ensembles. The endpoint is a
// comma separated host:port list.
//
// Session events are not watched. The dial only waits, at most one session
// timeout, for the first session to be established; after that the event
// channel is dropped and expiry or reconnects are not reacted to.
func DialZooKeeper(sessionTimeout time.Duration, logger *zap.Logger) Dialer {
	return func(endpoint string) (Store, error) {
		servers := splitEndpoint(endpoint)
		if len(servers) == 0 {
			return nil, errors.NotValidf("zookeeper endpoint %q", endpoint)
		}
		conn, events, err := zk.Connect(servers, sessionTimeout, zk.WithLogger(zkLogger{logger.Sugar()}))
		if err != nil {
			return nil, errors.Annotatef(err, "connecting to %s", endpoint)
		}
		if err := awaitSession(events, sessionTimeout); err != nil {
			conn.Close()
			return nil, errors.Annotatef(err, "connecting to %s", endpoint)
		}
		return &ZKStore{conn: conn}, nil
	}
}

func awaitSession(events <-chan zk.Event, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case ev := <-events:
			switch ev.State {
			case zk.StateHasSession:
				return nil
			case zk.StateAuthFailed:
				return errors.New("zookeeper authentication failed")
			}
		case <-timer.C:
			return errors.Timeoutf("zookeeper session after %s", timeout)
		}
	}
}

func (s *ZKStore) Children(path string) ([]string, error) {
	children, _, err := s.conn.Children(path)
	if err != nil {
		return nil, zkError(err, path)
	}
	return children, nil
}

func (s *ZKStore) Exists(path string) (bool, error) {
	ok, _, err := s.conn.Exists(path)
	if err != nil {
		return false, zkError(err, path)
	}
	return ok, nil
}

func (s *ZKStore) Create(path string) error {
	_, err := s.conn.Create(path, nil, persistent, zk.WorldACL(zk.PermAll))
	if err != nil {
		return zkError(err, path)
	}
	return nil
}

func (s *ZKStore) Delete(path string) error {
	if err := s.conn.Delete(path, anyVersion); err != nil {
		return zkError(err, path)
	}
	return nil
}

// Close ends the session. zk.Conn.Close does not report errors.
func (s *ZKStore) Close() error {
	s.conn.Close()
	return nil
}

func zkError(err error, path string) error {
	switch {
	case errors.Is(err, zk.ErrNoNode):
		return errors.NewNotFound(err, path)
	case errors.Is(err, zk.ErrNodeExists):
		return errors.NewAlreadyExists(err, path)
	}
	return errors.Annotate(err, path)
}

// zkLogger sends the client's own log lines to zap at debug level.
type zkLogger struct {
	*zap.SugaredLogger
}

func (l zkLogger) Printf(format string, args ...interface{}) {
	l.Debugf(format, args...)
}
