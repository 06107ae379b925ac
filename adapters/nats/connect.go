package nats

import (
	"os"
	"sync"

	natsgo "github.com/nats-io/nats.go"
)

type closeFunc = func()

// Connector creates a NATS connection on demand and hands back the function
// that gives it up again. Keeping connection setup behind this type lets the
// sink, tests and examples share one connection policy.
type Connector func() (nc *natsgo.Conn, close closeFunc, err error)

// ConnectURL connects to the given URL. Every call opens a fresh connection.
func ConnectURL(natsURL string) Connector {
	return func() (*natsgo.Conn, closeFunc, error) {
		nc, err := natsgo.Connect(
			natsURL,
			natsgo.Name("resourcetrack"),
			natsgo.MaxReconnects(3),
		)
		if err != nil {
			return nil, nil, err
		}
		return nc, func() { nc.Close() }, nil
	}
}

// ConnectDefault connects to $NATS_URL, falling back to the default local
// URL.
func ConnectDefault() Connector {
	if natsURL := os.Getenv("NATS_URL"); natsURL != "" {
		return ConnectURL(natsURL)
	}
	return ConnectURL(natsgo.DefaultURL)
}

// ReuseConnection shares one underlying connection between all callers of
// the returned connector. The connection is opened on first use and closed
// when the last caller has returned it; a later call opens a new one.
func ReuseConnection(connect Connector) Connector {
	var (
		mu          sync.Mutex
		shared      *natsgo.Conn
		closeShared closeFunc
		leases      int
	)

	giveBack := func() {
		mu.Lock()
		defer mu.Unlock()
		leases--
		if leases == 0 {
			closeShared()
			shared = nil
		}
	}

	return func() (*natsgo.Conn, closeFunc, error) {
		mu.Lock()
		defer mu.Unlock()
		if shared == nil {
			nc, closeNc, err := connect()
			if err != nil {
				return nil, nil, err
			}
			shared, closeShared = nc, closeNc
		}
		leases++
		return shared, giveBack, nil
	}
}
