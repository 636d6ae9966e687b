package main

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/juju/errors"

	"dubbo-switch/registry"
)

// configuration is the optional TOML file given with --config:
//
//	backend = "zookeeper"
//	write_rate = 50.0
//	write_burst = 10
//
//	[clusters]
//	prod = "zk1:2181,zk2:2181,zk3:2181"
//	dr   = "zk-dr1:2181"
type configuration struct {
	Backend    string            `toml:"backend"`
	WriteRate  float64           `toml:"write_rate"`
	WriteBurst int               `toml:"write_burst"`
	Clusters   map[string]string `toml:"clusters"`
}

func defaultConfiguration() configuration {
	return configuration{
		Backend:    registry.BackendZooKeeper,
		WriteBurst: 1,
	}
}

// loadConfiguration reads path over the defaults. An empty path returns the defaults.
func loadConfiguration(path string) (configuration, error) {
	c := defaultConfiguration()
	if path == "" {
		return c, nil
	}
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return c, errors.Annotatef(err, "reading configuration %q", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return c, errors.NotValidf("configuration keys %s in %q", strings.Join(keys, ", "), path)
	}
	return c, nil
}

// endpoint resolves a cluster alias; anything else is used as given.
func (c *configuration) endpoint(name string) string {
	if ep, ok := c.Clusters[name]; ok {
		return ep
	}
	return name
}
