package sinks

import (
	"time"

	"github.com/juju/errors"

	"github.com/mysqlsizes/mysqlsizes/pkg/config"
	"github.com/mysqlsizes/mysqlsizes/pkg/core"
)

// New builds the sink named by cfg.Type.
func New(cfg config.SinkConfig) (core.Sink, error) {
	switch cfg.Type {
	case "console", "":
		return ConsoleSink{}, nil
	case "graphite":
		if cfg.Address == "" {
			return nil, errors.Errorf("graphite sink requires an address")
		}
		timeout, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return nil, errors.Annotatef(err, "bad sink timeout %q", cfg.Timeout)
		}
		return NewGraphiteSink(cfg.Address, timeout), nil
	default:
		return nil, errors.Errorf("unknown sink type %q", cfg.Type)
	}
}
