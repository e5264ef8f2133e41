package sinks

import (
	log "github.com/sirupsen/logrus"

	"github.com/mysqlsizes/mysqlsizes/pkg/core"
)

// ConsoleSink logs every point instead of shipping it. Useful for dry
// runs and for checking what a filter rule set actually lets through.
type ConsoleSink struct{}

func (ConsoleSink) Send(points []core.MetricPoint) error {
	for _, p := range points {
		log.Infof("[sink] %s %s %d", p.String(), p.FormatValue(), p.Timestamp.Unix())
	}
	return nil
}

func (ConsoleSink) Close() error {
	return nil
}
