package collector

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/mysqlsizes/mysqlsizes/pkg/config"
	"github.com/mysqlsizes/mysqlsizes/pkg/core"
	"github.com/mysqlsizes/mysqlsizes/pkg/filters"
	"github.com/mysqlsizes/mysqlsizes/pkg/metrics"
)

// Stats summarizes one collection cycle.
type Stats struct {
	Targets  int
	Failed   int
	Points   int
	Filtered int
}

// Cycle runs the whole pipeline over a resolved target list. It holds no
// state between runs, so any scheduler can drive it: the interval loop in
// pkg/app, cron, or a test harness.
type Cycle struct {
	Hostname string
	Sink     core.Sink
	Rules    filters.Rules

	// FetchFunc defaults to Fetch; tests substitute it.
	FetchFunc func(config.Target) ([]core.TableStatsRow, error)
}

// Run performs one pass over targets in declaration order, stamping every
// surviving point with now. A failing target contributes zero points and
// never stops the others; a target either delivers its complete filtered
// batch to the sink or nothing at all.
func (c *Cycle) Run(targets []config.Target, now time.Time) Stats {
	fetch := c.FetchFunc
	if fetch == nil {
		fetch = Fetch
	}

	stats := Stats{Targets: len(targets)}
	aliases := Assign(targets)

	for i, t := range targets {
		rows, err := fetch(t)
		if err != nil {
			stats.Failed++
			kind := "unknown"
			if ce, ok := err.(*CollectionError); ok {
				kind = ce.Kind.String()
			}
			metrics.TargetErrorCounter.WithLabelValues(t.Host, kind).Inc()
			log.Errorf("[collector] %v", err)
			continue
		}

		var points []core.MetricPoint
		for _, row := range rows {
			for _, p := range MapRow(row, c.Hostname, aliases[i], now) {
				if !c.Rules.Keep(p.Name()) {
					stats.Filtered++
					metrics.PointsFilteredCounter.Inc()
					continue
				}
				points = append(points, p)
			}
		}
		if len(points) == 0 {
			log.Debugf("[collector] target %s produced no points", t.Host)
			continue
		}

		if err := c.Sink.Send(points); err != nil {
			stats.Failed++
			metrics.SinkErrorCounter.Inc()
			log.Errorf("[collector] sending %d points for target %s (section %q): %v", len(points), t.Host, t.Section, err)
			continue
		}
		stats.Points += len(points)
		metrics.PointsEmittedCounter.WithLabelValues(t.Host).Add(float64(len(points)))
	}
	return stats
}
