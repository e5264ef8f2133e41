package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/version"
)

const HostTag = "host"

var CycleHistogram = prometheus.NewHistogram(prometheus.HistogramOpts{
	Namespace: "mysqlsizes",
	Subsystem: "cycle",
	Name:      "duration_seconds",
	Help:      "Duration of one full collection cycle in seconds.",
	Buckets:   prometheus.ExponentialBuckets(0.005, 2, 15), // ~ 80s
})

var TargetsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
	Namespace: "mysqlsizes",
	Name:      "resolved_targets",
	Help:      "Number of targets in the currently resolved set.",
})

var PointsEmittedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "mysqlsizes",
	Subsystem: "points",
	Name:      "emitted_total",
	Help:      "Number of metric points handed to the sink.",
}, []string{HostTag})

var PointsFilteredCounter = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "mysqlsizes",
	Subsystem: "points",
	Name:      "filtered_total",
	Help:      "Number of metric points dropped by whitelist/blacklist rules.",
})

var TargetErrorCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "mysqlsizes",
	Subsystem: "target",
	Name:      "errors_total",
	Help:      "Number of per-target failures, by error kind. Config errors carry the section name as host.",
}, []string{HostTag, "kind"})

var SinkErrorCounter = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "mysqlsizes",
	Subsystem: "sink",
	Name:      "errors_total",
	Help:      "Number of failed sink sends.",
})

func init() {
	prometheus.MustRegister(
		CycleHistogram, TargetsGauge,
		PointsEmittedCounter, PointsFilteredCounter,
		TargetErrorCounter, SinkErrorCounter,
		version.NewCollector("mysqlsizes"),
	)
}
