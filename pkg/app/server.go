package app

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"

	"github.com/mysqlsizes/mysqlsizes/pkg/collector"
	"github.com/mysqlsizes/mysqlsizes/pkg/config"
	"github.com/mysqlsizes/mysqlsizes/pkg/core"
	"github.com/mysqlsizes/mysqlsizes/pkg/filters"
	"github.com/mysqlsizes/mysqlsizes/pkg/metrics"
	"github.com/mysqlsizes/mysqlsizes/pkg/sinks"
	"github.com/mysqlsizes/mysqlsizes/pkg/utils"
)

// Status is the snapshot served by the /status endpoint.
type Status struct {
	Hostname        string    `json:"hostname"`
	Targets         int       `json:"targets"`
	InvalidSections []string  `json:"invalid-sections,omitempty"`
	LastCycle       time.Time `json:"last-cycle"`
	LastPoints      int       `json:"last-points"`
	LastFailed      int       `json:"last-failed"`
	LastFiltered    int       `json:"last-filtered"`
}

// Server owns the collection loop: the cached resolved target set, the
// sink, and the ticker that fires one cycle per interval. Cycles never
// overlap; the next tick is simply consumed late when one overruns.
type Server struct {
	cfg  *config.Config
	sink core.Sink

	// targets holds *config.TargetSet. Cycles read whatever set is
	// current when they start; Reload swaps it atomically.
	targets atomic.Value

	mu      sync.Mutex // guards cycle and last
	cycle   collector.Cycle
	last    collector.Stats
	lastRun time.Time

	started   int32
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewServer resolves the initial target set and builds the sink. Named
// sections that fail to resolve are skipped, not fatal: a server whose
// sections are all broken collects nothing until a reload fixes them,
// which beats flapping the process.
func NewServer(cfg *config.Config) (*Server, error) {
	sink, err := sinks.New(cfg.Sink)
	if err != nil {
		return nil, errors.Trace(err)
	}

	set, err := config.Resolve(cfg.Raw())
	if err != nil {
		return nil, errors.Trace(err)
	}

	s := &Server{
		cfg:  cfg,
		sink: sink,
		stop: make(chan struct{}),
		done: make(chan struct{}),
		cycle: collector.Cycle{
			Hostname: utils.Hostname(cfg.Hostname),
			Sink:     sink,
			Rules:    filters.NewRules(cfg.MetricsWhitelist, cfg.MetricsBlacklist),
		},
	}
	s.storeTargets(set)
	return s, nil
}

// Start launches the collection loop. The first cycle runs immediately.
func (s *Server) Start() {
	if !atomic.CompareAndSwapInt32(&s.started, 0, 1) {
		return
	}
	go s.loop()
}

func (s *Server) loop() {
	defer close(s.done)

	interval := time.Duration(s.cfg.Interval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Infof("[server] collecting every %v", interval)
	s.runCycle()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.runCycle()
		}
	}
}

func (s *Server) runCycle() {
	start := time.Now()
	set := s.targets.Load().(*config.TargetSet)

	s.mu.Lock()
	cycle := s.cycle
	s.mu.Unlock()

	stats := cycle.Run(set.Targets, start)
	elapsed := time.Since(start)
	metrics.CycleHistogram.Observe(elapsed.Seconds())

	s.mu.Lock()
	s.last = stats
	s.lastRun = start
	s.mu.Unlock()

	log.Infof("[server] cycle done: %d targets, %d points, %d filtered, %d failed (%.2fs)",
		stats.Targets, stats.Points, stats.Filtered, stats.Failed, elapsed.Seconds())
}

// Reload re-resolves targets and filter rules from cfg and swaps them in.
// A cycle already running keeps the set it started with. The interval and
// sink are fixed for the process lifetime; changing those needs a restart.
func (s *Server) Reload(cfg *config.Config) error {
	set, err := config.Resolve(cfg.Raw())
	if err != nil {
		return errors.Trace(err)
	}

	s.mu.Lock()
	s.cycle.Rules = filters.NewRules(cfg.MetricsWhitelist, cfg.MetricsBlacklist)
	s.cycle.Hostname = utils.Hostname(cfg.Hostname)
	s.mu.Unlock()

	s.storeTargets(set)
	log.Infof("[server] config reloaded: %d targets, %d invalid sections", len(set.Targets), len(set.Invalid))
	return nil
}

func (s *Server) storeTargets(set *config.TargetSet) {
	s.targets.Store(set)
	metrics.TargetsGauge.Set(float64(len(set.Targets)))
	for _, inv := range set.Invalid {
		ce := collector.NewConfigError(inv.Section, inv.Err)
		log.Errorf("[server] %v", ce)
		metrics.TargetErrorCounter.WithLabelValues(inv.Section, ce.Kind.String()).Inc()
	}
}

// Healthy reports whether the collection loop is running.
func (s *Server) Healthy() bool {
	select {
	case <-s.done:
		return false
	default:
	}
	return atomic.LoadInt32(&s.started) == 1
}

// Status returns a point-in-time summary for the /status endpoint.
func (s *Server) Status() Status {
	set := s.targets.Load().(*config.TargetSet)

	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		Hostname:     s.cycle.Hostname,
		Targets:      len(set.Targets),
		LastCycle:    s.lastRun,
		LastPoints:   s.last.Points,
		LastFailed:   s.last.Failed,
		LastFiltered: s.last.Filtered,
	}
	for _, inv := range set.Invalid {
		st.InvalidSections = append(st.InvalidSections, inv.Section)
	}
	return st
}

// Close stops the loop, waits for an in-flight cycle and closes the sink.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		if atomic.LoadInt32(&s.started) == 1 {
			close(s.stop)
			<-s.done
		}
		if err := s.sink.Close(); err != nil {
			log.Errorf("[server] closing sink: %v", err)
		}
	})
}
