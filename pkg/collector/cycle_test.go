package collector

import (
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mysqlsizes/mysqlsizes/pkg/config"
	"github.com/mysqlsizes/mysqlsizes/pkg/core"
	"github.com/mysqlsizes/mysqlsizes/pkg/filters"
)

type recordingSink struct {
	batches [][]core.MetricPoint
	fail    bool
}

func (s *recordingSink) Send(points []core.MetricPoint) error {
	if s.fail {
		return errors.New("sink down")
	}
	s.batches = append(s.batches, points)
	return nil
}

func (s *recordingSink) Close() error { return nil }

func (s *recordingSink) paths() []string {
	var out []string
	for _, batch := range s.batches {
		for _, p := range batch {
			out = append(out, p.String())
		}
	}
	return out
}

func statsRow(schema, table string, rows, data, index, free int64) core.TableStatsRow {
	return core.TableStatsRow{
		Schema: schema, Table: table,
		Rows: n(rows), DataBytes: n(data), IndexBytes: n(index), FreeBytes: n(free),
	}
}

func TestCycleFailingTargetIsolated(t *testing.T) {
	assert := assert.New(t)

	targets := []config.Target{
		{Section: "s1", Host: "h1"},
		{Section: "s2", Host: "h2"},
	}
	sink := &recordingSink{}
	cycle := &Cycle{
		Hostname: "coll",
		Sink:     sink,
		FetchFunc: func(t config.Target) ([]core.TableStatsRow, error) {
			if t.Host == "h1" {
				return nil, newError(ErrConnection, t, errors.New("connect timeout"))
			}
			return []core.TableStatsRow{statsRow("app", "users", 1, 2, 3, 4)}, nil
		},
	}

	stats := cycle.Run(targets, time.Unix(1500000000, 0))
	assert.Equal(2, stats.Targets)
	assert.Equal(1, stats.Failed)
	assert.Equal(4, stats.Points)

	// Only the healthy target contributed, under its own alias.
	require.Equal(t, 1, len(sink.batches))
	assert.Equal("servers.coll.mysql.s2.size.app.users.table_rows", sink.paths()[0])
}

func TestCycleAppliesFilterRules(t *testing.T) {
	assert := assert.New(t)

	targets := []config.Target{{Section: "", Host: "h1"}}
	sink := &recordingSink{}
	cycle := &Cycle{
		Hostname: "coll",
		Sink:     sink,
		// Whitelist beats blacklist outright, even on the same name.
		Rules: filters.NewRules([]string{"table_rows"}, []string{"table_rows", "data_free"}),
		FetchFunc: func(config.Target) ([]core.TableStatsRow, error) {
			return []core.TableStatsRow{statsRow("app", "users", 100, 2048, 512, 9)}, nil
		},
	}

	stats := cycle.Run(targets, time.Unix(1500000000, 0))
	assert.Equal(1, stats.Points)
	assert.Equal(3, stats.Filtered)
	assert.Equal([]string{"servers.coll.mysql.size.app.users.table_rows"}, sink.paths())
}

func TestCycleStampsTimestamp(t *testing.T) {
	now := time.Unix(1600000000, 0)
	sink := &recordingSink{}
	cycle := &Cycle{
		Hostname: "coll",
		Sink:     sink,
		FetchFunc: func(config.Target) ([]core.TableStatsRow, error) {
			return []core.TableStatsRow{statsRow("a", "b", 1, 1, 1, 1)}, nil
		},
	}
	cycle.Run([]config.Target{{Host: "h1"}}, now)

	require.Equal(t, 1, len(sink.batches))
	for _, p := range sink.batches[0] {
		assert.Equal(t, now, p.Timestamp)
	}
}

func TestCycleSinkFailureCountsAsFailed(t *testing.T) {
	sink := &recordingSink{fail: true}
	cycle := &Cycle{
		Hostname: "coll",
		Sink:     sink,
		FetchFunc: func(config.Target) ([]core.TableStatsRow, error) {
			return []core.TableStatsRow{statsRow("a", "b", 1, 1, 1, 1)}, nil
		},
	}
	stats := cycle.Run([]config.Target{{Host: "h1"}}, time.Now())
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 0, stats.Points)
}

func TestCycleNoTargets(t *testing.T) {
	sink := &recordingSink{}
	cycle := &Cycle{Hostname: "coll", Sink: sink}
	stats := cycle.Run(nil, time.Now())
	assert.Equal(t, 0, stats.Targets)
	assert.Empty(t, sink.batches)
}
