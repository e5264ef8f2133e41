package core

import (
	"strconv"
	"strings"
	"time"
)

// The four size statistics tracked per table, named after the
// INFORMATION_SCHEMA.TABLES columns they come from.
const (
	MetricTableRows   = "table_rows"
	MetricDataLength  = "data_length"
	MetricIndexLength = "index_length"
	MetricDataFree    = "data_free"
)

// MetricNames lists every metric name this collector can emit.
var MetricNames = []string{MetricTableRows, MetricDataLength, MetricIndexLength, MetricDataFree}

// MetricPoint is one (path, value, timestamp) observation ready for emission.
type MetricPoint struct {
	Path      []string
	Value     float64
	Timestamp time.Time
}

// NewPoint builds a point under the canonical path
// servers.<hostname>.mysql.[<alias>.]size.<schema>.<table>.<metric>.
// The alias segment is omitted entirely when alias is empty.
func NewPoint(hostname, alias, schema, table, metric string, value float64, ts time.Time) MetricPoint {
	path := make([]string, 0, 8)
	path = append(path, "servers", hostname, "mysql")
	if alias != "" {
		path = append(path, alias)
	}
	path = append(path, "size", schema, table, metric)
	return MetricPoint{Path: path, Value: value, Timestamp: ts}
}

// Name returns the bare metric name, the last path segment.
func (p MetricPoint) Name() string {
	if len(p.Path) == 0 {
		return ""
	}
	return p.Path[len(p.Path)-1]
}

// String returns the dotted path.
func (p MetricPoint) String() string {
	return strings.Join(p.Path, ".")
}

// FormatValue renders the value the way wire protocols want it: integral
// values without a fraction, everything else in shortest form.
func (p MetricPoint) FormatValue() string {
	return strconv.FormatFloat(p.Value, 'f', -1, 64)
}
