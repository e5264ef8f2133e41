package collector

import (
	"database/sql"
	"time"

	"github.com/mysqlsizes/mysqlsizes/pkg/core"
)

// MapRow expands one statistics row into at most four points under
// servers.<hostname>.mysql.[<alias>.]size.<schema>.<table>.<metric>.
// hostname identifies the machine running this collector, not the MySQL
// server; targets are told apart by alias alone. A NULL column means
// "unknown", which is not zero: that field's point is skipped outright.
func MapRow(row core.TableStatsRow, hostname, alias string, now time.Time) []core.MetricPoint {
	fields := []struct {
		name  string
		value sql.NullInt64
	}{
		{core.MetricTableRows, row.Rows},
		{core.MetricDataLength, row.DataBytes},
		{core.MetricIndexLength, row.IndexBytes},
		{core.MetricDataFree, row.FreeBytes},
	}

	points := make([]core.MetricPoint, 0, len(fields))
	for _, f := range fields {
		if !f.value.Valid {
			continue
		}
		points = append(points, core.NewPoint(hostname, alias, row.Schema, row.Table, f.name, float64(f.value.Int64), now))
	}
	return points
}
