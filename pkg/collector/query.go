package collector

import (
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/go-sql-driver/mysql"
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"

	"github.com/mysqlsizes/mysqlsizes/pkg/config"
	"github.com/mysqlsizes/mysqlsizes/pkg/core"
)

// tableStatsQuery pulls the size statistics for every base table outside
// the system schemas. INFORMATION_SCHEMA hides rows the connecting user
// cannot see, so the stats user's grants bound the result.
const tableStatsQuery = `SELECT table_schema, table_name, table_rows, data_length, index_length, data_free
FROM information_schema.tables
WHERE table_type = 'BASE TABLE'
AND table_schema NOT IN ('information_schema', 'performance_schema', 'mysql', 'sys')`

// openConn is replaced by tests to avoid a live server.
var openConn = func(dsn string) (*sql.DB, error) {
	return sql.Open("mysql", dsn)
}

// targetDSN builds the driver DSN. The dial timeout carries the target's
// connection_timeout, which is what bounds a cycle on an unreachable host.
func targetDSN(t config.Target) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?interpolateParams=true&timeout=%ds",
		t.User, t.Password, t.Host, t.Port, url.QueryEscape(t.DB), t.ConnectionTimeout)
}

// Fetch opens one connection to the target, runs the statistics query and
// returns its rows. The connection lives for exactly this call, success
// or failure. Failures come back as *CollectionError tagged with the
// target's host and section; nothing escapes the target boundary.
func Fetch(t config.Target) ([]core.TableStatsRow, error) {
	db, err := openConn(targetDSN(t))
	if err != nil {
		return nil, newError(ErrConnection, t, errors.Trace(err))
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Errorf("[collector] closing connection to %s: %v", t.Host, cerr)
		}
	}()

	// sql.Open does not dial. Ping forces the bounded connection attempt
	// so auth and network failures surface here, not mid-query.
	if err := db.Ping(); err != nil {
		return nil, newError(ErrConnection, t, errors.Trace(err))
	}

	rows, err := db.Query(tableStatsQuery)
	if err != nil {
		return nil, newError(ErrQuery, t, errors.Trace(err))
	}
	defer rows.Close()

	var stats []core.TableStatsRow
	for rows.Next() {
		var r core.TableStatsRow
		if err := rows.Scan(&r.Schema, &r.Table, &r.Rows, &r.DataBytes, &r.IndexBytes, &r.FreeBytes); err != nil {
			return nil, newError(ErrQuery, t, errors.Trace(err))
		}
		stats = append(stats, r)
	}
	if err := rows.Err(); err != nil {
		return nil, newError(ErrQuery, t, errors.Trace(err))
	}
	return stats, nil
}
