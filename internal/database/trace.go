package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	proxy "github.com/shogo82148/go-sql-proxy"
)

var (
	traceMu         sync.Mutex
	registeredTrace = map[string]bool{}
)

// driverName returns base, or a tracing wrapper around it that logs every
// statement at debug level. Wrappers are registered once per process and keep
// the logger they were first registered with.
func driverName(base string, trace bool, logger zerolog.Logger) string {
	if !trace {
		return base
	}

	name := base + "-trace"
	traceMu.Lock()
	defer traceMu.Unlock()
	if registeredTrace[name] {
		return name
	}

	var d driver.Driver
	switch base {
	case "postgres":
		d = &pq.Driver{}
	default:
		d = &sqlite3.SQLiteDriver{}
	}

	t := &tracer{logger: logger.With().Str("component", "sqltrace").Logger()}
	sql.Register(name, proxy.NewProxyContext(d, &proxy.HooksContext{
		PreExec:   t.pre,
		PostExec:  t.postExec,
		PreQuery:  t.pre,
		PostQuery: t.postQuery,
	}))
	registeredTrace[name] = true
	return name
}

type tracer struct {
	logger zerolog.Logger
}

func (t *tracer) pre(_ context.Context, _ *proxy.Stmt, _ []driver.NamedValue) (interface{}, error) {
	return time.Now(), nil
}

func (t *tracer) postExec(_ context.Context, ctx interface{}, stmt *proxy.Stmt, args []driver.NamedValue, result driver.Result, err error) error {
	var affected int64
	if result != nil {
		n, rerr := result.RowsAffected()
		if rerr != nil {
			return fmt.Errorf("error driver.Result.RowsAffected at postExec: %w", rerr)
		}
		affected = n
	}
	t.log(ctx.(time.Time), stmt, args, err).
		Int64("affected_rows", affected).
		Msg("sql exec")
	return nil
}

func (t *tracer) postQuery(_ context.Context, ctx interface{}, stmt *proxy.Stmt, args []driver.NamedValue, _ driver.Rows, err error) error {
	t.log(ctx.(time.Time), stmt, args, err).Msg("sql query")
	return nil
}

func (t *tracer) log(start time.Time, stmt *proxy.Stmt, args []driver.NamedValue, err error) *zerolog.Event {
	values := make([]any, 0, len(args))
	for _, arg := range args {
		values = append(values, arg.Value)
	}
	return t.logger.Debug().
		Err(err).
		Str("statement", stmt.QueryString).
		Interface("args", values).
		Dur("query_time", time.Since(start))
}
