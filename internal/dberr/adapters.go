package dberr

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tbourn/go-billing-errors/internal/failure"
)

// sqliteCoder matches driver errors that expose a numeric result code
// (the pure-Go SQLite driver does).
type sqliteCoder interface {
	error
	Code() int
}

// sqliteMarkers identify SQLite driver text when the error value carries no
// usable type (e.g. after gorm re-wrapping).
var sqliteMarkers = []string{
	"constraint failed",
	"database is locked",
	"database table is locked",
	"sql logic error",
	"no such table",
	"no such column",
	"unable to open database",
	"business_rule:",
}

// FromError adapts a raw database error into failure.Database. The second
// result is false when err is not recognizably a database-engine failure.
func FromError(err error) (failure.Database, bool) {
	if err == nil {
		return failure.Database{}, false
	}

	var db failure.Database
	if errors.As(err, &db) {
		return db, true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		state := ""
		if myErr.SQLState != [5]byte{} {
			state = string(myErr.SQLState[:])
		}
		return failure.Database{
			Dialect: DialectMySQL,
			State:   state,
			Code:    int(myErr.Number),
			Message: myErr.Error(),
			Cause:   err,
		}, true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		msg := pgErr.Message
		if pgErr.Detail != "" {
			msg += "\n" + pgErr.Detail
		}
		return failure.Database{
			Dialect: DialectPostgres,
			State:   pgErr.Code,
			Message: msg,
			Cause:   err,
		}, true
	}

	return fromSQLite(err)
}

func fromSQLite(err error) (failure.Database, bool) {
	msg := err.Error()
	code := 0

	var coder sqliteCoder
	typed := errors.As(err, &coder)
	if typed {
		code = coder.Code()
	}
	if !typed && !hasSQLiteMarker(msg) {
		return failure.Database{}, false
	}
	return failure.Database{
		Dialect: DialectSQLite,
		State:   sqliteState(msg),
		Code:    code,
		Message: msg,
		Cause:   err,
	}, true
}

func hasSQLiteMarker(msg string) bool {
	low := strings.ToLower(msg)
	for _, m := range sqliteMarkers {
		if strings.Contains(low, m) {
			return true
		}
	}
	return false
}

// sqliteState assigns a SQLSTATE-style class to SQLite driver text so the
// shared rules can run against it.
func sqliteState(msg string) string {
	low := strings.ToLower(msg)
	switch {
	case SQLite.TriggerMarker.MatchString(msg):
		return "45000"
	case strings.Contains(low, "constraint failed"):
		return "23000"
	case strings.Contains(low, "is locked"), strings.Contains(low, "database is busy"):
		return "40001"
	case strings.Contains(low, "syntax error"), strings.Contains(low, "no such table"),
		strings.Contains(low, "no such column"), strings.Contains(low, "sql logic error"):
		return "42000"
	case strings.Contains(low, "unable to open database"), strings.Contains(low, "disk i/o error"):
		return "08000"
	default:
		return "HY000"
	}
}
