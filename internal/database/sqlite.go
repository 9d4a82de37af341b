package database

import (
	"database/sql"
	"strings"
	"sync"

	"github.com/mattn/go-sqlite3"
)

// sqliteDriverName is the mattn/go-sqlite3 driver with a Unicode-aware LOWER.
// SQLite's built-in LOWER only folds ASCII, so case-insensitive search on
// non-ASCII text would silently miss.
const sqliteDriverName = "sqlite3_unicode"

var registerSQLiteOnce sync.Once

func registerSQLiteDriver() {
	registerSQLiteOnce.Do(func() {
		sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc("lower", unicodeLower, true)
			},
		})
	})
}

// unicodeLower replaces SQLite's LOWER. NULL stays NULL and non-text values
// pass through unchanged.
func unicodeLower(v interface{}) interface{} {
	switch s := v.(type) {
	case string:
		return strings.ToLower(s)
	case []byte:
		if s == nil {
			return nil
		}
		return strings.ToLower(string(s))
	default:
		return v
	}
}
