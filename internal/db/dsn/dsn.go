// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/apota/mydms-sub010/internal/config"
)

// Create builds the Data Source Name of the configured gorm engine.
func Create(dbCfg *config.DB) string {
	switch dbCfg.GormEngine {
	case config.DBEnginePostgres:
		return Postgres(dbCfg)
	case config.DBEngineMySQL:
		return MySQL(dbCfg)
	default:
		return SQLite(dbCfg)
	}
}

// MySQL builds user:password@tcp(host:port)/name?extras.
func MySQL(dbCfg *config.DB) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.Name,
		dbCfg.Extras,
	)
}

// Postgres builds a postgres:// url, accepted by gorm and the session storage.
func Postgres(dbCfg *config.DB) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(dbCfg.User, dbCfg.Password),
		Host:     dbCfg.Host + ":" + strconv.Itoa(dbCfg.Port),
		Path:     "/" + dbCfg.Name,
		RawQuery: dbCfg.Extras,
	}

	return u.String()
}

// SQLitePragmas enables foreign keys, cascading deletes depend on them.
const SQLitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// SQLite returns the database file with pragmas, an empty path means a
// private in-memory database.
func SQLite(dbCfg *config.DB) string {
	path := dbCfg.Path
	if path == "" {
		path = ":memory:"
	}

	return path + "?" + SQLitePragmas
}
