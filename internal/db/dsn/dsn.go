// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/authcore/authcore/internal/config"
)

// Create builds the MySQL Data Source Name from the configuration.
func Create(dbCfg *config.DB) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.Name,
		dbCfg.Extras,
	)
}

// CreatePostgres builds a libpq keyword/value DSN. Extras are appended verbatim, e.g. "sslmode=disable".
func CreatePostgres(dbCfg *config.DB) string {
	out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Name,
	)

	if dbCfg.Extras != "" {
		out += " " + dbCfg.Extras
	}

	return out
}

// CreateSQLite builds the glebarez/sqlite DSN for a database file.
// Foreign keys are switched on so ON DELETE CASCADE is enforced.
func CreateSQLite(dbCfg *config.DB) string {
	pragmas := url.Values{}
	pragmas.Add("_pragma", "foreign_keys(1)")
	pragmas.Add("_pragma", "busy_timeout(5000)")

	out := dbCfg.Path + "?" + pragmas.Encode()

	if extras := strings.TrimPrefix(dbCfg.Extras, "&"); extras != "" {
		out += "&" + extras
	}

	return out
}
