package configlibsql

import (
	"context"
	devenv "dailyreading-backend/dev/env"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Struct describes either a local sqlite file or a remote libsql server,
// a non-empty Url always takes precedence over File.
type Struct struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

// WithEnv returns a copy of the config where <prefix>_FILE, <prefix>_URL and
// <prefix>_AUTH_TOKEN override their fields when they are set.
func (config Struct) WithEnv(prefix string) Struct {
	if v := os.Getenv(prefix + "_FILE"); v != "" {
		config.File = v
	}
	if v := os.Getenv(prefix + "_URL"); v != "" {
		config.Url = v
	}
	if v := os.Getenv(prefix + "_AUTH_TOKEN"); v != "" {
		config.AuthToken = v
	}
	return config
}

func (config Struct) open() (*sql.DB, error) {
	if config.Url != "" {
		values := url.Values{}
		if config.AuthToken != "" {
			values.Add("authToken", config.AuthToken)
		}
		dsn := config.Url
		if len(values) > 0 {
			dsn += "?" + values.Encode()
		}
		return sql.Open("libsql", dsn)
	}

	if config.File == "" {
		return nil, fmt.Errorf("neither a file nor a url was specified")
	}
	if config.File == ":memory:" {
		db, err := sql.Open("sqlite", ":memory:")
		if err != nil {
			return nil, err
		}
		// every new connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
		return db, nil
	}
	dbpath, err := devenv.ResolvePath(config.File)
	if err != nil {
		return nil, err
	}
	err = os.MkdirAll(filepath.Dir(dbpath), 0777)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbpath)
	if err != nil {
		return nil, err
	}
	// sqlite only tolerates a single writer, see
	// https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// OpenDB opens the database and applies the given schema, the schema is
// expected to only contain idempotent statements (CREATE ... IF NOT EXISTS).
func (config Struct) OpenDB(ctx context.Context, schema string) (*sql.DB, error) {
	db, err := config.open()
	if err != nil {
		return nil, err
	}
	err = ApplySchema(ctx, db, schema)
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// ApplySchema executes each statement of schema one at a time, remote libsql
// does not accept multiple statements in a single Exec.
func ApplySchema(ctx context.Context, db *sql.DB, schema string) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		_, err := db.ExecContext(ctx, stmt)
		if err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
