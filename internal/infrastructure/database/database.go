package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
)

// Supported drivers for the database probe.
const (
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
)

// Config holds database connection configuration.
type Config struct {
	Driver          string
	Host            string
	Port            int
	Database        string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectTimeout  time.Duration
}

// Address returns host:port, used when describing the dependency.
func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ConnString builds a keyword/value connection string understood by both pgx and
// lib/pq. Values are single-quoted so spaces, quotes and backslashes survive.
func (c Config) ConnString() string {
	connString := fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s sslmode=%s",
		quoteValue(c.Host),
		c.Port,
		quoteValue(c.Database),
		quoteValue(c.User),
		quoteValue(c.SSLMode),
	)
	if c.Password != "" {
		connString += " password=" + quoteValue(c.Password)
	}
	if secs := int(c.ConnectTimeout.Seconds()); secs > 0 {
		connString += fmt.Sprintf(" connect_timeout=%d", secs)
	}
	return connString
}

var valueEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func quoteValue(v string) string {
	return "'" + valueEscaper.Replace(v) + "'"
}

// NewPool creates a PostgreSQL connection pool. The pool connects lazily so the
// gateway can start while the database is still down.
func NewPool(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"%s pool_max_conns=%d pool_min_conns=0 pool_max_conn_lifetime=%s",
		cfg.ConnString(),
		max(cfg.MaxOpenConns, 1),
		cfg.ConnMaxLifetime,
	)

	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	return pool, nil
}

// OpenSQL opens a database/sql handle backed by lib/pq. Like NewPool it does not
// dial until first use.
func OpenSQL(cfg Config) (*sql.DB, error) {
	db, err := sql.Open(DriverPostgres, cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(max(cfg.MaxOpenConns, 1))
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}
