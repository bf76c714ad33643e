// Package database holds the sqlx connection helpers, table naming, and the
// read-only statement guard used by the reports. MySQL (and MariaDB) is the
// default driver; sqlite is accepted for offline copies of a network.
package database

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Supported driver names.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// TunnelNetwork is the mysql network name registered by RegisterTunnel.
const TunnelNetwork = "ssh-tunnel"

// Open connects with conservative pool sizes. Reports issue one query at a
// time, so a small pool is enough.
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	return OpenWithOptions(ctx, driver, dsn, 2, 1)
}

// OpenWithOptions lets callers tune maxOpen and maxIdle. The database is
// pinged before returning so bad credentials fail before any report runs.
func OpenWithOptions(ctx context.Context, driver, dsn string, maxOpen, maxIdle int) (*sqlx.DB, error) {
	switch driver {
	case DriverMySQL, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	if driver == DriverSQLite {
		// Each sqlite connection to :memory: is a separate database.
		maxOpen, maxIdle = 1, 1
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach %s database: %w", driver, err)
	}
	return db, nil
}

// MySQLConfig describes a MySQL connection when no raw DSN is given.
type MySQLConfig struct {
	Addr     string
	User     string
	Password string
	DBName   string
	// Net is "tcp" unless the connection goes through RegisterTunnel.
	Net string
}

// DSN formats the config with the mysql driver's own encoder so passwords
// containing '@' or '/' survive.
func (c MySQLConfig) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = c.Net
	if cfg.Net == "" {
		cfg.Net = "tcp"
	}
	cfg.Addr = c.Addr
	cfg.DBName = c.DBName
	return cfg.FormatDSN()
}

// WithTunnel rewrites a raw MySQL DSN so it dials through TunnelNetwork.
func WithTunnel(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid mysql dsn: %w", err)
	}
	cfg.Net = TunnelNetwork
	return cfg.FormatDSN(), nil
}

// RegisterTunnel routes mysql connections on TunnelNetwork through dial.
func RegisterTunnel(dial func(ctx context.Context, network, addr string) (net.Conn, error)) {
	mysql.RegisterDialContext(TunnelNetwork, func(ctx context.Context, addr string) (net.Conn, error) {
		return dial(ctx, "tcp", addr)
	})
}
