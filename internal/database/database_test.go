package database

import (
	"context"
	"strings"
	"testing"

	"github.com/go-sql-driver/mysql"
)

func TestMySQLConfig_DSN(t *testing.T) {
	dsn := MySQLConfig{
		Addr:     "db.internal:3306",
		User:     "reporter",
		Password: "p@ss/word",
		DBName:   "wordpress",
	}.DSN()

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		t.Fatalf("ParseDSN(%q): %v", dsn, err)
	}
	if cfg.Net != "tcp" {
		t.Errorf("Expected net tcp, got %q", cfg.Net)
	}
	if cfg.Addr != "db.internal:3306" {
		t.Errorf("Expected addr db.internal:3306, got %q", cfg.Addr)
	}
	if cfg.Passwd != "p@ss/word" {
		t.Errorf("Password did not round-trip: %q", cfg.Passwd)
	}
	if cfg.DBName != "wordpress" {
		t.Errorf("Expected db wordpress, got %q", cfg.DBName)
	}
}

func TestWithTunnel(t *testing.T) {
	dsn, err := WithTunnel("reporter:secret@tcp(10.0.0.5:3306)/wordpress")
	if err != nil {
		t.Fatalf("WithTunnel: %v", err)
	}
	if !strings.Contains(dsn, TunnelNetwork+"(10.0.0.5:3306)") {
		t.Errorf("Expected tunnel network in dsn, got %q", dsn)
	}

	if _, err := WithTunnel("not a dsn"); err == nil {
		t.Error("Expected invalid dsn to fail")
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	if _, err := Open(context.Background(), "postgres", "postgres://localhost"); err == nil {
		t.Error("Expected unsupported driver error")
	}
}

func TestOpen_SQLiteMemory(t *testing.T) {
	db, err := Open(context.Background(), DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if got := db.Stats().MaxOpenConnections; got != 1 {
		t.Errorf("Expected sqlite pool of 1, got %d", got)
	}
}
