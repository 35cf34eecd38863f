package db

import (
	"path/filepath"
	"testing"

	"facetag/config"
	"facetag/logger"
)

func TestMySQLDSN(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantCharset string
		wantErr     bool
	}{
		{"defaults added", "user:pass@tcp(db:3306)/faces", "utf8mb4", false},
		{"charset kept", "user:pass@tcp(db:3306)/faces?charset=utf8", "utf8", false},
		{"invalid", "user:pass@tcp(db:3306", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn, err := mysqlDSN(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("mysqlDSN() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if !dsn.ParseTime {
				t.Error("parseTime must be enabled")
			}
			if dsn.Params["charset"] != tt.wantCharset {
				t.Errorf("charset = %q, want %q", dsn.Params["charset"], tt.wantCharset)
			}
			if dsn.Addr != "db:3306" || dsn.DBName != "faces" {
				t.Errorf("address = %q, database = %q", dsn.Addr, dsn.DBName)
			}
		})
	}
}

func TestOpenSQLite(t *testing.T) {
	cfg := config.Default()
	cfg.SQLiteFile = filepath.Join(t.TempDir(), "faces.db")
	instance, err := Open(cfg, logger.Discard())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err = Ping(instance); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
	if err = Close(instance); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err = Ping(instance); err == nil {
		t.Error("Ping() after Close() should fail")
	}
}

func TestOpenInvalidDSN(t *testing.T) {
	cfg := config.Default()
	cfg.MySQLDSN = "not a dsn"
	if _, err := Open(cfg, logger.Discard()); err == nil {
		t.Error("Open() with an invalid DSN should fail")
	}
}
