package db

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/packfinderz-shipping/pkg/config"
	"github.com/angelmondragon/packfinderz-shipping/pkg/logger"
)

type testModel struct {
	ID   int
	Name string
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&testModel{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func TestWithTx_CommitsAndRollbacks(t *testing.T) {
	db := newTestDB(t)
	client := &Client{conn: db}

	ctx := context.Background()
	if err := client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&testModel{Name: "committed"}).Error
	}); err != nil {
		t.Fatalf("WithTx commit failed: %v", err)
	}

	var count int64
	if err := db.Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record, got %d", count)
	}

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&testModel{Name: "rolled"}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected WithTx to return an error")
	}
	if err := db.Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed after rollback: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected rollback to leave 1 record, got %d", count)
	}
}

func TestPing(t *testing.T) {
	db := newTestDB(t)
	client := &Client{conn: db}
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
}

func TestNewOpensSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	client, err := New(context.Background(), config.DBConfig{Driver: config.DriverSQLite, SQLitePath: path}, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
	if client.DB().Dialector.Name() != "sqlite" {
		t.Fatalf("expected sqlite dialector, got %s", client.DB().Dialector.Name())
	}
}

func TestNewRequiresDSNForPostgres(t *testing.T) {
	if _, err := New(context.Background(), config.DBConfig{Driver: config.DriverPostgres}, nil); err == nil {
		t.Fatal("expected missing DSN error")
	}
	if _, err := dialectorFor(config.DBConfig{Driver: config.DriverSQLite}); err == nil {
		t.Fatal("expected missing sqlite path error")
	}
}

func TestSQLiteDSNAddsPragmas(t *testing.T) {
	if got := sqliteDSN("catalog.db"); got != "catalog.db?_foreign_keys=on&_busy_timeout=5000" {
		t.Fatalf("unexpected dsn %q", got)
	}
	if got := sqliteDSN("file::memory:?cache=shared"); got != "file::memory:?cache=shared" {
		t.Fatalf("explicit parameters must be kept, got %q", got)
	}
}

func TestQueryLoggerReportsFailuresAndSlowQueries(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf})
	ql := newQueryLogger(logg, 10*time.Millisecond)

	ctx := context.Background()
	sqlFn := func() (string, int64) { return "SELECT * FROM products", 3 }

	ql.Trace(ctx, time.Now(), sqlFn, gorm.ErrRecordNotFound)
	if buf.Len() != 0 {
		t.Fatalf("record not found should be silent, got %s", buf.String())
	}

	ql.Trace(ctx, time.Now(), sqlFn, errors.New("relation does not exist"))
	if !strings.Contains(buf.String(), "db.query_failed") {
		t.Fatalf("expected failure entry, got %s", buf.String())
	}

	buf.Reset()
	ql.Trace(ctx, time.Now().Add(-time.Second), sqlFn, nil)
	if !strings.Contains(buf.String(), "db.slow_query") || !strings.Contains(buf.String(), `"rows":3`) {
		t.Fatalf("expected slow query entry, got %s", buf.String())
	}

	buf.Reset()
	ql.LogMode(gormlogger.Silent).Trace(ctx, time.Now().Add(-time.Second), sqlFn, errors.New("x"))
	if buf.Len() != 0 {
		t.Fatalf("silent mode should not log, got %s", buf.String())
	}
}

func TestSQLOnUninitializedClient(t *testing.T) {
	var client *Client
	if _, err := client.SQL(); err == nil {
		t.Fatal("expected error for nil client")
	}
}
