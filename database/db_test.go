package database

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/kbukum/voicemention/component"
	apperrors "github.com/kbukum/voicemention/errors"
)

type note struct {
	ID   int64 `gorm:"primaryKey"`
	Text string
}

func memoryConfig() Config {
	return Config{Enabled: true, DSN: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1, AutoMigrate: true, LogLevel: "silent"}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.DSN != "voicemention.db" {
		t.Errorf("expected default dsn, got %q", cfg.DSN)
	}
	if cfg.MaxRetries != 3 || cfg.SlowQueryThreshold != 200*time.Millisecond || cfg.LogLevel != "warn" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	base := func() Config {
		c := Config{Enabled: true}
		c.ApplyDefaults()
		return c
	}
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"disabled skips checks", func(c *Config) { c.Enabled = false; c.DSN = "" }, ""},
		{"missing dsn", func(c *Config) { c.DSN = "" }, "dsn is required"},
		{"idle over open", func(c *Config) { c.MaxIdleConns = 10 }, "max_idle_conns"},
		{"negative lifetime", func(c *Config) { c.ConnMaxLifetime = -time.Minute }, "durations"},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("expected error containing %q, got %v", tt.errMsg, err)
			}
		})
	}
}

func TestComponentLifecycle(t *testing.T) {
	ctx := context.Background()
	c := NewComponent(memoryConfig(), nil).WithAutoMigrate(&note{})

	if h := c.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if h := c.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %s (%s)", h.Status, h.Message)
	}
	if !c.DB().IsAvailable(ctx) {
		t.Error("expected db available")
	}
	if err := c.DB().WithContext(ctx).Create(&note{ID: 1, Text: "migrated"}).Error; err != nil {
		t.Fatalf("expected migrated table: %v", err)
	}
	if !strings.Contains(c.Describe().Details, "auto-migrate=on") {
		t.Errorf("unexpected description %q", c.Describe().Details)
	}

	if err := c.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if c.DB().IsAvailable(ctx) {
		t.Error("expected db unavailable after stop")
	}
	if err := c.DB().Close(); err != nil {
		t.Errorf("expected second close to be a no-op, got %v", err)
	}
}

func TestWithTransaction(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, memoryConfig(), nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()
	if err := db.AutoMigrate(&note{}); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}

	boom := errors.New("boom")
	err = db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&note{ID: 1, Text: "rolled back"}).Error; err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	var count int64
	db.WithContext(ctx).Model(&note{}).Count(&count)
	if count != 0 {
		t.Errorf("expected rollback, found %d rows", count)
	}

	if err := db.WithTransaction(ctx, func(tx *gorm.DB) error {
		return tx.Create(&note{ID: 2, Text: "kept"}).Error
	}); err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	db.WithContext(ctx).Model(&note{}).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 row, got %d", count)
	}
}

func TestFromDatabase(t *testing.T) {
	if FromDatabase(nil, "chat") != nil {
		t.Error("expected nil for nil")
	}
	if got := FromDatabase(gorm.ErrRecordNotFound, "chat"); got.Code != apperrors.ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", got.Code)
	}
	if got := FromDatabase(gorm.ErrDuplicatedKey, "chat"); got.Code != apperrors.ErrCodeAlreadyExists {
		t.Errorf("expected ALREADY_EXISTS, got %s", got.Code)
	}
	busy := FromDatabase(errors.New("database is locked"), "chat")
	if !busy.Retryable || busy.Code != apperrors.ErrCodeDatabaseError {
		t.Errorf("expected retryable database error, got %+v", busy)
	}
	if got := FromDatabase(errors.New("syntax error"), "chat"); got.Code != apperrors.ErrCodeDatabaseError {
		t.Errorf("expected DATABASE_ERROR, got %s", got.Code)
	}
}
