package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func captureSlog(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(previous) })

	return &buf
}

func TestSlogGormLogger_Trace(t *testing.T) {
	query := func() (string, int64) { return "SELECT * FROM content_items", 0 }

	tests := []struct {
		name    string
		level   gormLogger.LogLevel
		elapsed time.Duration
		err     error
		wantMsg string
	}{
		{name: "query error", level: gormLogger.Warn, err: errors.New("disk I/O error"), wantMsg: "sqlite query failed"},
		{name: "record not found", level: gormLogger.Warn, err: gorm.ErrRecordNotFound},
		{name: "slow query", level: gormLogger.Warn, elapsed: 2 * time.Second, wantMsg: "slow sqlite query"},
		{name: "fast query at warn", level: gormLogger.Warn},
		{name: "silent", level: gormLogger.Silent, err: errors.New("disk I/O error")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureSlog(t)
			l := newSlogGormLogger(gormLogger.Warn).LogMode(tt.level)

			l.Trace(context.Background(), time.Now().Add(-tt.elapsed), query, tt.err)

			if tt.wantMsg == "" {
				if buf.Len() != 0 {
					t.Errorf("expected no output, got %s", buf.String())
				}
				return
			}

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("failed to decode log line %q: %v", buf.String(), err)
			}
			if entry["msg"] != tt.wantMsg {
				t.Errorf("msg: got %v, want %s", entry["msg"], tt.wantMsg)
			}
			if entry["component"] != "gorm" {
				t.Errorf("component: got %v, want gorm", entry["component"])
			}
			if !strings.Contains(entry["sql"].(string), "content_items") {
				t.Errorf("sql: got %v", entry["sql"])
			}
		})
	}
}

func TestSlogGormLogger_Warn(t *testing.T) {
	buf := captureSlog(t)

	newSlogGormLogger(gormLogger.Warn).Warn(context.Background(), "deprecated %s", "option")
	newSlogGormLogger(gormLogger.Warn).Info(context.Background(), "ignored at warn")

	if !strings.Contains(buf.String(), "deprecated option") {
		t.Errorf("expected warn output, got %s", buf.String())
	}
	if strings.Contains(buf.String(), "ignored at warn") {
		t.Errorf("info should be filtered at warn level, got %s", buf.String())
	}
}
