package repository

import (
	"context"
	"testing"
)

func setupSQLite(t *testing.T) *SQLiteRepository {
	t.Helper()

	db, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return NewSQLiteRepository(db)
}

func TestSQLiteRepository(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T, s store)
	}{
		{name: "content round trip", run: testContentRoundTrip},
		{name: "reseed keeps delivered content", run: testReseedKeepsDeliveredContent},
		{name: "delivery at most once", run: testDeliveryAtMostOnce},
		{name: "list deliveries", run: testListDeliveries},
		{name: "update delivery status", run: testUpdateDeliveryStatus},
		{name: "delete all deliveries", run: testDeleteAllDeliveries},
		{name: "preferences", run: testPreferences},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.run(t, setupSQLite(t))
		})
	}
}

func TestSQLiteRepository_Ping(t *testing.T) {
	repo := setupSQLite(t)

	if err := repo.Ping(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
