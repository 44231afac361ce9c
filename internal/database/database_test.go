package database

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "test.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
	for _, table := range []string{"layouts", "attempts"} {
		var n int
		if err := db.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestOpenWithConfigRejectsUnknownDriver(t *testing.T) {
	if _, err := OpenWithConfig(Config{Driver: "oracle"}); err == nil {
		t.Error("expected an error")
	}
	if _, err := OpenWithConfig(Config{Driver: "sqlite"}); err == nil {
		t.Error("expected an error for an empty sqlite path")
	}
}

func TestSaveAndGetLayout(t *testing.T) {
	db := openTestDB(t)
	created := time.Unix(1700000000, 0)
	l := &Layout{
		LocationID: 5,
		Name:       "goa",
		Seed:       42,
		Attempt:    3,
		Height:     2,
		Width:      3,
		Render:     "┌─┐\n└─┘",
		Data:       "id: 5\n",
		CreatedAt:  created,
	}
	id, err := db.SaveLayout(l)
	if err != nil {
		t.Fatalf("SaveLayout: %v", err)
	}
	if id == 0 || l.ID != id {
		t.Errorf("id = %d, layout id = %d", id, l.ID)
	}

	got, err := db.GetLayout(id)
	if err != nil {
		t.Fatalf("GetLayout: %v", err)
	}
	if *got != *l {
		t.Errorf("GetLayout = %+v, want %+v", got, l)
	}
}

func TestGetLayoutNotFound(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.GetLayout(99); !errors.Is(err, ErrLayoutNotFound) {
		t.Errorf("error = %v, want ErrLayoutNotFound", err)
	}
}

func TestListLayouts(t *testing.T) {
	db := openTestDB(t)
	for i, loc := range []int{1, 2, 1, 1} {
		if _, err := db.SaveLayout(&Layout{LocationID: loc, Seed: int64(i)}); err != nil {
			t.Fatalf("SaveLayout: %v", err)
		}
	}

	tests := []struct {
		name      string
		location  int
		limit     int
		wantSeeds []int64
	}{
		{"one location newest first", 1, 0, []int64{3, 2, 0}},
		{"limited", 1, 2, []int64{3, 2}},
		{"all locations", -1, 0, []int64{3, 2, 1, 0}},
		{"unknown location", 7, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.ListLayouts(tt.location, tt.limit)
			if err != nil {
				t.Fatalf("ListLayouts: %v", err)
			}
			if len(got) != len(tt.wantSeeds) {
				t.Fatalf("got %d layouts, want %d", len(got), len(tt.wantSeeds))
			}
			for i, l := range got {
				if l.Seed != tt.wantSeeds[i] {
					t.Errorf("layout %d seed = %d, want %d", i, l.Seed, tt.wantSeeds[i])
				}
			}
		})
	}
}

func TestAttemptStats(t *testing.T) {
	db := openTestDB(t)
	attempts := []Attempt{
		{LocationID: 5, Attempt: 0, Stage: "connect", Duration: 2 * time.Millisecond},
		{LocationID: 5, Attempt: 1, Stage: "connect", Duration: 4 * time.Millisecond},
		{LocationID: 5, Attempt: 2, Stage: "finish", Duration: 6 * time.Millisecond},
		{LocationID: 5, Attempt: 3, Succeeded: true, Duration: 8 * time.Millisecond},
		{LocationID: 6, Attempt: 0, Succeeded: true},
	}
	for _, a := range attempts {
		if err := db.RecordAttempt(a); err != nil {
			t.Fatalf("RecordAttempt: %v", err)
		}
	}

	stats, err := db.AttemptStats(5)
	if err != nil {
		t.Fatalf("AttemptStats: %v", err)
	}
	if stats.Total != 4 || stats.Succeeded != 1 {
		t.Errorf("total/succeeded = %d/%d, want 4/1", stats.Total, stats.Succeeded)
	}
	if stats.Failures["connect"] != 2 || stats.Failures["finish"] != 1 || len(stats.Failures) != 2 {
		t.Errorf("failures = %v", stats.Failures)
	}
	if stats.MeanDuration != 5*time.Millisecond {
		t.Errorf("mean duration = %v, want 5ms", stats.MeanDuration)
	}
	if got := stats.SuccessRate(); got != 0.25 {
		t.Errorf("success rate = %v, want 0.25", got)
	}

	empty, err := db.AttemptStats(9)
	if err != nil {
		t.Fatalf("AttemptStats: %v", err)
	}
	if empty.Total != 0 || empty.SuccessRate() != 0 {
		t.Errorf("empty stats = %+v", empty)
	}
}
