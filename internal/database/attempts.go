package database

import (
	"fmt"
	"time"
)

// Attempt is the outcome of one generation attempt. Stage names the step
// that gave up when Succeeded is false.
type Attempt struct {
	LocationID int
	Seed       int64
	Attempt    int
	Succeeded  bool
	Stage      string
	Duration   time.Duration
	CreatedAt  time.Time
}

// AttemptStats summarizes the attempts recorded for a location
type AttemptStats struct {
	Total     int
	Succeeded int
	// Failures counts failed attempts by stage
	Failures     map[string]int
	MeanDuration time.Duration
}

// SuccessRate is the fraction of attempts that succeeded
func (s AttemptStats) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Succeeded) / float64(s.Total)
}

// RecordAttempt stores one attempt outcome
func (d *Database) RecordAttempt(a Attempt) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	succeeded := 0
	if a.Succeeded {
		succeeded = 1
	}
	_, err := d.insert(`
		INSERT INTO attempts (location_id, seed, attempt, succeeded, stage, duration_us, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.LocationID, a.Seed, a.Attempt, succeeded, a.Stage, a.Duration.Microseconds(), a.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}
	return nil
}

// AttemptStats aggregates every attempt recorded for a location
func (d *Database) AttemptStats(locationID int) (AttemptStats, error) {
	stats := AttemptStats{Failures: make(map[string]int)}

	var total, succeeded, micros int64
	err := d.db.QueryRow(d.qb.Build(`
		SELECT COUNT(*), COALESCE(SUM(succeeded), 0), COALESCE(SUM(duration_us), 0)
		FROM attempts WHERE location_id = ?`), locationID).Scan(&total, &succeeded, &micros)
	if err != nil {
		return stats, fmt.Errorf("failed to query attempt totals: %w", err)
	}
	stats.Total, stats.Succeeded = int(total), int(succeeded)
	if total > 0 {
		stats.MeanDuration = time.Duration(micros/total) * time.Microsecond
	}

	rows, err := d.db.Query(d.qb.Build(`
		SELECT stage, COUNT(*) FROM attempts
		WHERE location_id = ? AND succeeded = 0
		GROUP BY stage`), locationID)
	if err != nil {
		return stats, fmt.Errorf("failed to query attempt failures: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var stage string
		var n int
		if err := rows.Scan(&stage, &n); err != nil {
			return stats, fmt.Errorf("failed to scan attempt failures: %w", err)
		}
		stats.Failures[stage] = n
	}
	return stats, rows.Err()
}
