package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Layout is one generated location layout
type Layout struct {
	ID         int64
	LocationID int
	Name       string
	Seed       int64
	Attempt    int
	Height     int
	Width      int
	// Render is the diagnostic drawing of the grid
	Render string
	// Data is the finished level record as YAML
	Data      string
	CreatedAt time.Time
}

// defaultListLimit caps ListLayouts when no limit is given
const defaultListLimit = 50

// SaveLayout stores l and returns its id. A zero CreatedAt is set to now.
func (d *Database) SaveLayout(l *Layout) (int64, error) {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	id, err := d.insert(`
		INSERT INTO layouts (location_id, name, seed, attempt, height, width, render, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.LocationID, l.Name, l.Seed, l.Attempt, l.Height, l.Width, l.Render, l.Data, l.CreatedAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to insert layout: %w", err)
	}
	l.ID = id
	return id, nil
}

// GetLayout loads a layout by id
func (d *Database) GetLayout(id int64) (*Layout, error) {
	row := d.db.QueryRow(d.qb.Build(`
		SELECT id, location_id, name, seed, attempt, height, width, render, data, created_at
		FROM layouts WHERE id = ?`), id)
	l, err := scanLayout(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLayoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load layout %d: %w", id, err)
	}
	return l, nil
}

// ListLayouts returns the newest layouts of a location, newest first. A
// negative locationID lists every location.
func (d *Database) ListLayouts(locationID, limit int) ([]Layout, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	query := `
		SELECT id, location_id, name, seed, attempt, height, width, render, data, created_at
		FROM layouts`
	args := []any{}
	if locationID >= 0 {
		query += ` WHERE location_id = ?`
		args = append(args, locationID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := d.db.Query(d.qb.Build(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query layouts: %w", err)
	}
	defer rows.Close()

	var out []Layout
	for rows.Next() {
		l, err := scanLayout(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan layout: %w", err)
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLayout(s scanner) (*Layout, error) {
	var l Layout
	var created int64
	err := s.Scan(&l.ID, &l.LocationID, &l.Name, &l.Seed, &l.Attempt,
		&l.Height, &l.Width, &l.Render, &l.Data, &created)
	if err != nil {
		return nil, err
	}
	l.CreatedAt = time.Unix(created, 0)
	return &l, nil
}
