package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"portfolio/models"
)

// statusRowID is the fixed key of the singleton status row.
const statusRowID = 1

// GetStatus returns the stored status list. A missing row is an empty list.
func (db *DB) GetStatus(ctx context.Context) ([]models.StatusItem, error) {
	defer db.timed("GetStatus", time.Now())

	var raw []byte
	err := db.Pool.QueryRow(ctx, `SELECT items FROM status WHERE id = $1`, statusRowID).Scan(&raw)
	if err != nil {
		err = wrap("get status", err)
		if errors.Is(err, ErrNotFound) {
			return []models.StatusItem{}, nil
		}
		return nil, err
	}

	items := []models.StatusItem{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("failed to decode status items: %w", err)
		}
	}
	return items, nil
}

// UpsertStatus replaces the whole status list.
func (db *DB) UpsertStatus(ctx context.Context, items []models.StatusItem) error {
	defer db.timed("UpsertStatus", time.Now())

	if items == nil {
		items = []models.StatusItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode status items: %w", err)
	}

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO status (id, items, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET items = EXCLUDED.items, updated_at = NOW()
	`, statusRowID, raw)
	if err != nil {
		return wrap("upsert status", err)
	}
	return nil
}
