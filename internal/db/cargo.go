package db

import (
	"fmt"

	"uex-hauler/internal/engine"
)

// ListCargoItems returns the persisted cargo hold in insertion order.
func (d *DB) ListCargoItems() ([]engine.CargoItem, error) {
	rows, err := d.sql.Query("SELECT id, commodity_id, commodity_name, scu, is_hot FROM cargo_items ORDER BY position, rowid")
	if err != nil {
		return nil, fmt.Errorf("list cargo: %w", err)
	}
	defer rows.Close()

	items := []engine.CargoItem{}
	for rows.Next() {
		var item engine.CargoItem
		var hot int
		if err := rows.Scan(&item.ID, &item.CommodityID, &item.CommodityName, &item.SCU, &hot); err != nil {
			return nil, fmt.Errorf("scan cargo: %w", err)
		}
		item.IsHot = hot != 0
		items = append(items, item)
	}
	return items, rows.Err()
}

// InsertCargoItem appends one item at the end of the hold.
func (d *DB) InsertCargoItem(item engine.CargoItem) error {
	hot := 0
	if item.IsHot {
		hot = 1
	}
	_, err := d.sql.Exec(`
		INSERT INTO cargo_items (id, commodity_id, commodity_name, scu, is_hot, position)
		VALUES (?, ?, ?, ?, ?, COALESCE((SELECT MAX(position) + 1 FROM cargo_items), 0))`,
		item.ID, item.CommodityID, item.CommodityName, item.SCU, hot)
	if err != nil {
		return fmt.Errorf("insert cargo: %w", err)
	}
	return nil
}

// UpdateCargoItem rewrites an existing item in place. Unknown IDs are a no-op.
func (d *DB) UpdateCargoItem(item engine.CargoItem) error {
	hot := 0
	if item.IsHot {
		hot = 1
	}
	_, err := d.sql.Exec(
		"UPDATE cargo_items SET commodity_id = ?, commodity_name = ?, scu = ?, is_hot = ? WHERE id = ?",
		item.CommodityID, item.CommodityName, item.SCU, hot, item.ID)
	if err != nil {
		return fmt.Errorf("update cargo: %w", err)
	}
	return nil
}

// DeleteCargoItem removes one item by ID.
func (d *DB) DeleteCargoItem(id string) error {
	if _, err := d.sql.Exec("DELETE FROM cargo_items WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete cargo: %w", err)
	}
	return nil
}

// ClearCargo empties the hold.
func (d *DB) ClearCargo() error {
	if _, err := d.sql.Exec("DELETE FROM cargo_items"); err != nil {
		return fmt.Errorf("clear cargo: %w", err)
	}
	return nil
}
