package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/verte-zerg/fundus/internal/model"
)

// ErrItemNotFound is returned when no item has the requested id.
var ErrItemNotFound = errors.New("item not found")

// InsertItem stores a found item and returns its id.
func (s *Store) InsertItem(ctx context.Context, item model.FoundItem) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO items (category, location, description, image_path, found_at) VALUES (?, ?, ?, ?, ?)`,
		item.Category,
		item.Location,
		item.Description,
		item.ImagePath,
		item.FoundAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListItems returns items of a category, newest first. An empty category lists everything.
func (s *Store) ListItems(ctx context.Context, category string) ([]model.FoundItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, category, location, description, image_path, found_at
		 FROM items
		 WHERE (? = '' OR category = ?)
		 ORDER BY id DESC`, category, category)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var items []model.FoundItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// GetItem loads a single item.
func (s *Store) GetItem(ctx context.Context, id int64) (model.FoundItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, category, location, description, image_path, found_at FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.FoundItem{}, ErrItemNotFound
	}
	return item, err
}

// DeleteItem removes an item row.
func (s *Store) DeleteItem(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrItemNotFound
	}
	return nil
}

// CountItemsByCategory returns item counts per stored category.
func (s *Store) CountItemsByCategory(ctx context.Context) ([]model.CategoryCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, COUNT(*) FROM items GROUP BY category ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var counts []model.CategoryCount
	for rows.Next() {
		var cc model.CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, cc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (model.FoundItem, error) {
	var item model.FoundItem
	var foundAt string
	if err := row.Scan(&item.ID, &item.Category, &item.Location, &item.Description, &item.ImagePath, &foundAt); err != nil {
		return model.FoundItem{}, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, foundAt)
	if err != nil {
		return model.FoundItem{}, err
	}
	item.FoundAt = parsed
	return item, nil
}
