package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
	"github.com/custodia-labs/pipe3d/internal/core/ports/driven"
)

// itemStore implements driven.ItemStore.
type itemStore struct {
	store *Store
}

var _ driven.ItemStore = (*itemStore)(nil)

const itemColumns = `id, source_name, source_size, status, source_preview_id, source_preview_path,
	result_preview_id, result_preview_path, error, created_at, started_at, finished_at`

// Save inserts or replaces an item. Replacing keeps the original position.
func (s *itemStore) Save(ctx context.Context, item domain.ConversionItem) error {
	var resultID, resultPath any
	if item.ResultPreview != nil {
		resultID = item.ResultPreview.ID
		resultPath = item.ResultPreview.Path
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO items (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_name = excluded.source_name,
			source_size = excluded.source_size,
			status = excluded.status,
			source_preview_id = excluded.source_preview_id,
			source_preview_path = excluded.source_preview_path,
			result_preview_id = excluded.result_preview_id,
			result_preview_path = excluded.result_preview_path,
			error = excluded.error,
			created_at = excluded.created_at,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at
	`,
		item.ID,
		item.Source.Name,
		item.Source.Size,
		string(item.Status),
		item.SourcePreview.ID,
		item.SourcePreview.Path,
		resultID,
		resultPath,
		item.Error,
		formatNullableTime(item.CreatedAt),
		formatNullableTime(item.StartedAt),
		formatNullableTime(item.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("saving item %s: %w", item.ID, err)
	}
	return nil
}

// Get retrieves an item by ID.
func (s *itemStore) Get(ctx context.Context, id string) (domain.ConversionItem, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ConversionItem{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.ConversionItem{}, fmt.Errorf("getting item %s: %w", id, err)
	}
	return item, nil
}

// List returns all items in insertion order.
func (s *itemStore) List(ctx context.Context) ([]domain.ConversionItem, error) {
	rows, err := s.store.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM items ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []domain.ConversionItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Delete removes an item.
func (s *itemStore) Delete(ctx context.Context, id string) error {
	if _, err := s.store.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting item %s: %w", id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (domain.ConversionItem, error) {
	var (
		item                  domain.ConversionItem
		status                string
		sourceID, sourcePath  string
		resultID, resultPath  sql.NullString
		createdAt             sql.NullString
		startedAt, finishedAt sql.NullString
	)
	err := row.Scan(
		&item.ID,
		&item.Source.Name,
		&item.Source.Size,
		&status,
		&sourceID,
		&sourcePath,
		&resultID,
		&resultPath,
		&item.Error,
		&createdAt,
		&startedAt,
		&finishedAt,
	)
	if err != nil {
		return domain.ConversionItem{}, err
	}

	item.Status = domain.ItemStatus(status)
	item.SourcePreview = domain.PreviewHandle{
		ID:     sourceID,
		Name:   item.Source.Name,
		Format: domain.FormatGLB,
		Path:   sourcePath,
	}
	if resultID.Valid {
		item.ResultPreview = &domain.PreviewHandle{
			ID:     resultID.String,
			Name:   item.ResultName(),
			Format: domain.FormatFBX,
			Path:   resultPath.String,
		}
	}
	item.CreatedAt = parseNullableTime(createdAt)
	item.StartedAt = parseNullableTime(startedAt)
	item.FinishedAt = parseNullableTime(finishedAt)
	return item, nil
}
