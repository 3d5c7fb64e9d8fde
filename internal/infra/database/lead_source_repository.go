package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/leadgen-io/leadgen-api/internal/entity"
)

type LeadSourceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewLeadSourceRepository(db *sql.DB, logger *zap.Logger) *LeadSourceRepository {
	return &LeadSourceRepository{db: db, logger: logger}
}

const sourceColumns = "id, name, type, icon, color, description, is_active, created_at"

func scanSource(row rowScanner) (*entity.LeadSource, error) {
	var s entity.LeadSource
	var icon, color, description sql.NullString
	err := row.Scan(&s.ID, &s.Name, &s.Type, &icon, &color, &description, &s.IsActive, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.Icon = icon.String
	s.Color = color.String
	s.Description = description.String
	return &s, nil
}

// List returns sources ordered by name, optionally only the active ones.
func (r *LeadSourceRepository) List(ctx context.Context, activeOnly bool) ([]*entity.LeadSource, error) {
	query := "SELECT " + sourceColumns + " FROM lead_sources"
	if activeOnly {
		query += " WHERE is_active"
	}
	query += " ORDER BY name ASC"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, entity.NewStorageError("list sources", err)
	}
	defer rows.Close()

	sources := make([]*entity.LeadSource, 0)
	for rows.Next() {
		s, err := scanSource(rows)
		if err != nil {
			return nil, entity.NewStorageError("scan source", err)
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

func (r *LeadSourceRepository) GetByID(ctx context.Context, id int64) (*entity.LeadSource, error) {
	s, err := scanSource(r.db.QueryRowContext(ctx,
		"SELECT "+sourceColumns+" FROM lead_sources WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrNotFound
		}
		return nil, entity.NewStorageError("get source", err)
	}
	return s, nil
}

func (r *LeadSourceRepository) Create(ctx context.Context, s *entity.LeadSource) (int64, error) {
	query := `
		INSERT INTO lead_sources (name, type, icon, color, description, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		s.Name, s.Type, s.Icon, s.Color, nullString(s.Description), s.IsActive,
	).Scan(&id)
	if err != nil {
		return 0, entity.NewStorageError("create source", err)
	}
	s.ID = id
	return id, nil
}

// Update applies a partial edit and returns the reloaded source.
func (r *LeadSourceRepository) Update(ctx context.Context, id int64, upd entity.LeadSourceUpdate) (*entity.LeadSource, error) {
	var sets []string
	var args []any
	idx := 1

	set := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}

	if upd.Name != nil {
		set("name", *upd.Name)
	}
	if upd.Type != nil {
		set("type", *upd.Type)
	}
	if upd.Icon != nil {
		set("icon", *upd.Icon)
	}
	if upd.Color != nil {
		set("color", *upd.Color)
	}
	if upd.Description != nil {
		set("description", nullString(*upd.Description))
	}
	if upd.IsActive != nil {
		set("is_active", *upd.IsActive)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	query := fmt.Sprintf("UPDATE lead_sources SET %s WHERE id = $%d", strings.Join(sets, ", "), idx)
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, entity.NewStorageError("update source", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, entity.NewStorageError("update source", err)
	}
	if affected == 0 {
		return nil, entity.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

// Delete removes a source that no lead references. A source with leads is
// deactivated instead, so historical leads keep a valid reference.
func (r *LeadSourceRepository) Delete(ctx context.Context, id int64) error {
	var leadCount int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM leads WHERE source_id = $1", id).Scan(&leadCount)
	if err != nil {
		return entity.NewStorageError("delete source", err)
	}

	if leadCount > 0 {
		_, err = r.db.ExecContext(ctx, "UPDATE lead_sources SET is_active = FALSE WHERE id = $1", id)
	} else {
		_, err = r.db.ExecContext(ctx, "DELETE FROM lead_sources WHERE id = $1", id)
	}
	if err != nil {
		return entity.NewStorageError("delete source", err)
	}
	return nil
}
