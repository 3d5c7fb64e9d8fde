package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/leadgen-io/leadgen-api/internal/entity"
)

// querier is satisfied by both *sql.DB and *sql.Tx, so the same repository
// code runs inside and outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type LeadRepository struct {
	db     querier
	pool   *sql.DB // nil when bound to a transaction
	logger *zap.Logger
}

func NewLeadRepository(db *sql.DB, logger *zap.Logger) *LeadRepository {
	return &LeadRepository{db: db, pool: db, logger: logger}
}

const leadColumns = `
	l.id, l.name, l.email, l.phone, l.company, l.website, l.address, l.city,
	l.state, l.country, l.postal_code, l.source_id, l.source, l.status,
	l.score, l.is_verified, l.tags, l.notes, l.custom_fields, l.assigned_to,
	l.created_by, l.created_at, l.updated_at, l.last_contacted_at, l.converted_at,
	ls.name, ls.icon, ls.color`

const leadFrom = ` FROM leads l LEFT JOIN lead_sources ls ON l.source_id = ls.id`

// buildLeadFilters turns the optional predicates into an AND'ed WHERE
// clause. Absent predicates impose no constraint.
func buildLeadFilters(f entity.LeadFilters) (string, []any) {
	var where []string
	var args []any
	idx := 1

	if f.Status != "" {
		where = append(where, fmt.Sprintf("l.status = $%d", idx))
		args = append(args, f.Status)
		idx++
	}
	if f.Source != "" {
		where = append(where, fmt.Sprintf("l.source = $%d", idx))
		args = append(args, f.Source)
		idx++
	}
	if f.Search != "" {
		where = append(where, fmt.Sprintf("(l.name ILIKE $%d OR l.email ILIKE $%d OR l.company ILIKE $%d)", idx, idx+1, idx+2))
		term := "%" + f.Search + "%"
		args = append(args, term, term, term)
		idx += 3
	}
	if f.DateFrom != "" {
		where = append(where, fmt.Sprintf("l.created_at::date >= $%d", idx))
		args = append(args, f.DateFrom)
		idx++
	}
	if f.DateTo != "" {
		where = append(where, fmt.Sprintf("l.created_at::date <= $%d", idx))
		args = append(args, f.DateTo)
		idx++
	}
	if f.IsVerified != nil {
		where = append(where, fmt.Sprintf("l.is_verified = $%d", idx))
		args = append(args, *f.IsVerified)
		idx++
	}

	if len(where) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

// List returns one page of leads matching the filters, newest first with id
// as the tie-breaker. Total counts all matching rows before pagination; a
// page past the end yields an empty slice, not an error.
func (r *LeadRepository) List(ctx context.Context, f entity.LeadFilters, page, perPage int) (*entity.LeadPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = entity.DefaultPerPage
	}

	whereClause, args := buildLeadFilters(f)

	var total int
	countQuery := "SELECT COUNT(*) FROM leads l" + whereClause
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, entity.NewStorageError("count leads", err)
	}

	query := "SELECT" + leadColumns + leadFrom + whereClause +
		fmt.Sprintf(" ORDER BY l.created_at DESC, l.id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, perPage, (page-1)*perPage)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, entity.NewStorageError("list leads", err)
	}
	defer rows.Close()

	leads := make([]*entity.Lead, 0, perPage)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, entity.NewStorageError("scan lead", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, entity.NewStorageError("list leads", err)
	}

	totalPages := (total + perPage - 1) / perPage

	return &entity.LeadPage{
		Data:       leads,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}, nil
}

// GetByID returns the full record including the joined source fields.
func (r *LeadRepository) GetByID(ctx context.Context, id int64) (*entity.Lead, error) {
	query := "SELECT" + leadColumns + leadFrom + " WHERE l.id = $1"

	lead, err := scanLead(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrNotFound
		}
		return nil, entity.NewStorageError("get lead", err)
	}
	return lead, nil
}

// EmailExists reports whether another lead already uses the email.
// A non-zero excludeID lets an update check against all other rows.
func (r *LeadRepository) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM leads WHERE email = $1 AND id <> $2)",
		email, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, entity.NewStorageError("email exists", err)
	}
	return exists, nil
}

// Create inserts the lead and returns its assigned id. The unique index on
// email is the authoritative uniqueness guard: its violation comes back as
// entity.ErrEmailAlreadyExists.
func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) (int64, error) {
	if lead.Source == "" {
		lead.Source = "Manual"
	}
	if lead.Status == "" {
		lead.Status = entity.StatusNew
	}

	query := `
		INSERT INTO leads (name, email, phone, company, website, address, city,
			state, country, postal_code, source_id, source, status, score,
			is_verified, tags, notes, custom_fields, assigned_to, created_by,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, NOW(), NOW())
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		lead.Name,
		lead.Email,
		nullString(lead.Phone),
		nullString(lead.Company),
		nullString(lead.Website),
		nullString(lead.Address),
		nullString(lead.City),
		nullString(lead.State),
		nullString(lead.Country),
		nullString(lead.PostalCode),
		lead.SourceID,
		lead.Source,
		lead.Status,
		lead.Score,
		lead.IsVerified,
		jsonValue(lead.Tags),
		nullString(lead.Notes),
		jsonValue(lead.Custom),
		lead.AssignedTo,
		lead.CreatedBy,
	).Scan(&id)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return 0, entity.ErrEmailAlreadyExists
		}
		return 0, entity.NewStorageError("create lead", err)
	}

	lead.ID = id
	return id, nil
}

// Update applies a partial edit and returns the reloaded record. Moving the
// status to contacted or converted stamps the matching first-transition
// timestamp; moving away later never clears it.
func (r *LeadRepository) Update(ctx context.Context, id int64, upd entity.LeadUpdate) (*entity.Lead, error) {
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
	if upd.Email != nil {
		set("email", *upd.Email)
	}
	if upd.Phone != nil {
		set("phone", nullString(*upd.Phone))
	}
	if upd.Company != nil {
		set("company", nullString(*upd.Company))
	}
	if upd.Website != nil {
		set("website", nullString(*upd.Website))
	}
	if upd.Address != nil {
		set("address", nullString(*upd.Address))
	}
	if upd.City != nil {
		set("city", nullString(*upd.City))
	}
	if upd.State != nil {
		set("state", nullString(*upd.State))
	}
	if upd.Country != nil {
		set("country", nullString(*upd.Country))
	}
	if upd.PostalCode != nil {
		set("postal_code", nullString(*upd.PostalCode))
	}
	if upd.SourceID != nil {
		set("source_id", *upd.SourceID)
	}
	if upd.Source != nil {
		set("source", *upd.Source)
	}
	if upd.Status != nil {
		set("status", *upd.Status)
		switch *upd.Status {
		case entity.StatusContacted:
			sets = append(sets, "last_contacted_at = NOW()")
		case entity.StatusConverted:
			sets = append(sets, "converted_at = NOW()")
		}
	}
	if upd.Score != nil {
		set("score", *upd.Score)
	}
	if upd.IsVerified != nil {
		set("is_verified", *upd.IsVerified)
	}
	if upd.Tags != nil {
		set("tags", jsonValue(*upd.Tags))
	}
	if upd.Notes != nil {
		set("notes", nullString(*upd.Notes))
	}
	if upd.Custom != nil {
		set("custom_fields", jsonValue(*upd.Custom))
	}
	if upd.AssignedTo != nil {
		set("assigned_to", *upd.AssignedTo)
	}

	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf("UPDATE leads SET %s WHERE id = $%d", strings.Join(sets, ", "), idx)
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, entity.ErrEmailAlreadyExists
		}
		return nil, entity.NewStorageError("update lead", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, entity.NewStorageError("update lead", err)
	}
	if affected == 0 {
		return nil, entity.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

// Delete removes the row. A missing id is reported as false, not an error.
func (r *LeadRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM leads WHERE id = $1", id)
	if err != nil {
		return false, entity.NewStorageError("delete lead", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, entity.NewStorageError("delete lead", err)
	}
	return affected > 0, nil
}

// BulkDelete removes every existing id in the set in one statement and
// returns how many rows were actually removed.
func (r *LeadRepository) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM leads WHERE id = ANY($1)", pq.Array(ids))
	if err != nil {
		return 0, entity.NewStorageError("bulk delete leads", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, entity.NewStorageError("bulk delete leads", err)
	}
	return affected, nil
}

// Recent returns the latest leads with their source name, for the dashboard.
func (r *LeadRepository) Recent(ctx context.Context, limit int) ([]*entity.Lead, error) {
	if limit <= 0 {
		limit = 5
	}
	query := "SELECT" + leadColumns + leadFrom + " ORDER BY l.created_at DESC, l.id DESC LIMIT $1"

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, entity.NewStorageError("recent leads", err)
	}
	defer rows.Close()

	leads := make([]*entity.Lead, 0, limit)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, entity.NewStorageError("scan lead", err)
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// InTx runs fn against a repository bound to a single transaction. Any error
// (or panic) rolls the whole unit back; this is the atomicity boundary the
// bulk import relies on.
func (r *LeadRepository) InTx(ctx context.Context, fn func(entity.LeadWriter) error) error {
	if r.pool == nil {
		return entity.NewStorageError("begin tx", errors.New("repository already transactional"))
	}

	tx, err := r.pool.BeginTx(ctx, nil)
	if err != nil {
		return entity.NewStorageError("begin tx", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	txRepo := &LeadRepository{db: tx, logger: r.logger}
	if err := fn(txRepo); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.logger.Error("rollback failed", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return entity.NewStorageError("commit tx", err)
	}
	return nil
}
