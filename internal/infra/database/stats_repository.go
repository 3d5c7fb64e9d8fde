package database

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/leadgen-io/leadgen-api/internal/entity"
)

// StatsRepository computes the read-only aggregates over the lead store.
type StatsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewStatsRepository(db *sql.DB, logger *zap.Logger) *StatsRepository {
	return &StatsRepository{db: db, logger: logger}
}

// Overview returns the headline counts. "Today" is evaluated in the given
// time zone, e.g. "UTC" or "America/Sao_Paulo".
func (r *StatsRepository) Overview(ctx context.Context, timezone string) (*entity.Overview, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE is_verified),
			COUNT(*) FILTER (WHERE (created_at AT TIME ZONE $1)::date = (NOW() AT TIME ZONE $1)::date)
		FROM leads
	`

	var o entity.Overview
	err := r.db.QueryRowContext(ctx, query, timezone).Scan(&o.TotalLeads, &o.VerifiedLeads, &o.TodayLeads)
	if err != nil {
		return nil, entity.NewStorageError("overview", err)
	}
	return &o, nil
}

// StatusCounts returns a count per status plus an "all" total. Every one of
// the five statuses is present even when its count is zero.
func (r *StatsRepository) StatusCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM leads GROUP BY status")
	if err != nil {
		return nil, entity.NewStorageError("status counts", err)
	}
	defer rows.Close()

	counts := map[string]int{"all": 0}
	for _, s := range entity.Statuses {
		counts[s] = 0
	}

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, entity.NewStorageError("status counts", err)
		}
		counts[status] = count
		counts["all"] += count
	}
	return counts, rows.Err()
}

// SourcePerformance returns one row per active source with its lead count
// and how many of those leads are currently converted, busiest source first.
func (r *StatsRepository) SourcePerformance(ctx context.Context) ([]*entity.SourcePerformance, error) {
	query := `
		SELECT ls.id, ls.name,
			COUNT(l.id),
			COUNT(l.id) FILTER (WHERE l.status = 'converted')
		FROM lead_sources ls
		LEFT JOIN leads l ON l.source_id = ls.id
		WHERE ls.is_active
		GROUP BY ls.id, ls.name
		ORDER BY COUNT(l.id) DESC, ls.name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, entity.NewStorageError("source performance", err)
	}
	defer rows.Close()

	perf := make([]*entity.SourcePerformance, 0)
	for rows.Next() {
		var p entity.SourcePerformance
		if err := rows.Scan(&p.SourceID, &p.SourceName, &p.LeadCount, &p.ConvertedCount); err != nil {
			return nil, entity.NewStorageError("source performance", err)
		}
		perf = append(perf, &p)
	}
	return perf, rows.Err()
}

// DailyTrend returns one bucket per calendar date with at least one lead
// created within the trailing window. Zero-count days are omitted; callers
// that need a dense series fill the gaps themselves.
func (r *StatsRepository) DailyTrend(ctx context.Context, days int) ([]*entity.TrendPoint, error) {
	if days <= 0 {
		days = 30
	}

	query := `
		SELECT created_at::date AS day, COUNT(*)
		FROM leads
		WHERE created_at >= NOW() - make_interval(days => $1)
		GROUP BY day
		ORDER BY day ASC
	`

	rows, err := r.db.QueryContext(ctx, query, days)
	if err != nil {
		return nil, entity.NewStorageError("daily trend", err)
	}
	defer rows.Close()

	trend := make([]*entity.TrendPoint, 0, days)
	for rows.Next() {
		var day time.Time
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			return nil, entity.NewStorageError("daily trend", err)
		}
		trend = append(trend, &entity.TrendPoint{Date: day.Format("2006-01-02"), Count: count})
	}
	return trend, rows.Err()
}
