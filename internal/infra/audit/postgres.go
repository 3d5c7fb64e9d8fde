package audit

import (
	"context"
	"database/sql"

	"go.uber.org/zap"
)

// PostgresRecorder appends entries to the activity_logs table.
type PostgresRecorder struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresRecorder(db *sql.DB, logger *zap.Logger) *PostgresRecorder {
	return &PostgresRecorder{db: db, logger: logger}
}

func (r *PostgresRecorder) Record(ctx context.Context, actorID *int64, action, details string) {
	var ip any
	if v := ClientIP(ctx); v != "" {
		ip = v
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO activity_logs (user_id, action, details, ip_address, created_at)
		 VALUES ($1, $2, $3, $4, NOW())`,
		actorID, action, details, ip,
	)
	if err != nil {
		r.logger.Warn("activity log write failed", zap.String("action", action), zap.Error(err))
	}
}
